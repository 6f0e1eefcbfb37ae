package models

import "time"

// FeatureNames lists the classifier inputs in the order the model expects them.
var FeatureNames = []string{
	"age", "sex", "cp", "trestbps", "chol", "fbs",
	"restecg", "thalach", "exang", "oldpeak", "slope", "ca", "thal",
}

// Features is the typed request body for a prediction. Pointer fields
// distinguish an absent field from a zero value.
type Features struct {
	Age      *float64 `json:"age"`
	Sex      *float64 `json:"sex"`
	CP       *float64 `json:"cp"`
	Trestbps *float64 `json:"trestbps"`
	Chol     *float64 `json:"chol"`
	FBS      *float64 `json:"fbs"`
	Restecg  *float64 `json:"restecg"`
	Thalach  *float64 `json:"thalach"`
	Exang    *float64 `json:"exang"`
	Oldpeak  *float64 `json:"oldpeak"`
	Slope    *float64 `json:"slope"`
	CA       *float64 `json:"ca"`
	Thal     *float64 `json:"thal"`
}

func (f Features) fields() []*float64 {
	return []*float64{
		f.Age, f.Sex, f.CP, f.Trestbps, f.Chol, f.FBS,
		f.Restecg, f.Thalach, f.Exang, f.Oldpeak, f.Slope, f.CA, f.Thal,
	}
}

// Missing returns the names of all absent fields, in model order.
func (f Features) Missing() []string {
	var missing []string
	for i, v := range f.fields() {
		if v == nil {
			missing = append(missing, FeatureNames[i])
		}
	}
	return missing
}

// Vector returns the feature values in model order. All fields must be present.
func (f Features) Vector() [13]float64 {
	var vec [13]float64
	for i, v := range f.fields() {
		vec[i] = *v
	}
	return vec
}

// Prediction is one stored classifier run for a user.
type Prediction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Age       float64   `json:"age"`
	Sex       float64   `json:"sex"`
	CP        float64   `json:"cp"`
	Trestbps  float64   `json:"trestbps"`
	Chol      float64   `json:"chol"`
	FBS       float64   `json:"fbs"`
	Restecg   float64   `json:"restecg"`
	Thalach   float64   `json:"thalach"`
	Exang     float64   `json:"exang"`
	Oldpeak   float64   `json:"oldpeak"`
	Slope     float64   `json:"slope"`
	CA        float64   `json:"ca"`
	Thal      float64   `json:"thal"`
	Outcome   int       `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}
