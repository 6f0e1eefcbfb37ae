package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/heartwise/cardio-be/internal/models"
)

// PredictionServiceProvider defines the interface for the prediction history.
type PredictionServiceProvider interface {
	Save(userID string, f models.Features, outcome int) error
	ListByUser(userID string) ([]models.Prediction, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

// PredictionService stores each classifier run so users can review their
// history and the retention worker can expire old rows.
type PredictionService struct {
	db *sql.DB
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(db *sql.DB) *PredictionService {
	return &PredictionService{db: db}
}

// Save records one prediction for a user. All 13 features must be present.
func (s *PredictionService) Save(userID string, f models.Features, outcome int) error {
	vec := f.Vector()
	_, err := s.db.Exec(
		`INSERT INTO predictions(id, user_id, age, sex, cp, trestbps, chol, fbs,
		 restecg, thalach, exang, oldpeak, slope, ca, thal, outcome)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID,
		vec[0], vec[1], vec[2], vec[3], vec[4], vec[5], vec[6],
		vec[7], vec[8], vec[9], vec[10], vec[11], vec[12], outcome,
	)
	return err
}

// ListByUser returns a user's predictions, newest first.
func (s *PredictionService) ListByUser(userID string) ([]models.Prediction, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, age, sex, cp, trestbps, chol, fbs, restecg,
		 thalach, exang, oldpeak, slope, ca, thal, outcome, created_at
		 FROM predictions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		var p models.Prediction
		err := rows.Scan(&p.ID, &p.UserID, &p.Age, &p.Sex, &p.CP, &p.Trestbps,
			&p.Chol, &p.FBS, &p.Restecg, &p.Thalach, &p.Exang, &p.Oldpeak,
			&p.Slope, &p.CA, &p.Thal, &p.Outcome, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// PurgeOlderThan deletes predictions created before the cutoff and reports
// how many rows were removed.
func (s *PredictionService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	// created_at rows use sqlite's CURRENT_TIMESTAMP text format.
	res, err := s.db.Exec("DELETE FROM predictions WHERE created_at < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
