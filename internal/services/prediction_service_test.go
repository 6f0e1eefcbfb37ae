package services

import (
	"testing"
	"time"

	"github.com/heartwise/cardio-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeatures() models.Features {
	vals := []float64{63, 1, 3, 145, 233, 1, 0, 150, 0, 2.3, 0, 0, 1}
	f := models.Features{}
	ptrs := []**float64{
		&f.Age, &f.Sex, &f.CP, &f.Trestbps, &f.Chol, &f.FBS,
		&f.Restecg, &f.Thalach, &f.Exang, &f.Oldpeak, &f.Slope, &f.CA, &f.Thal,
	}
	for i := range ptrs {
		v := vals[i]
		*ptrs[i] = &v
	}
	return f
}

func TestSaveAndListPredictions(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewPredictionService(db)

	user, err := users.CreateUser("a@b.com", "", "", "", "x")
	require.NoError(t, err)

	require.NoError(t, svc.Save(user.ID, sampleFeatures(), 1))
	require.NoError(t, svc.Save(user.ID, sampleFeatures(), 0))

	history, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, float64(63), history[0].Age)
	assert.Equal(t, float64(2.3), history[0].Oldpeak)

	other, err := svc.ListByUser("no-such-user")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPurgeOlderThan(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewPredictionService(db)

	user, err := users.CreateUser("a@b.com", "", "", "", "x")
	require.NoError(t, err)
	require.NoError(t, svc.Save(user.ID, sampleFeatures(), 1))

	// A cutoff in the past keeps the fresh row.
	purged, err := svc.PurgeOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)

	// A cutoff in the future removes it.
	purged, err = svc.PurgeOlderThan(time.Now().Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	history, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
