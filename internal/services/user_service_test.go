package services

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/heartwise/cardio-be/internal/database"
	"github.com/heartwise/cardio-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateUser_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	user, err := svc.CreateUser("a@b.com", "Ada", "Lovelace", "555-0101", "x")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "a", user.Username, "username defaults to the email local part")
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "profile_pictures/default_male_image.png", user.ProfilePicture)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "x", user.PasswordHash)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("a@b.com", "", "", "", "x")
	require.NoError(t, err)

	_, err = svc.CreateUser("a@b.com", "", "", "", "y")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUser_ConcurrentDuplicate(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateUser("race@b.com", "", "", "", "x")
		}(i)
	}
	wg.Wait()

	// Exactly one create wins; the loser gets ErrEmailTaken, never
	// last-write-wins.
	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrEmailTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, taken)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	_, err := svc.GetUserByEmail("nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateUser(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.CreateUser("a@b.com", "", "", "", "correct-horse")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("a@b.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)

	_, err = svc.AuthenticateUser("a@b.com", "wrong")
	assert.Error(t, err)

	_, err = svc.AuthenticateUser("nobody@b.com", "correct-horse")
	assert.Error(t, err)
}

func TestUpdateProfile_OnlyNonEmptyFields(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.CreateUser("a@b.com", "Ada", "Lovelace", "555-0101", "x")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile("a@b.com", models.ProfileUpdate{
		FirstName: "Grace",
		Username:  "ghopper",
	})
	require.NoError(t, err)

	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "ghopper", updated.Username)
	assert.Equal(t, "Lovelace", updated.LastName, "empty fields stay untouched")
	assert.Equal(t, "555-0101", updated.PhoneNumber)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	_, err := svc.UpdateProfile("nobody@b.com", models.ProfileUpdate{FirstName: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetProfilePicture(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.CreateUser("a@b.com", "", "", "", "x")
	require.NoError(t, err)

	updated, err := svc.SetProfilePicture("a@b.com", "profile_pictures/new.png")
	require.NoError(t, err)
	assert.Equal(t, "profile_pictures/new.png", updated.ProfilePicture)

	_, err = svc.SetProfilePicture("nobody@b.com", "profile_pictures/new.png")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
