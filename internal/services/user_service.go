package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heartwise/cardio-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound means the email does not resolve to an account. Callers
	// surface this as 404, distinct from an authorization failure.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken means an account with that email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// defaultProfilePicture is the avatar assigned to new accounts.
const defaultProfilePicture = "profile_pictures/default_male_image.png"

// UserServiceProvider defines the interface for the account directory.
type UserServiceProvider interface {
	GetUserByEmail(email string) (models.User, error)
	CreateUser(email, firstName, lastName, phoneNumber, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	UpdateProfile(email string, upd models.ProfileUpdate) (models.User, error)
	SetProfilePicture(email, ref string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, email, username, first_name, last_name, phone_number, profile_picture, password_hash, created_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName,
		&user.LastName, &user.PhoneNumber, &user.ProfilePicture,
		&user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// CreateUser creates a new account, hashing the password. The username
// defaults to the local part of the email. A duplicate email fails with
// ErrEmailTaken, enforced by the UNIQUE constraint so concurrent attempts
// cannot both succeed.
func (s *UserService) CreateUser(email, firstName, lastName, phoneNumber, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	user := models.User{
		ID:             uuid.New().String(),
		Email:          email,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		PhoneNumber:    phoneNumber,
		ProfilePicture: defaultProfilePicture,
		PasswordHash:   string(hashedPassword),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, email, username, first_name, last_name, phone_number, profile_picture, password_hash) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Username, user.FirstName, user.LastName,
		user.PhoneNumber, user.ProfilePicture, user.PasswordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	return s.GetUserByEmail(email)
}

// AuthenticateUser verifies a user's credentials. Unknown email and wrong
// password share a single failure mode.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	return user, nil
}

// UpdateProfile applies the non-empty fields of upd to the account and
// returns the fresh record.
func (s *UserService) UpdateProfile(email string, upd models.ProfileUpdate) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	if upd.FirstName != "" {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		user.LastName = upd.LastName
	}
	if upd.Username != "" {
		user.Username = upd.Username
	}
	if upd.PhoneNumber != "" {
		user.PhoneNumber = upd.PhoneNumber
	}

	_, err = s.db.Exec(
		"UPDATE users SET first_name = ?, last_name = ?, username = ?, phone_number = ? WHERE email = ?",
		user.FirstName, user.LastName, user.Username, user.PhoneNumber, email,
	)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByEmail(email)
}

// SetProfilePicture updates the stored profile picture reference.
func (s *UserService) SetProfilePicture(email, ref string) (models.User, error) {
	res, err := s.db.Exec("UPDATE users SET profile_picture = ? WHERE email = ?", ref, email)
	if err != nil {
		return models.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, ErrUserNotFound
	}
	return s.GetUserByEmail(email)
}
