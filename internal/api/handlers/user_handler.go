package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/heartwise/cardio-be/internal/auth"
	"github.com/heartwise/cardio-be/internal/models"
	"github.com/heartwise/cardio-be/internal/services"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps profile picture uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// UserHandler handles HTTP requests for registration, login and profiles.
type UserHandler struct {
	service   services.UserServiceProvider
	tokens    *auth.TokenManager
	uploadDir string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, uploadDir string) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, uploadDir: uploadDir}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration. A fresh token is issued so the
// client is logged in immediately.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Missing mandatory fields: email.")
		return
	}

	user, err := h.service.CreateUser(email, payload.FirstName, payload.LastName, payload.PhoneNumber, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "User already exists!")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "Failed to register user: "+err.Error())
		return
	}

	token, err := h.tokens.Generate(user.Email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
	})
}

// Login handles user authentication and token generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	email := strings.TrimSpace(payload.Email)
	password := strings.TrimSpace(payload.Password)
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Missing email or password.")
		return
	}

	user, err := h.service.AuthenticateUser(email, password)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Failed authentication attempt")
		writeError(w, http.StatusUnauthorized, "Invalid login credentials.")
		return
	}

	token, err := h.tokens.Generate(user.Email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful.",
		"token":   token,
	})
}

// currentUser resolves the authenticated subject to a full account. A valid
// token whose subject no longer exists is a 404, not an auth failure.
func (h *UserHandler) currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return models.User{}, false
	}

	user, err := h.service.GetUserByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return models.User{}, false
		}
		log.Error().Err(err).Str("email", claims.Email).Msg("Failed to look up user")
		writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return models.User{}, false
	}
	return user, true
}

// GetMe returns the authenticated user's details.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "User details fetched successfully.",
		"user_details": user,
	})
}

// EditDetails applies the non-empty form fields to the user's profile.
func (h *UserHandler) EditDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	updated, err := h.service.UpdateProfile(user.Email, models.ProfileUpdate{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Username:    r.PostFormValue("username"),
		PhoneNumber: r.PostFormValue("phone_number"),
	})
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to edit user details")
		writeError(w, http.StatusInternalServerError, "Failed to edit user details")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "User details edited successfully.",
		"user_details": updated,
	})
}

// ProfilePicture stores an uploaded picture and updates the user's reference.
func (h *UserHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No profile picture uploaded.")
		return
	}
	defer file.Close()

	ref := filepath.Join("profile_pictures", uuid.New().String()+filepath.Ext(header.Filename))
	dest := filepath.Join(h.uploadDir, ref)
	if err := h.savePicture(dest, file); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to save profile picture")
		writeError(w, http.StatusInternalServerError, "Error saving profile picture: "+err.Error())
		return
	}

	updated, err := h.service.SetProfilePicture(user.Email, filepath.ToSlash(ref))
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to update profile picture reference")
		writeError(w, http.StatusInternalServerError, "Error saving profile picture: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Profile picture edited successfully.",
		"user_details": updated,
	})
}

func (h *UserHandler) savePicture(dest string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
