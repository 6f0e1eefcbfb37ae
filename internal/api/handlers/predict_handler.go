package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/heartwise/cardio-be/internal/auth"
	"github.com/heartwise/cardio-be/internal/models"
	"github.com/heartwise/cardio-be/internal/places"
	"github.com/heartwise/cardio-be/internal/predictor"
	"github.com/heartwise/cardio-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Advisory messages returned for each predicted class.
const (
	adviceNegative = "Congratulations! Our model predicts that you are not likely to have heart disease. Please consult with a doctor to confirm."
	advicePositive = "Our model predicts that you are likely to have heart disease. Please consult with a doctor for further evaluation."
)

// PredictHandler handles classifier and hospital-search requests.
type PredictHandler struct {
	users       services.UserServiceProvider
	predictions services.PredictionServiceProvider
	model       predictor.Provider
	places      places.Provider
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(users services.UserServiceProvider, predictions services.PredictionServiceProvider, model predictor.Provider, placesClient places.Provider) *PredictHandler {
	return &PredictHandler{users: users, predictions: predictions, model: model, places: placesClient}
}

// Predict validates the 13 feature fields, runs the classifier and records
// the outcome. The model is never invoked on incomplete or non-numeric input.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.users.GetUserByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Error().Err(err).Str("email", claims.Email).Msg("Failed to look up user")
		writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}

	var features models.Features
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeError(w, http.StatusBadRequest, "Field "+typeErr.Field+" must be numeric.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	if missing := features.Missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing mandatory fields: "+strings.Join(missing, ", ")+".")
		return
	}

	outcome := h.model.Predict(features.Vector())

	if err := h.predictions.Save(user.ID, features, outcome); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to save prediction")
		writeError(w, http.StatusInternalServerError, "Error saving prediction: "+err.Error())
		return
	}

	advice := adviceNegative
	if outcome == 1 {
		advice = advicePositive
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Prediction made successfully.",
		"prediction": advice,
	})
}

// CoordinatesPayload defines the structure for hospital-search requests.
type CoordinatesPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// FindNearbyHospitals proxies a hospital search to the places API and returns
// its result list verbatim.
func (h *PredictHandler) FindNearbyHospitals(w http.ResponseWriter, r *http.Request) {
	var payload CoordinatesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	if payload.Latitude == nil || payload.Longitude == nil {
		writeError(w, http.StatusBadRequest, "Latitude and Longitude are required.")
		return
	}

	hospitals, err := h.places.NearbyHospitals(r.Context(), *payload.Latitude, *payload.Longitude)
	if err != nil {
		log.Error().Err(err).Msg("Hospital search upstream call failed")
		writeError(w, http.StatusBadGateway, "Hospital search is temporarily unavailable.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"hospitals": hospitals,
	})
}

// History returns the authenticated user's prediction history, newest first.
func (h *PredictHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.users.GetUserByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Error().Err(err).Str("email", claims.Email).Msg("Failed to look up user")
		writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}

	history, err := h.predictions.ListByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list predictions")
		writeError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"predictions": history,
	})
}
