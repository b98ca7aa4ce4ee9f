package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// Helper functions for common HTTP responses

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeCreated writes a 201 Created response with a JSON body.
func writeCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps service and id errors to status codes.
//
// Invalid input is 400, missing records 404, import collisions 409, and
// clock trouble 503 with a Retry-After hint.
func writeServiceError(w http.ResponseWriter, err error) {
	var regression *snowflake.ClockRegressionError
	switch {
	case errors.As(err, &regression):
		w.Header().Set("Retry-After", strconv.FormatInt(max(1, (regression.Backward()+999)/1000), 10))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, snowflake.ErrTimestampOutOfRange):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, articlesvc.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, articlesvc.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, articlesvc.ErrInvalidRecord),
		errors.Is(err, articlesvc.ErrInvalidFilter),
		errors.Is(err, articlesvc.ErrUnknownAuthor),
		errors.Is(err, snowflake.ErrInvalidArgument),
		errors.Is(err, snowflake.ErrRadixRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathID parses the {id} route variable as a decimal id.
func pathID(r *http.Request) (snowflake.ID, error) {
	return snowflake.Parse(mux.Vars(r)["id"])
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns 0 for empty strings or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseBool parses a boolean string and returns the boolean value.
//
// Returns true for "true" or "1", false otherwise.
func parseBool(s string) bool {
	return s == "true" || s == "1"
}
