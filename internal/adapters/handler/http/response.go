package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error      string     `json:"error"`
	Message    string     `json:"message"`
	QuestionID *uuid.UUID `json:"question_id,omitempty"`
}

// JSONResponse writes data as a JSON body with the given status.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, errorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidationRejected):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyVoted), errors.Is(err, domain.ErrPollNotVotable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err to the client. Internal failures are logged and
// their details kept out of the body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && vErr.QuestionID != uuid.Nil {
		id := vErr.QuestionID
		body.QuestionID = &id
	}

	if status >= http.StatusInternalServerError {
		entry(r).WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			body.Message = "internal error"
		}
	}
	JSONResponse(w, status, body)
}
