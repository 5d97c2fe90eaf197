package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nkuranov/elevsim/internal/domain"
)

// APIResponse is the envelope every httpapi endpoint responds with.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *APIMeta    `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries error details in the envelope.
type APIError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Details     string `json:"details,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	UserMessage string `json:"user_message,omitempty"`
}

// APIMeta carries request bookkeeping in the envelope.
type APIMeta struct {
	RequestID string `json:"request_id,omitempty"`
	Version   string `json:"version,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// ResponseWriter wraps http.ResponseWriter with the envelope helpers below.
type ResponseWriter struct {
	http.ResponseWriter
	logger    *slog.Logger
	requestID string
	startTime time.Time
}

// NewResponseWriter wraps w for a single request.
func NewResponseWriter(w http.ResponseWriter, logger *slog.Logger, requestID string) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, logger: logger, requestID: requestID, startTime: time.Now()}
}

// Hijack implements http.Hijacker for WebSocket upgrades through the chain.
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not implement http.Hijacker")
}

// WriteJSON writes data wrapped in the standard envelope.
func (rw *ResponseWriter) WriteJSON(statusCode int, data interface{}) {
	response := APIResponse{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
		Meta: &APIMeta{
			RequestID: rw.requestID,
			Version:   "v1",
			Duration:  time.Since(rw.startTime).String(),
		},
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("X-Request-ID", rw.requestID)

	encoded, err := json.Marshal(response)
	if err != nil {
		rw.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(statusCode)
	if _, err := rw.Write(encoded); err != nil {
		rw.logger.Error("failed to write JSON response", slog.String("error", err.Error()))
	}
}

// WriteError writes an error in the standard envelope.
func (rw *ResponseWriter) WriteError(statusCode int, errorCode, message, details string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:        errorCode,
			Message:     message,
			Details:     details,
			RequestID:   rw.requestID,
			UserMessage: userFriendlyMessage(errorCode),
		},
		Timestamp: time.Now(),
		Meta: &APIMeta{
			RequestID: rw.requestID,
			Version:   "v1",
			Duration:  time.Since(rw.startTime).String(),
		},
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("X-Request-ID", rw.requestID)
	rw.WriteHeader(statusCode)
	if err := json.NewEncoder(rw).Encode(response); err != nil {
		rw.logger.Error("failed to encode error response", slog.String("error", err.Error()))
	}
}

// WriteDomainError maps a domain.DomainError (or plain error) to the right
// status code and writes it in the standard envelope.
func (rw *ResponseWriter) WriteDomainError(err error) {
	statusCode := http.StatusInternalServerError
	errorCode := ErrorCodeInternal
	message := "internal server error"
	details := err.Error()

	if domainErr, ok := err.(*domain.DomainError); ok {
		switch domainErr.Type {
		case domain.ErrTypeValidation:
			statusCode, errorCode, message = http.StatusBadRequest, ErrorCodeValidation, "invalid input"
		case domain.ErrTypeNotFound:
			statusCode, errorCode, message = http.StatusNotFound, ErrorCodeNotFound, "resource not found"
		case domain.ErrTypeConflict:
			statusCode, errorCode, message = http.StatusConflict, ErrorCodeConflict, "conflicting request"
		}
	}

	rw.WriteError(statusCode, errorCode, message, details)
}

func userFriendlyMessage(errorCode string) string {
	switch errorCode {
	case ErrorCodeValidation:
		return "Please check your input and try again."
	case ErrorCodeNotFound:
		return "The requested resource was not found."
	case ErrorCodeConflict:
		return "The requested operation conflicts with the current simulation state."
	case ErrorCodeRateLimit:
		return "Too many requests. Please slow down."
	default:
		return "Something went wrong on our end. Please try again later."
	}
}

// ErrorCode constants used across handlers.
const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeInvalidJSON      = "INVALID_JSON"
	ErrorCodeRateLimit        = "RATE_LIMITED"
)
