package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError; the error is mapped through insights.MapError,
// logged with full detail and the request ID, and returned to the client as
// JSON for /api routes or as an HTML alert for pages.

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/insights"
	"github.com/JonMunkholm/jobinsights/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks an HTTP status from the mapped error code.
func statusFor(msg insights.UserMessage) int {
	switch msg.Code {
	case "VAL001", "VAL002", "FILE003":
		return http.StatusBadRequest
	case "FILE001", "SRC002", "SRC003":
		return http.StatusNotFound
	case "FILE002", "FILE004":
		return http.StatusUnprocessableEntity
	case "SRC005":
		return http.StatusForbidden
	case "SRC001":
		return http.StatusServiceUnavailable
	case "REQ002":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response. A zero
// statusCode derives the status from the error code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := insights.MapError(err)
	if statusCode == 0 {
		statusCode = statusFor(userMsg)
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	respondErrorHTML(w, r, userMsg, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg insights.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error alert page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg insights.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := errorPage(msg).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// writeJSON encodes v as JSON with a 200 status.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
