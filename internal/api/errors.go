// internal/api/errors.go
package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is the typed failure the backend returns on non-2xx
// responses. Message folds the optional validation details into one
// human-readable string, suitable for inline display.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// errorPayload matches the backend error envelope:
// {"error": "...", "details": [{"message": "..."}]}
type errorPayload struct {
	Error   string `json:"error"`
	Details []struct {
		Message string `json:"message"`
	} `json:"details"`
}

func decodeError(status int, body []byte) *Error {
	var payload errorPayload
	message := ""

	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Details) > 0 {
			parts := make([]string, 0, len(payload.Details))
			for _, d := range payload.Details {
				if d.Message != "" {
					parts = append(parts, d.Message)
				}
			}
			message = strings.Join(parts, ". ")
		}
		if message == "" {
			message = payload.Error
		}
	}

	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	return &Error{Status: status, Message: message}
}
