package scryfall

import "strings"

// APIError is an error object returned by the Scryfall API.
type APIError struct {
	Status   int
	Message  string
	Warnings []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "scryfall API returned an error"
	}
	if len(e.Warnings) > 0 {
		msg += " (" + strings.Join(e.Warnings, "; ") + ")"
	}
	return msg
}

// IsNotFound reports whether the requested resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.Status == 404
}

// IsBadRequest reports whether the request itself was malformed.
func (e *APIError) IsBadRequest() bool {
	return e.Status == 400
}

// IsInvalidFace reports whether a face was requested that the card does
// not have.
func (e *APIError) IsInvalidFace() bool {
	return e.Status == 422
}

// ParseError builds an APIError from a decoded error response body. When
// the body is not a well-formed error object the HTTP status alone is
// used.
func ParseError(status int, body map[string]any) *APIError {
	e := &APIError{Status: status}
	if body == nil {
		return e
	}
	if details, ok := body["details"].(string); ok {
		e.Message = details
	}
	if st, ok := body["status"].(float64); ok {
		e.Status = int(st)
	}
	if raw, ok := body["warnings"].([]any); ok {
		for _, w := range raw {
			if s, ok := w.(string); ok {
				e.Warnings = append(e.Warnings, s)
			}
		}
	}
	return e
}
