package response

import "net/http"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	StatusCode int               `json:"status_code"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Error builds the envelope for status; the label is the status text.
func Error(status int, message string, fields map[string]string) ErrorResponse {
	return ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
		Fields:     fields,
	}
}
