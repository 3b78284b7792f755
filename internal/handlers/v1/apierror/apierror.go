// Package apierror installs the JSON error envelope shared by every
// endpoint: {"message": "...", "details": ["..."]}. Importing the package
// is enough to activate it.
package apierror

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Error is the body of every error response.
type Error struct {
	status  int
	Message string   `json:"message" doc:"Human readable error message"`
	Details []string `json:"details,omitempty" doc:"Individual problems, such as the missing fields"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.status
}

// New builds an error response. Schema validation failures reported by huma
// as 422 are answered with 400 like every other input error.
func New(status int, message string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &Error{status: status, Message: message}
	for _, err := range errs {
		if err == nil {
			continue
		}
		apiErr.Details = append(apiErr.Details, err.Error())
	}
	return apiErr
}

func init() {
	huma.NewError = New
}
