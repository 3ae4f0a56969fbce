package response

import (
	"errors"
	"net/http"
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// ErrorBody is the JSON envelope of an error response.
type ErrorBody struct {
	Error HTTPError `json:"error"`
}

// Error writes err as a JSON error response.
// HTTPError values are written as-is; errors implementing StatusCode() map to
// the matching predefined error; anything else becomes 500.
func Error(w http.ResponseWriter, err error) error {
	httpErr := ToHTTPError(err)
	return JSONWithStatus(w, ErrorBody{Error: httpErr}, httpErr.Status)
}

// ToHTTPError converts any error to an HTTPError.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}
