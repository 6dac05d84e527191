package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/restorder/internal/common"
)

// APIError is a failed backend call: a non-2xx status, or a 2xx body that
// carries "success": false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return common.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return common.ErrUnavailable
	case e.StatusCode == http.StatusBadRequest,
		e.StatusCode == http.StatusUnprocessableEntity,
		e.StatusCode < http.StatusBadRequest:
		return common.ErrValidation
	default:
		return nil
	}
}

// mapError turns a transport failure into ErrUnavailable. Cancellation by
// the caller is passed through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}
