package mealdb

import "fmt"

// StatusError captures non-2xx responses from the recipe API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
