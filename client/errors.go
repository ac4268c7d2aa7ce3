package client

import (
	"errors"
	"fmt"

	"github.com/spetersoncode/openrouter"
)

// ErrNoModel is returned when no model is specified and no default is configured.
type ErrNoModel struct {
	Operation string
}

func (e *ErrNoModel) Error() string {
	return fmt.Sprintf("no model specified for %s: set client.Config DefaultModel or use openrouter.WithModel()", e.Operation)
}

func invalidResponse(detail string) error {
	return openrouter.NewValidationError("invalid response data", errors.New(detail))
}
