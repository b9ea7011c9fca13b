package core

import (
	"fmt"
	"strings"
)

// ValidationError reports input that violates a precondition, such as two
// tasks sharing a name in one scheduling run.
type ValidationError struct {
	Field    string
	Problems []string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + strings.Join(e.Problems, "; ")
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, strings.Join(e.Problems, "; "))
}
