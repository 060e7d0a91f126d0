package analyzer

import (
	"errors"
	"fmt"
)

// ErrSchema is matched by every SchemaError through errors.Is.
var ErrSchema = errors.New("schema error")

// SchemaError reports a required column that the table header lacks.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q not found in table header", ErrSchema, e.Field)
}

// Is makes errors.Is(err, ErrSchema) succeed.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
