package dom

import (
	"errors"
	"fmt"
)

// ErrStructural reports that a page lacks a tag its extractor depends on.
var ErrStructural = errors.New("required tag not found")

// StructuralError names the missing tag and where it was looked for.
type StructuralError struct {
	// Query is the lookup that found nothing.
	Query Query

	// Context describes the node the lookup started from.
	Context string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("tag not found: %s in %s", e.Query, e.Context)
}

// Unwrap lets errors.Is match ErrStructural.
func (e *StructuralError) Unwrap() error {
	return ErrStructural
}
