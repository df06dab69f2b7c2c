// internal/util/ids.go
// ID generator for archived runs and requests

package util

import (
	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

// ValidID reports whether s looks like an ID produced by NewID.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
