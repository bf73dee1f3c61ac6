package engine

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh element id on every call.
type IDGenerator func() string

// RandomIDs is the default generator.
func RandomIDs() string { return uuid.NewString() }

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
