// Package slugid turns human room names into URL-safe identifiers.
package slugid

import (
	"fmt"
	"math/rand"

	"github.com/gosimple/slug"
)

// Make slugifies a human-entered room name ("Acme Gate" -> "acme-gate").
// Returns "" if nothing slugifiable remains.
func Make(name string) string {
	return slug.Make(name)
}

// WithSuffix appends a random 3-digit suffix for uniqueness probing
// ("acme-gate" -> "acme-gate-214").
func WithSuffix(id string) string {
	return fmt.Sprintf("%s-%03d", id, rand.Intn(1000))
}
