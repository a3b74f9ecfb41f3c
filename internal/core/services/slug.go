package services

import (
	"fmt"
	"math/rand"

	"github.com/gosimple/slug"
)

// newSlug builds a URL slug from a title with a random numeric suffix so two
// posts or tags with the same title never collide.
func newSlug(title string) string {
	return fmt.Sprintf("%s-%d", slug.Make(title), 100000+rand.Intn(900000))
}
