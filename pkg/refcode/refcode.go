// Package refcode generates human-readable customer reference codes.
package refcode

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generate builds a reference code from a seed identifier:
// the first three characters of the seed, a YYMMDD date stamp, and an
// eight-character random suffix, joined by hyphens.
//
// Uniqueness rests on the suffix (a truncated v4 UUID), so no store
// round-trip is needed; seeds shorter than three characters are used in full.
func Generate(seed string) string {
	return generateAt(seed, time.Now())
}

func generateAt(seed string, now time.Time) string {
	prefix := seed
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("060102"), suffix)
}
