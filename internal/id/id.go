package id

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a lowercase ULID. The millisecond timestamp prefix plus 80 random
// bits make collisions between concurrent uploads practically impossible
// without any coordination.
func New() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}
