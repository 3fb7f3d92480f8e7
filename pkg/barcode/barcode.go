// Package barcode generates evidence barcodes.
package barcode

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	SamplePrefix = "SMP"
	ReportPrefix = "RPT"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns "<prefix>-<ULID>". ULIDs sort by creation time, so barcodes
// printed on the same day stay adjacent in the register.
func New(prefix string, at time.Time) string {
	mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(at), entropy)
	mu.Unlock()
	return prefix + "-" + id.String()
}

func Sample(at time.Time) string { return New(SamplePrefix, at) }
func Report(at time.Time) string { return New(ReportPrefix, at) }

// Valid reports whether code is "<prefix>-<ULID>"
func Valid(prefix, code string) bool {
	rest, ok := strings.CutPrefix(code, prefix+"-")
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
