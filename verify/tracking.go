package verify

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	trackingPrefix    = "SNW"
	trackingBatchSize = 20
	trackingAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingRandLen   = 8
)

// generateTrackingNumbers mints n identifiers of the form
// SNW-<5 digits>-<8 alphanumerics>: the digits come from the current
// unix-millisecond clock, the tail is random. Uniqueness within a batch is
// best-effort; cross-batch uniqueness comes from issuance being keyed by
// reference, not from the identifiers themselves.
func generateTrackingNumbers(n int, now time.Time) ([]string, error) {
	suffix := fmt.Sprintf("%05d", now.UnixMilli()%100000)
	numbers := make([]string, 0, n)
	for i := 0; i < n; i++ {
		r, err := gonanoid.Generate(trackingAlphabet, trackingRandLen)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, fmt.Sprintf("%s-%s-%s", trackingPrefix, suffix, r))
	}
	return numbers, nil
}
