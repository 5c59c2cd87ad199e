package rental

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultReservationPrefix = "RNT-"

// NextReservationNumber returns the number following last, e.g. RNT-007 -> RNT-008.
// An empty or unparsable last number restarts the sequence at 1.
func NextReservationNumber(prefix, last string) string {
	next := 1
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil && n >= 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}

// NextOfferNumber returns the next offer number for the year of today:
// two-digit year followed by a four-digit sequence, e.g. 260014.
func NextOfferNumber(today time.Time, existing []string) string {
	yy := fmt.Sprintf("%02d", today.Year()%100)
	highest := 0
	for _, number := range existing {
		if !IsOfferNumber(number) || !strings.HasPrefix(number, yy) {
			continue
		}
		if n, err := strconv.Atoi(number[2:]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", yy, highest+1)
}

// IsOfferNumber reports whether number has the six-digit offer shape.
func IsOfferNumber(number string) bool {
	if len(number) != 6 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// OfferYearPrefix is the two-digit year every offer number of that year starts with.
func OfferYearPrefix(today time.Time) string {
	return fmt.Sprintf("%02d", today.Year()%100)
}
