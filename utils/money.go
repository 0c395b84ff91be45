package utils

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds a currency amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds an inch measurement to thousandths.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatUSD formats an amount in dollars as a string like "$12,500.00".
// Uses comma as thousands separator.
func FormatUSD(amount float64) string {
	cents := int64(math.Round(amount * 100))
	neg := cents < 0
	if neg {
		cents = -cents
	}

	s := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	// Pre-allocate: digits + separators + $ + cents
	b.Grow(len(s) + len(s)/3 + 5)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))

	return b.String()
}
