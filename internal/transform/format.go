package transform

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCompact shortens large counts: 1,234,567 → "1.2M", 1,234 → "1.2K",
// anything smaller is printed as an integer.
func FormatCompact(n float64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(n/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(n/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(int64(n), 10)
	}
}

// FormatCurrency prints a BNB amount. Amounts under 1 keep four decimals so
// fees stay visible.
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount)
	places := int32(2)
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		places = 4
	}
	return d.StringFixed(places) + " BNB"
}

// FormatSignedCurrency prefixes gains with "+".
func FormatSignedCurrency(amount float64) string {
	s := FormatCurrency(amount)
	if amount > 0 {
		return "+" + s
	}
	return s
}

// FormatPercent prints a 0..100 value with one decimal.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatGwei prints a gas price.
func FormatGwei(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " gwei"
}

// FormatDuration prints milliseconds as "850ms" or "1.2s".
func FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatAgo prints a relative time ("3 minutes ago"); zero times are "never".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// ShortAddress abbreviates a hex address to 0x1234…abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
