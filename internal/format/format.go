// Package format renders money, dates and counts for reports and messages.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Currency renders whole US dollars: 85000 -> "$85,000", -1200.4 -> "-$1,200".
func Currency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// Date renders "Jan 2, 2006"; zero times give "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// Relative renders distance to now, e.g. "3 days ago" or "2 hours from now".
func Relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func Percentage(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

func Number(n int64) string {
	return humanize.Comma(n)
}
