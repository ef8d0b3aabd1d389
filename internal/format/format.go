// Package format holds the small display helpers shared by render sites:
// compact counts, relative timestamps and upstream HTML unescaping.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var compactUnits = []string{"", "K", "M", "B"}

// CompactNumber renders a count the way the upstream UI does: 1234 -> 1.2K,
// 3400000 -> 3.4M. Downvoted totals scale their absolute value and keep
// the sign as the direction indicator.
func CompactNumber(n int) string {
	if n < 0 {
		return "-" + CompactNumber(-n)
	}

	value := float64(n)
	unit := 0

	for unit < len(compactUnits)-1 {
		scaled := math.Round(value/100) / 10
		if scaled < 1 {
			break
		}
		value = scaled
		unit++
	}

	return trimZero(value) + compactUnits[unit]
}

func trimZero(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	relUnits    = []string{"second", "minute", "hour", "day", "week", "month", "year"}
	relDivisors = []int64{60, 60, 24, 7, 30, 12}
)

// RelTime renders a unix timestamp as a coarse relative time ("5 minutes
// ago").
func RelTime(unixSec int64) string {
	return RelTimeAt(unixSec, time.Now())
}

// RelTimeAt is RelTime against an explicit reference time.
func RelTimeAt(unixSec int64, now time.Time) string {
	diff := now.Unix() - unixSec
	if diff < 0 {
		diff = 0
	}

	unit := 0
	for unit < len(relDivisors) && diff/relDivisors[unit] >= 1 {
		diff /= relDivisors[unit]
		unit++
	}

	plural := ""
	if diff != 1 {
		plural = "s"
	}
	return fmt.Sprintf("%d %s%s ago", diff, relUnits[unit], plural)
}

var numericEntity = regexp.MustCompile(`&#0?39;`)

// UnescapeHTML reverses the entity escaping the upstream API applies to
// URLs and body markup. The double &amp; pass is deliberate: payloads
// occasionally contain "&amp;amp;".
func UnescapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return numericEntity.ReplaceAllString(s, "'")
}
