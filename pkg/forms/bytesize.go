package forms

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders a byte count as an IEC size string, e.g.
// 1073741824 -> "1 GiB". Whole multiples drop the trailing ".0".
func FormatBytes(bytes uint64) string {
	return strings.Replace(humanize.IBytes(bytes), ".0 ", " ", 1)
}

// ParseBytes converts a human size string back to a byte count. Both IEC
// ("1 GiB") and SI ("1 GB") units are accepted.
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}
