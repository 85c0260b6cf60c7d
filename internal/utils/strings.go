package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSV splits a comma-separated string and returns trimmed non-empty
// values. Returns nil for empty/whitespace-only input.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// GroupThousands formats an integer with comma separators, so qubit
// counts in the hundreds of thousands stay readable in rendered reports.
func GroupThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	s := ""
	for n >= 1000 {
		s = fmt.Sprintf(",%03d", n%1000) + s
		n /= 1000
	}
	s = strconv.FormatInt(n, 10) + s

	if negative {
		return "-" + s
	}
	return s
}
