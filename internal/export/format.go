package export

import (
	"strconv"
	"time"
)

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatIntPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
