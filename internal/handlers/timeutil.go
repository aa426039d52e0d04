package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/lojf/kidsdesk/internal/models"
)

// fmtTime renders t as stored in the ledger, or "" for a zero time.
func fmtTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(models.DateTimeLayout)
}

// parseMonth reads a 1-12 month; empty means the current month (0).
func parseMonth(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
