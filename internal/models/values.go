package models

import (
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// ParseYesNo accepts English and Portuguese spellings. Empty means No.
func ParseYesNo(s string) (YesNo, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "sim", "s", "true", "1":
		return Yes, true
	case "", "no", "n", "não", "nao", "false", "0":
		return No, true
	}
	return YesNo(s), false
}

func (v YesNo) Bool() bool { return v == Yes }

func YesNoOf(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

// ChatPreference is whether the family asked for a talk with a monitor.
type ChatPreference string

const (
	ChatNo       ChatPreference = "No"
	ChatInPerson ChatPreference = "Yes, in person"
	ChatOnline   ChatPreference = "Yes, online"
)

func ParseChatPreference(s string) (ChatPreference, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "não", "nao":
		return ChatNo, true
	case "yes, in person", "in person", "in-person", "sim, presencial", "presencial":
		return ChatInPerson, true
	case "yes, online", "online", "sim, online":
		return ChatOnline, true
	}
	return ChatPreference(s), false
}

// birth dates arrive in whatever shape the person typing chose; first match wins
var dateFormats = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02.01.2006",
}

// ParseDate tries the accepted date formats in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
