package models

import (
	"strconv"
	"strings"
	"time"
)

// Child is one registered child or visitor. Storage fields stay as text so a
// rewrite never loses what was on disk; typed accessors interpret them.
type Child struct {
	ID uint `gorm:"primaryKey" json:"-"` // mirror only

	Name             string         `gorm:"index" json:"name" validate:"required,max=120"`
	Age              string         `json:"age" validate:"required,number"`
	BirthDate        string         `json:"birth_date" validate:"omitempty,anydate"`
	Father           string         `json:"father"`
	Mother           string         `json:"mother"`
	OtherGuardian    string         `json:"other_guardian"`
	Address          string         `json:"address"`
	Neighborhood     string         `json:"neighborhood"`
	City             string         `json:"city"`
	Phone            string         `json:"phone"`
	IsMember         YesNo          `json:"is_member" validate:"yesno"`
	IsBaptized       YesNo          `json:"is_baptized" validate:"yesno"`
	ChronicIllness   string         `json:"chronic_illness"`
	Allergy          string         `json:"allergy"`
	WantsMonitorChat ChatPreference `json:"wants_monitor_chat" validate:"chatpref"`
	WantsPrayerVisit YesNo          `json:"wants_prayer_visit" validate:"yesno"`
	AllowsPhotos     YesNo          `json:"allows_photos" validate:"yesno"`
	Notes            string         `json:"notes"`
	IsVisitor        YesNo          `json:"is_visitor" validate:"yesno"`
	RegistrationDate string         `json:"registration_date" validate:"omitempty,datetime=2006-01-02"`

	// Columns found on disk that the schema does not know about.
	Extra map[string]string `gorm:"-" json:"extra,omitempty"`
}

// AgeYears returns the age as an integer, false when the stored text is not one.
func (c Child) AgeYears() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(c.Age))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (c Child) HasAllergy() bool        { return restriction(c.Allergy) }
func (c Child) HasChronicIllness() bool { return restriction(c.ChronicIllness) }

// WantsChat reports whether any monitor conversation was requested.
func (c Child) WantsChat() bool {
	return c.WantsMonitorChat == ChatInPerson || c.WantsMonitorChat == ChatOnline
}

func (c Child) Visitor() bool { return c.IsVisitor == Yes }

// Guardian picks the first filled responsible adult: mother, father, then other.
func (c Child) Guardian() string {
	for _, g := range []string{c.Mother, c.Father, c.OtherGuardian} {
		if s := strings.TrimSpace(g); s != "" {
			return s
		}
	}
	return ""
}

// Normalize rewrites legacy vocabulary (Sim/Não, "Sim, presencial") into the
// canonical values. Unrecognised values are left for validation to reject.
func (c *Child) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Age = strings.TrimSpace(c.Age)
	for _, f := range []*YesNo{&c.IsMember, &c.IsBaptized, &c.WantsPrayerVisit, &c.AllowsPhotos, &c.IsVisitor} {
		if v, ok := ParseYesNo(string(*f)); ok {
			*f = v
		}
	}
	if v, ok := ParseChatPreference(string(c.WantsMonitorChat)); ok {
		c.WantsMonitorChat = v
	}
	c.ChronicIllness = normRestriction(c.ChronicIllness)
	c.Allergy = normRestriction(c.Allergy)
	if c.RegistrationDate != "" {
		if d, ok := ParseDate(c.RegistrationDate); ok {
			c.RegistrationDate = d.Format(DateLayout)
		}
	}
}

func restriction(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	v, ok := ParseYesNo(s)
	return !ok || v == Yes
}

func normRestriction(s string) string {
	s = strings.TrimSpace(s)
	if v, ok := ParseYesNo(s); ok && v == No {
		return string(No)
	}
	return s
}

// Checkin is one room visit. CheckoutAt is nil while the child is still in the room.
type Checkin struct {
	ID uint `gorm:"primaryKey" json:"-"` // mirror only

	ChildName  string     `gorm:"index" json:"name"`
	CheckinAt  time.Time  `json:"checkin_time"`
	CheckoutAt *time.Time `json:"checkout_time,omitempty"`
	Room       string     `gorm:"index" json:"room"`

	// original text of time cells that did not parse, written back unchanged
	rawIn, rawOut string
	// cells of columns after the schema ones
	extra []string
}

func (e Checkin) Open() bool { return e.CheckoutAt == nil && e.rawOut == "" }

// Day is the calendar date of the check-in, or "" when the time is unreadable.
func (e Checkin) Day() string {
	if e.CheckinAt.IsZero() {
		return ""
	}
	return e.CheckinAt.Format(DateLayout)
}
