// Package reports turns the registry and the check-in ledger into attendance
// and demographic summaries, and keeps dated snapshots of them on disk.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/lojf/kidsdesk/internal/models"
	"github.com/lojf/kidsdesk/internal/rooms"
)

type RoomCount struct {
	Room  rooms.Room `json:"room"`
	Count int        `json:"count"`
}

// roomOrder is the six rooms followed by Unassigned.
func roomOrder() []rooms.Room {
	return append(rooms.All(), rooms.Unassigned)
}

func roomOf(c models.Child) rooms.Room {
	r, _ := rooms.ForAge(c.Age)
	return r
}

func countRooms(list []models.Child) []RoomCount {
	n := make(map[rooms.Room]int)
	for _, c := range list {
		n[roomOf(c)]++
	}
	out := make([]RoomCount, 0, 7)
	for _, r := range roomOrder() {
		out = append(out, RoomCount{Room: r, Count: n[r]})
	}
	return out
}

func nameKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// DailyTotal counts the distinct children with a check-in on day (YYYY-MM-DD).
func DailyTotal(events []models.Checkin, day string) int {
	seen := make(map[string]bool)
	for _, e := range events {
		if e.Day() == day {
			seen[nameKey(e.ChildName)] = true
		}
	}
	return len(seen)
}

// AgeGroups counts children per room. Ages that are not whole numbers are
// counted as Unassigned.
func AgeGroups(children []models.Child) []RoomCount {
	return countRooms(children)
}

type FrequencyRow struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Status string `json:"status"`
	Room   string `json:"room"`
}

func status(c models.Child) string {
	if c.Visitor() {
		return "Visitor"
	}
	return "Member"
}

// Frequency counts, for every registered child, the distinct dates with a
// check-in. The room is the one of the latest check-in, or the age room for a
// child never checked in. Rows are sorted by count, highest first, then name.
func Frequency(children []models.Child, events []models.Checkin) []FrequencyRow {
	dates := make(map[string]map[string]bool)
	lastRoom := make(map[string]string)
	for _, e := range events {
		k := nameKey(e.ChildName)
		if e.Room != "" {
			lastRoom[k] = e.Room
		}
		d := e.Day()
		if d == "" {
			continue
		}
		if dates[k] == nil {
			dates[k] = make(map[string]bool)
		}
		dates[k][d] = true
	}

	out := make([]FrequencyRow, 0, len(children))
	for _, c := range children {
		k := nameKey(c.Name)
		room := lastRoom[k]
		if room == "" {
			room = string(roomOf(c))
		}
		out = append(out, FrequencyRow{
			Name:   c.Name,
			Count:  len(dates[k]),
			Status: status(c),
			Room:   room,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FrequencyTotals sums a frequency table into members, visitors and
// attendances.
func FrequencyTotals(rows []FrequencyRow) (members, visitors, attendance int) {
	for _, r := range rows {
		if r.Status == "Visitor" {
			visitors++
		} else {
			members++
		}
		attendance += r.Count
	}
	return members, visitors, attendance
}

type VisitorsReport struct {
	Visitors []models.Child `json:"visitors"`
	Members  int            `json:"members"`
}

// Visitors splits the registry into visitors and members.
func Visitors(children []models.Child) VisitorsReport {
	rep := VisitorsReport{Visitors: make([]models.Child, 0)}
	for _, c := range children {
		if c.Visitor() {
			rep.Visitors = append(rep.Visitors, c)
		} else {
			rep.Members++
		}
	}
	return rep
}

type BirthdayRow struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Age       int    `json:"age"`
	Day       int    `json:"day"`
}

// Birthdays lists children born in month, sorted by day. Birth dates that
// cannot be read are skipped. Age is as of today.
func Birthdays(children []models.Child, month time.Month, today time.Time) []BirthdayRow {
	out := make([]BirthdayRow, 0)
	for _, c := range children {
		b, ok := models.ParseDate(c.BirthDate)
		if !ok || b.Month() != month {
			continue
		}
		out = append(out, BirthdayRow{
			Name:      c.Name,
			BirthDate: c.BirthDate,
			Age:       yearsBetween(b, today),
			Day:       b.Day(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func yearsBetween(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

type HealthRow struct {
	Name           string `json:"name"`
	Age            string `json:"age"`
	Allergy        string `json:"allergy"`
	ChronicIllness string `json:"chronic_illness"`
}

type HealthReport struct {
	Rows        []HealthRow `json:"rows"`
	AllergyOnly int         `json:"allergy_only"`
	IllnessOnly int         `json:"illness_only"`
	Both        int         `json:"both"`
}

// Health lists children with an allergy or a chronic illness.
func Health(children []models.Child) HealthReport {
	rep := HealthReport{Rows: make([]HealthRow, 0)}
	for _, c := range children {
		a, i := c.HasAllergy(), c.HasChronicIllness()
		switch {
		case a && i:
			rep.Both++
		case a:
			rep.AllergyOnly++
		case i:
			rep.IllnessOnly++
		default:
			continue
		}
		row := HealthRow{Name: c.Name, Age: c.Age, Allergy: string(models.No), ChronicIllness: string(models.No)}
		if a {
			row.Allergy = c.Allergy
		}
		if i {
			row.ChronicIllness = c.ChronicIllness
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

type ContactRow struct {
	Name     string                `json:"name"`
	Age      string                `json:"age"`
	Guardian string                `json:"guardian"`
	Phone    string                `json:"phone"`
	Visit    models.YesNo          `json:"visit"`
	Chat     models.ChatPreference `json:"chat"`
}

type ContactReport struct {
	Rows      []ContactRow `json:"rows"`
	VisitOnly int          `json:"visit_only"`
	ChatOnly  int          `json:"chat_only"`
	Both      int          `json:"both"`
	Neither   int          `json:"neither"`
}

// Contact partitions families by the follow-up they asked for: a prayer
// visit, a talk with a monitor, both, or neither. Rows list everyone who asked
// for something.
func Contact(children []models.Child) ContactReport {
	rep := ContactReport{Rows: make([]ContactRow, 0)}
	for _, c := range children {
		v, t := c.WantsPrayerVisit.Bool(), c.WantsChat()
		switch {
		case v && t:
			rep.Both++
		case v:
			rep.VisitOnly++
		case t:
			rep.ChatOnly++
		default:
			rep.Neither++
			continue
		}
		rep.Rows = append(rep.Rows, ContactRow{
			Name:     c.Name,
			Age:      c.Age,
			Guardian: c.Guardian(),
			Phone:    c.Phone,
			Visit:    models.YesNoOf(v),
			Chat:     c.WantsMonitorChat,
		})
	}
	return rep
}

type RegisteredRow struct {
	Name             string `json:"name"`
	Age              string `json:"age"`
	BirthDate        string `json:"birth_date"`
	Guardian         string `json:"guardian"`
	Phone            string `json:"phone"`
	Room             string `json:"room"`
	RegistrationDate string `json:"registration_date"`
	Notes            string `json:"notes"`
}

type RegisteredReport struct {
	Rows   []RegisteredRow `json:"rows"`
	ByRoom []RoomCount     `json:"by_room"`
}

// Registered lists members, visitors excluded, sorted by name, with a count
// per room.
func Registered(children []models.Child) RegisteredReport {
	members := make([]models.Child, 0, len(children))
	for _, c := range children {
		if !c.Visitor() {
			members = append(members, c)
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	rep := RegisteredReport{Rows: make([]RegisteredRow, 0, len(members)), ByRoom: countRooms(members)}
	for _, c := range members {
		rep.Rows = append(rep.Rows, RegisteredRow{
			Name:             c.Name,
			Age:              c.Age,
			BirthDate:        c.BirthDate,
			Guardian:         c.Guardian(),
			Phone:            c.Phone,
			Room:             string(roomOf(c)),
			RegistrationDate: c.RegistrationDate,
			Notes:            c.Notes,
		})
	}
	return rep
}
