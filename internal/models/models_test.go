package models

import (
	"reflect"
	"testing"
	"time"
)

func TestParseYesNo(t *testing.T) {
	cases := []struct {
		in   string
		want YesNo
		ok   bool
	}{
		{"Yes", Yes, true},
		{"sim", Yes, true},
		{" S ", Yes, true},
		{"Não", No, true},
		{"nao", No, true},
		{"", No, true},
		{"maybe", "maybe", false},
	}
	for _, c := range cases {
		got, ok := ParseYesNo(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseYesNo(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseChatPreference(t *testing.T) {
	for in, want := range map[string]ChatPreference{
		"Sim, presencial": ChatInPerson,
		"Sim, online":     ChatOnline,
		"Não":             ChatNo,
		"Yes, in person":  ChatInPerson,
	} {
		if got, ok := ParseChatPreference(in); !ok || got != want {
			t.Errorf("%q: got %q %v", in, got, ok)
		}
	}
}

func TestParseDate_FormatOrder(t *testing.T) {
	cases := map[string]time.Time{
		"15/03/2015": time.Date(2015, 3, 15, 0, 0, 0, 0, time.UTC),
		"2015-03-15": time.Date(2015, 3, 15, 0, 0, 0, 0, time.UTC),
		"15-03-2015": time.Date(2015, 3, 15, 0, 0, 0, 0, time.UTC),
		"03/25/2015": time.Date(2015, 3, 25, 0, 0, 0, 0, time.UTC), // day-first fails, month-first wins
		"04/05/2015": time.Date(2015, 5, 4, 0, 0, 0, 0, time.UTC),  // ambiguous: day first
		"15.03.2015": time.Date(2015, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		if !ok || !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseDate("March 15"); ok {
		t.Error("free text parsed as a date")
	}
}

func TestChildRow_RoundTrip(t *testing.T) {
	header := append(append([]string(nil), ChildColumns...), "nickname")
	c := Child{
		Name:             "Ana",
		Age:              "4",
		BirthDate:        "15/03/2020",
		Phone:            "+5511987654321",
		IsMember:         Yes,
		IsBaptized:       No,
		ChronicIllness:   "No",
		Allergy:          "Peanuts, milk",
		WantsMonitorChat: ChatOnline,
		WantsPrayerVisit: No,
		AllowsPhotos:     Yes,
		IsVisitor:        No,
		RegistrationDate: "2024-03-10",
		Extra:            map[string]string{"nickname": "Aninha"},
	}
	got := ChildFromRow(header, c.Row(header))
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip:\nwant %+v\ngot  %+v", c, got)
	}
}

func TestChildFromRow_Legacy(t *testing.T) {
	header := []string{"name", "age", "is_member", "wants_monitor_chat", "allergy", "registration_date"}
	c := ChildFromRow(header, []string{" Beto ", "12", "Sim", "Sim, presencial", "Não", "10/03/2024"})
	if c.Name != "Beto" || c.IsMember != Yes || c.WantsMonitorChat != ChatInPerson {
		t.Errorf("got %+v", c)
	}
	if c.Allergy != "No" || c.HasAllergy() {
		t.Errorf("allergy: %q", c.Allergy)
	}
	if c.RegistrationDate != "2024-03-10" {
		t.Errorf("registration date: %q", c.RegistrationDate)
	}
	// absent flag columns read as No
	if c.IsVisitor != No {
		t.Errorf("missing column should default to No, got %q", c.IsVisitor)
	}
}

func TestChildAccessors(t *testing.T) {
	c := Child{Age: " 7 ", Father: "João", OtherGuardian: "Tia Rosa", ChronicIllness: "Asthma"}
	if n, ok := c.AgeYears(); !ok || n != 7 {
		t.Errorf("AgeYears: %d %v", n, ok)
	}
	if g := c.Guardian(); g != "João" {
		t.Errorf("Guardian: %q", g)
	}
	if !c.HasChronicIllness() || c.HasAllergy() || c.WantsChat() {
		t.Errorf("flags: %+v", c)
	}
	if _, ok := (Child{Age: "-1"}).AgeYears(); ok {
		t.Error("negative age accepted")
	}
}

func TestCheckinRow(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	row := []string{"Ana", "2024-03-10 09:00:00", "", "Preschool 2"}
	e := CheckinFromRow(row, loc)
	if !e.Open() || e.Day() != "2024-03-10" || e.CheckinAt.Location() != loc {
		t.Errorf("parsed %+v", e)
	}
	if got := e.Row(loc); !reflect.DeepEqual(got, row) {
		t.Errorf("Row: %v", got)
	}

	// unreadable cells survive a rewrite and a garbled checkout still counts as closed
	bad := []string{"Beto", "ontem", "tarde", "Juniors"}
	e = CheckinFromRow(bad, loc)
	if e.Open() || e.Day() != "" {
		t.Errorf("garbled: %+v", e)
	}
	if got := e.Row(loc); !reflect.DeepEqual(got, bad) {
		t.Errorf("Row: %v", got)
	}
}

func TestCheckinRow_KeepsExtraColumns(t *testing.T) {
	row := []string{"Ana", "2024-03-10 09:00:00", "", "Preschool 2", "door B", "Rita"}
	e := CheckinFromRow(row, time.UTC)
	out := time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)
	e.CheckoutAt = &out

	want := []string{"Ana", "2024-03-10 09:00:00", "2024-03-10 11:00:00", "Preschool 2", "door B", "Rita"}
	if got := e.Row(time.UTC); !reflect.DeepEqual(got, want) {
		t.Errorf("Row: %v", got)
	}
}
