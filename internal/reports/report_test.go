package reports

import (
	"testing"
	"time"

	"github.com/lojf/kidsdesk/internal/models"
	"github.com/lojf/kidsdesk/internal/rooms"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation(models.DateTimeLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func visit(name, in, room string) models.Checkin {
	return models.Checkin{ChildName: name, CheckinAt: at(in), Room: room}
}

func TestFrequency_CountsDistinctDates(t *testing.T) {
	children := []models.Child{
		{Name: "Ana", Age: "4", IsVisitor: models.No},
		{Name: "Beto", Age: "12", IsVisitor: models.Yes},
		{Name: "Caio", Age: "x"},
	}
	events := []models.Checkin{
		visit("Ana", "2024-03-03 09:00:00", "Preschool 2"),
		visit("Ana", "2024-03-03 11:00:00", "Preschool 2"),
		visit("ana", "2024-03-10 09:00:00", "Preschool 3"),
		visit("Beto", "2024-03-10 09:05:00", "Juniors"),
	}

	rows := Frequency(children, events)
	want := []FrequencyRow{
		{Name: "Ana", Count: 2, Status: "Member", Room: "Preschool 3"},
		{Name: "Beto", Count: 1, Status: "Visitor", Room: "Juniors"},
		{Name: "Caio", Count: 0, Status: "Member", Room: string(rooms.Unassigned)},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows: %+v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: want %+v, got %+v", i, want[i], rows[i])
		}
	}

	m, v, total := FrequencyTotals(rows)
	if m != 2 || v != 1 || total != 3 {
		t.Errorf("totals: members=%d visitors=%d attendance=%d", m, v, total)
	}
}

func TestFrequency_SameCountSortsByName(t *testing.T) {
	children := []models.Child{{Name: "Zeca", Age: "5"}, {Name: "Bia", Age: "5"}}
	rows := Frequency(children, nil)
	if rows[0].Name != "Bia" || rows[0].Room != string(rooms.Preschool2) {
		t.Errorf("got %+v", rows)
	}
}

func TestDailyTotal(t *testing.T) {
	events := []models.Checkin{
		visit("Ana", "2024-03-10 09:00:00", "Preschool 2"),
		visit("Ana", "2024-03-10 11:00:00", "Preschool 2"),
		visit("Beto", "2024-03-10 09:05:00", "Juniors"),
		visit("Caio", "2024-03-03 09:05:00", "Juniors"),
	}
	if got := DailyTotal(events, "2024-03-10"); got != 2 {
		t.Errorf("want 2, got %d", got)
	}
	if got := DailyTotal(events, "2024-01-01"); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
}

func TestVisitors(t *testing.T) {
	rep := Visitors([]models.Child{
		{Name: "Ana", IsVisitor: models.No},
		{Name: "Beto", IsVisitor: models.Yes},
	})
	if len(rep.Visitors) != 1 || rep.Visitors[0].Name != "Beto" || rep.Members != 1 {
		t.Errorf("got %+v", rep)
	}
}

func TestBirthdays(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	children := []models.Child{
		{Name: "Ana", BirthDate: "15/03/2015"},
		{Name: "Beto", BirthDate: "2016-03-02"},
		{Name: "Caio", BirthDate: "15/04/2015"},
		{Name: "Dani", BirthDate: "sometime"},
		{Name: "Eva"},
	}
	got := Birthdays(children, time.March, today)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Name != "Beto" || got[0].Day != 2 || got[0].Age != 8 {
		t.Errorf("first: %+v", got[0])
	}
	if got[1].Name != "Ana" || got[1].Day != 15 || got[1].Age != 8 {
		t.Errorf("second: %+v", got[1])
	}
}

func TestAgeGroups(t *testing.T) {
	got := AgeGroups([]models.Child{
		{Age: "1"}, {Age: "3"}, {Age: "4"}, {Age: "5"}, {Age: "11"}, {Age: "?"},
	})
	want := map[rooms.Room]int{
		rooms.Nursery: 1, rooms.Preschool1: 1, rooms.Preschool2: 2,
		rooms.Preschool3: 0, rooms.Preschool4: 0, rooms.Juniors: 1, rooms.Unassigned: 1,
	}
	if len(got) != 7 {
		t.Fatalf("want 7 buckets, got %d", len(got))
	}
	for _, rc := range got {
		if rc.Count != want[rc.Room] {
			t.Errorf("%s: want %d, got %d", rc.Room, want[rc.Room], rc.Count)
		}
	}
}

func TestHealth_Partitions(t *testing.T) {
	rep := Health([]models.Child{
		{Name: "A", Allergy: "Peanuts", ChronicIllness: "No"},
		{Name: "B", Allergy: "No", ChronicIllness: "Asthma"},
		{Name: "C", Allergy: "Milk", ChronicIllness: "Asthma"},
		{Name: "D", Allergy: "", ChronicIllness: "No"},
	})
	if rep.AllergyOnly != 1 || rep.IllnessOnly != 1 || rep.Both != 1 || len(rep.Rows) != 3 {
		t.Errorf("got %+v", rep)
	}
	if rep.Rows[0].ChronicIllness != "No" || rep.Rows[1].Allergy != "No" {
		t.Errorf("rows: %+v", rep.Rows)
	}
}

func TestContact_Partitions(t *testing.T) {
	rep := Contact([]models.Child{
		{Name: "A", WantsPrayerVisit: models.Yes, WantsMonitorChat: models.ChatNo},
		{Name: "B", WantsPrayerVisit: models.No, WantsMonitorChat: models.ChatOnline},
		{Name: "C", WantsPrayerVisit: models.Yes, WantsMonitorChat: models.ChatInPerson, Father: "João"},
		{Name: "D", WantsPrayerVisit: models.No, WantsMonitorChat: models.ChatNo},
	})
	if rep.VisitOnly != 1 || rep.ChatOnly != 1 || rep.Both != 1 || rep.Neither != 1 {
		t.Errorf("got %+v", rep)
	}
	if len(rep.Rows) != 3 || rep.Rows[2].Guardian != "João" {
		t.Errorf("rows: %+v", rep.Rows)
	}
}

func TestRegistered_MembersOnly(t *testing.T) {
	rep := Registered([]models.Child{
		{Name: "Zeca", Age: "8", Mother: "Rita"},
		{Name: "Beto", Age: "12", IsVisitor: models.Yes},
		{Name: "Ana", Age: "4"},
	})
	if len(rep.Rows) != 2 || rep.Rows[0].Name != "Ana" || rep.Rows[1].Guardian != "Rita" {
		t.Errorf("rows: %+v", rep.Rows)
	}
	if rep.Rows[1].Room != string(rooms.Preschool4) {
		t.Errorf("room: %q", rep.Rows[1].Room)
	}
	total := 0
	for _, rc := range rep.ByRoom {
		total += rc.Count
	}
	if total != 2 {
		t.Errorf("room counts add up to %d", total)
	}
}
