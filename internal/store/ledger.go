package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/models"
	"github.com/lojf/kidsdesk/internal/rooms"
)

// Present is a child currently in a room.
type Present struct {
	Child models.Child `json:"child"`
	Room  string       `json:"room"`
	Since time.Time    `json:"since"`
}

func (s *Store) loadEvents(op string) ([]models.Checkin, error) {
	rows, err := s.checkins.ReadAll()
	if err != nil {
		return nil, ioErr(op, "", err)
	}
	out := make([]models.Checkin, 0, len(rows))
	for _, r := range rows {
		e := models.CheckinFromRow(r, s.loc)
		e.Room = rooms.Normalize(e.Room)
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) saveEvents(op, name string, events []models.Checkin) error {
	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = e.Row(s.loc)
	}
	if err := s.checkins.WriteAll(rows); err != nil {
		return ioErr(op, name, err)
	}
	return nil
}

// openFor returns indexes of open events for name, oldest first.
func openFor(events []models.Checkin, name string) []int {
	var idx []int
	for i, e := range events {
		if e.Open() && sameName(e.ChildName, name) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Events returns the whole ledger in file order.
func (s *Store) Events() ([]models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadEvents("events")
}

// History returns every check-in of one child, oldest first.
func (s *Store) History(name string) ([]models.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadEvents("history")
	if err != nil {
		return nil, err
	}
	out := make([]models.Checkin, 0)
	for _, e := range events {
		if sameName(e.ChildName, name) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) IsCheckedIn(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadEvents("is checked in")
	if err != nil {
		return false, err
	}
	return len(openFor(events, name)) > 0, nil
}

// CheckIn opens a room visit for a registered child. The room comes from the
// child's age. A child can only have one open visit.
func (s *Store) CheckIn(name string) (models.Checkin, error) {
	const op = "check in"
	s.mu.Lock()
	defer s.mu.Unlock()

	child, err := s.getLocked(op, name)
	if err != nil {
		return models.Checkin{}, err
	}
	events, err := s.loadEvents(op)
	if err != nil {
		return models.Checkin{}, err
	}
	if len(openFor(events, child.Name)) > 0 {
		return models.Checkin{}, &Error{Kind: KindConflict, Op: op, Name: child.Name}
	}

	room, ok := rooms.ForAge(child.Age)
	if !ok {
		s.log.Warn("age is not a whole number, room left unassigned",
			zap.String("name", child.Name), zap.String("age", child.Age))
	}
	e := models.Checkin{
		ChildName: child.Name,
		CheckinAt: s.Now().Truncate(time.Second),
		Room:      string(room),
	}
	if err := s.checkins.Append(e.Row(s.loc)); err != nil {
		return models.Checkin{}, ioErr(op, child.Name, err)
	}
	s.log.Info("checked in", zap.String("name", child.Name), zap.String("room", e.Room))
	return e, nil
}

// CheckOut closes the open visit for name. Should old data hold several open
// visits, the most recently appended one is closed.
func (s *Store) CheckOut(name string) (models.Checkin, error) {
	const op = "check out"
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadEvents(op)
	if err != nil {
		return models.Checkin{}, err
	}
	idx := openFor(events, name)
	if len(idx) == 0 {
		return models.Checkin{}, &Error{Kind: KindNotFound, Op: op, Name: name}
	}
	if len(idx) > 1 {
		s.log.Warn("several open check-ins, closing the most recent",
			zap.String("name", name), zap.Int("open", len(idx)))
	}
	last := idx[len(idx)-1]
	now := s.Now().Truncate(time.Second)
	events[last].CheckoutAt = &now
	if err := s.saveEvents(op, name, events); err != nil {
		return models.Checkin{}, err
	}
	s.log.Info("checked out", zap.String("name", events[last].ChildName), zap.String("room", events[last].Room))
	return events[last], nil
}

// CheckedIn joins open visits with the registry. Visits of children no
// longer registered are skipped.
func (s *Store) CheckedIn() ([]Present, error) {
	const op = "checked in"
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadEvents(op)
	if err != nil {
		return nil, err
	}
	list, err := s.loadChildren(op)
	if err != nil {
		return nil, err
	}

	// latest open visit per child, in order of first appearance
	latest := make(map[int]models.Checkin)
	var order []int
	for _, e := range events {
		if !e.Open() {
			continue
		}
		idx := matches(list, e.ChildName)
		if len(idx) == 0 {
			s.log.Warn("open check-in for unknown child", zap.String("name", e.ChildName))
			continue
		}
		ci := idx[0]
		if _, seen := latest[ci]; seen {
			s.log.Warn("several open check-ins", zap.String("name", e.ChildName))
		} else {
			order = append(order, ci)
		}
		latest[ci] = e
	}

	out := make([]Present, 0, len(order))
	for _, ci := range order {
		e := latest[ci]
		out = append(out, Present{Child: list[ci], Room: e.Room, Since: e.CheckinAt})
	}
	return out, nil
}

// RenameCheckins moves every event of oldName to newName.
func (s *Store) RenameCheckins(oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renameCheckinsLocked(oldName, newName)
}

func (s *Store) renameCheckinsLocked(oldName, newName string) (int, error) {
	const op = "rename checkins"
	events, err := s.loadEvents(op)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range events {
		if sameName(events[i].ChildName, oldName) {
			events[i].ChildName = newName
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.saveEvents(op, oldName, events)
}

// DeleteCheckinsFor drops every event of name.
func (s *Store) DeleteCheckinsFor(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCheckinsLocked(name)
}

func (s *Store) deleteCheckinsLocked(name string) (int, error) {
	const op = "delete checkins"
	events, err := s.loadEvents(op)
	if err != nil {
		return 0, err
	}
	kept := events[:0]
	for _, e := range events {
		if !sameName(e.ChildName, name) {
			kept = append(kept, e)
		}
	}
	n := len(events) - len(kept)
	if n == 0 {
		return 0, nil
	}
	return n, s.saveEvents(op, name, kept)
}
