package store

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/models"
	"github.com/lojf/kidsdesk/internal/services"
)

func (s *Store) loadChildren(op string) ([]models.Child, error) {
	rows, err := s.children.ReadAll()
	if err != nil {
		return nil, ioErr(op, "", err)
	}
	header := s.children.Header()
	out := make([]models.Child, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ChildFromRow(header, r))
	}
	return out, nil
}

func (s *Store) saveChildren(op, name string, list []models.Child) error {
	header := s.children.Header()
	rows := make([][]string, len(list))
	for i, c := range list {
		rows[i] = c.Row(header)
	}
	if err := s.children.WriteAll(rows); err != nil {
		return ioErr(op, name, err)
	}
	return nil
}

// matches returns the indexes of every child whose name equals name, ignoring
// case and surrounding spaces.
func matches(list []models.Child, name string) []int {
	var idx []int
	for i, c := range list {
		if sameName(c.Name, name) {
			idx = append(idx, i)
		}
	}
	return idx
}

// List returns every child in file order.
func (s *Store) List() ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadChildren("list")
}

// Search returns children whose name contains q, ignoring case.
func (s *Store) Search(q string) ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadChildren("search")
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Child, 0)
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByPhone returns children whose contact number is the same line as phone.
func (s *Store) FindByPhone(phone string) ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadChildren("find by phone")
	if err != nil {
		return nil, err
	}
	out := make([]models.Child, 0)
	for _, c := range list {
		if services.SamePhone(c.Phone, phone, s.country) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get looks a child up by name. If old data holds duplicates the first one
// in file order wins.
func (s *Store) Get(name string) (models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked("get", name)
}

func (s *Store) getLocked(op, name string) (models.Child, error) {
	list, err := s.loadChildren(op)
	if err != nil {
		return models.Child{}, err
	}
	idx := matches(list, name)
	if len(idx) == 0 {
		return models.Child{}, &Error{Kind: KindNotFound, Op: op, Name: name}
	}
	if len(idx) > 1 {
		s.log.Warn("duplicate child names, using first in file order",
			zap.String("name", name), zap.Int("count", len(idx)))
	}
	return list[idx[0]], nil
}

// prepare normalizes c and validates it for writing.
func (s *Store) prepare(op string, c *models.Child) error {
	c.Normalize()
	var extra []FieldError
	if c.Phone != "" {
		if n := services.NormPhone(c.Phone, s.country); n != "" {
			c.Phone = n
		} else {
			extra = append(extra, FieldError{Field: "phone", Message: fieldTexts["phone"]})
		}
	}
	return s.check(op, *c, extra...)
}

// Add registers a child. Names are unique regardless of case.
func (s *Store) Add(c models.Child) (models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked("add", c)
}

// AddVisitor registers a visiting child. Visitors are never members.
func (s *Store) AddVisitor(c models.Child) (models.Child, error) {
	c.IsVisitor = models.Yes
	c.IsMember = models.No
	if strings.TrimSpace(c.Notes) == "" {
		c.Notes = "Visitor"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked("add visitor", c)
}

func (s *Store) addLocked(op string, c models.Child) (models.Child, error) {
	if c.RegistrationDate == "" {
		c.RegistrationDate = s.Now().Format(models.DateLayout)
	}
	if err := s.prepare(op, &c); err != nil {
		return models.Child{}, err
	}
	list, err := s.loadChildren(op)
	if err != nil {
		return models.Child{}, err
	}
	if len(matches(list, c.Name)) > 0 {
		return models.Child{}, &Error{Kind: KindConflict, Op: op, Name: c.Name}
	}
	if err := s.children.Append(c.Row(s.children.Header())); err != nil {
		return models.Child{}, ioErr(op, c.Name, err)
	}
	s.log.Info("child registered", zap.String("name", c.Name), zap.Bool("visitor", c.Visitor()))
	return c, nil
}

// Update replaces the record named oldName with c. A change of name is
// carried into the check-in ledger.
func (s *Store) Update(oldName string, c models.Child) (models.Child, error) {
	const op = "update"
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadChildren(op)
	if err != nil {
		return models.Child{}, err
	}
	idx := matches(list, oldName)
	switch {
	case len(idx) == 0:
		return models.Child{}, &Error{Kind: KindNotFound, Op: op, Name: oldName}
	case len(idx) > 1:
		return models.Child{}, &Error{Kind: KindAmbiguous, Op: op, Name: oldName}
	}
	old := list[idx[0]]

	if c.RegistrationDate == "" {
		c.RegistrationDate = old.RegistrationDate
	}
	if c.Extra == nil {
		c.Extra = old.Extra
	}
	if err := s.prepare(op, &c); err != nil {
		return models.Child{}, err
	}
	for i, other := range list {
		if i != idx[0] && sameName(other.Name, c.Name) {
			return models.Child{}, &Error{Kind: KindConflict, Op: op, Name: c.Name}
		}
	}

	list[idx[0]] = c
	if err := s.saveChildren(op, oldName, list); err != nil {
		return models.Child{}, err
	}
	if old.Name != c.Name {
		if _, err := s.renameCheckinsLocked(old.Name, c.Name); err != nil {
			s.log.Error("child renamed but check-ins kept the old name",
				zap.String("old", old.Name), zap.String("new", c.Name), zap.Error(err))
			return c, err
		}
	}
	return c, nil
}

// Delete removes the child with exactly this name (ignoring case) and all of
// their check-ins.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked("delete", name)
}

func (s *Store) deleteLocked(op, name string) error {
	list, err := s.loadChildren(op)
	if err != nil {
		return err
	}
	idx := matches(list, name)
	switch {
	case len(idx) == 0:
		return &Error{Kind: KindNotFound, Op: op, Name: name}
	case len(idx) > 1:
		return &Error{Kind: KindAmbiguous, Op: op, Name: name}
	}
	removed := list[idx[0]]
	list = append(list[:idx[0]], list[idx[0]+1:]...)
	if err := s.saveChildren(op, name, list); err != nil {
		return err
	}
	n, err := s.deleteCheckinsLocked(removed.Name)
	if err != nil {
		return err
	}
	s.log.Info("child deleted", zap.String("name", removed.Name), zap.Int("checkins_removed", n))
	return nil
}

// FuzzyMatches returns children whose name contains q or is contained in q.
// It is the candidate list a person confirms before DeleteFuzzy.
func (s *Store) FuzzyMatches(q string) ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fuzzyLocked("fuzzy match", q)
}

func (s *Store) fuzzyLocked(op, q string) ([]models.Child, error) {
	list, err := s.loadChildren(op)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Child, 0)
	if q == "" {
		return out, nil
	}
	for _, c := range list {
		n := strings.ToLower(strings.TrimSpace(c.Name))
		if n == "" {
			continue
		}
		if strings.Contains(n, q) || strings.Contains(q, n) {
			out = append(out, c)
		}
	}
	return out, nil
}

// DeleteFuzzy deletes the child named confirmed, but only when that child is
// one of the FuzzyMatches for q.
func (s *Store) DeleteFuzzy(q, confirmed string) error {
	const op = "fuzzy delete"
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates, err := s.fuzzyLocked(op, q)
	if err != nil {
		return err
	}
	if len(matches(candidates, confirmed)) == 0 {
		return &Error{Kind: KindNotFound, Op: op, Name: confirmed}
	}
	return s.deleteLocked(op, confirmed)
}
