package reports

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/models"
	"github.com/lojf/kidsdesk/internal/store"
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrBadParam      = errors.New("bad report parameter")
)

// Source is the read side of the record store.
type Source interface {
	List() ([]models.Child, error)
	Events() ([]models.Checkin, error)
	CheckedIn() ([]store.Present, error)
}

type kind struct {
	name    string // as used in URLs
	file    string // history file name, without .csv
	key     string // first history column
	metrics []string
}

func roomLabels() []string {
	var out []string
	for _, r := range roomOrder() {
		out = append(out, string(r))
	}
	return out
}

var catalog = []kind{
	{"total", "total_children", "Date", []string{"Total children"}},
	{"age-groups", "age_groups", "Date", roomLabels()},
	{"frequency", "frequency_summary", "Date", []string{"Members", "Visitors", "Total attendance"}},
	{"visitors", "visitors_summary", "Date", []string{"Visitors", "Members"}},
	{"birthdays", "birthdays_summary", "Month", []string{"Month name", "Total birthdays"}},
	{"health", "allergies", "Date", []string{"Allergy only", "Chronic illness only", "Both"}},
	{"contact", "visit_requests", "Date", []string{"Visit only", "Chat only", "Both", "Neither"}},
	{"registered", "registered_children_summary", "Date", roomLabels()},
}

func lookup(name string) (kind, error) {
	for _, k := range catalog {
		if k.name == name {
			return k, nil
		}
	}
	return kind{}, errors.Wrapf(ErrUnknownReport, "%q", name)
}

// Names lists the available reports in display order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, k := range catalog {
		out[i] = k.name
	}
	return out
}

// Params select what a report is computed for. Zero values mean today and
// the current month.
type Params struct {
	Date  string // YYYY-MM-DD
	Month int    // 1-12, birthdays only
	Save  bool
}

type Result struct {
	Report string   `json:"report"`
	Key    string   `json:"key"`
	Source string   `json:"source,omitempty"`
	Header []string `json:"header"`
	Values []string `json:"values"`
	Detail any      `json:"detail,omitempty"`
	Saved  bool     `json:"saved"`
}

type Service struct {
	src  Source
	hist *History
	now  func() time.Time
	log  *zap.Logger
}

func NewService(src Source, hist *History, now func() time.Time, log *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, hist: hist, now: now, log: log}
}

func (s *Service) History() *History { return s.hist }

func itoa(n ...int) []string {
	out := make([]string, len(n))
	for i, v := range n {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func roomValues(counts []RoomCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = strconv.Itoa(c.Count)
	}
	return out
}

// Run computes one report and, with p.Save, stores its summary row and any
// detail file.
func (s *Service) Run(name string, p Params) (Result, error) {
	k, err := lookup(name)
	if err != nil {
		return Result{}, err
	}
	today := s.now()
	date := p.Date
	if date == "" {
		date = today.Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return Result{}, errors.Wrapf(ErrBadParam, "date %q", date)
	}
	month := p.Month
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return Result{}, errors.Wrapf(ErrBadParam, "month %d", month)
	}

	res := Result{Report: k.name, Key: date, Header: append([]string{k.key}, k.metrics...)}
	var detail *Table
	var detailName string

	switch k.name {
	case "total":
		events, err := s.src.Events()
		if err != nil {
			return Result{}, err
		}
		res.Values = itoa(DailyTotal(events, date))

	case "age-groups":
		present, err := s.src.CheckedIn()
		if err != nil {
			return Result{}, err
		}
		children := make([]models.Child, len(present))
		for i, p := range present {
			children[i] = p.Child
		}
		res.Source = "checked_in"
		if len(children) == 0 {
			if children, err = s.src.List(); err != nil {
				return Result{}, err
			}
			res.Source = "registered"
		}
		groups := AgeGroups(children)
		res.Values = roomValues(groups)
		res.Detail = groups

	case "frequency":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		events, err := s.src.Events()
		if err != nil {
			return Result{}, err
		}
		rows := Frequency(children, events)
		res.Values = itoa(FrequencyTotals(rows))
		res.Detail = rows
		detailName = "frequency_" + date
		detail = &Table{Header: []string{"Name", "Frequency", "Status", "Room"}}
		for _, r := range rows {
			detail.Rows = append(detail.Rows, []string{r.Name, strconv.Itoa(r.Count), r.Status, r.Room})
		}

	case "visitors":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		rep := Visitors(children)
		res.Values = itoa(len(rep.Visitors), rep.Members)
		res.Detail = rep
		detailName = "visitors_" + date
		detail = &Table{Header: []string{"Name", "Age", "Guardian", "Phone", "Registration date", "Notes"}}
		for _, c := range rep.Visitors {
			detail.Rows = append(detail.Rows, []string{c.Name, c.Age, c.Guardian(), c.Phone, c.RegistrationDate, c.Notes})
		}

	case "birthdays":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		rows := Birthdays(children, time.Month(month), today)
		res.Key = strconv.Itoa(month)
		res.Values = []string{time.Month(month).String(), strconv.Itoa(len(rows))}
		res.Detail = rows
		detailName = "birthdays_" + res.Key
		detail = &Table{Header: []string{"Name", "Birth date", "Age", "Day"}}
		for _, r := range rows {
			detail.Rows = append(detail.Rows, []string{r.Name, r.BirthDate, strconv.Itoa(r.Age), strconv.Itoa(r.Day)})
		}

	case "health":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		rep := Health(children)
		res.Values = itoa(rep.AllergyOnly, rep.IllnessOnly, rep.Both)
		res.Detail = rep

	case "contact":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		rep := Contact(children)
		res.Values = itoa(rep.VisitOnly, rep.ChatOnly, rep.Both, rep.Neither)
		res.Detail = rep

	case "registered":
		children, err := s.src.List()
		if err != nil {
			return Result{}, err
		}
		rep := Registered(children)
		res.Values = roomValues(rep.ByRoom)
		res.Detail = rep
		detailName = "registered_children_" + date
		detail = &Table{Header: []string{"Name", "Age", "Birth date", "Guardian", "Phone", "Room", "Registration date", "Notes"}}
		for _, r := range rep.Rows {
			detail.Rows = append(detail.Rows, []string{r.Name, r.Age, r.BirthDate, r.Guardian, r.Phone, r.Room, r.RegistrationDate, r.Notes})
		}
	}

	if !p.Save {
		return res, nil
	}
	if err := s.hist.Upsert(k.file, res.Header, res.Key, res.Values); err != nil {
		return res, err
	}
	if detail != nil {
		if _, err := s.hist.SaveDetailed(detailName, *detail); err != nil {
			return res, err
		}
	}
	res.Saved = true
	return res, nil
}

// SaveAll stores a snapshot of every report for date. It keeps going past a
// failing report and returns the first error.
func (s *Service) SaveAll(date string) error {
	var first error
	for _, k := range catalog {
		if _, err := s.Run(k.name, Params{Date: date, Save: true}); err != nil {
			s.log.Error("report snapshot failed", zap.String("report", k.name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// HistoryTable returns the stored history of a report.
func (s *Service) HistoryTable(name string) (Table, error) {
	k, err := lookup(name)
	if err != nil {
		return Table{}, err
	}
	t, err := s.hist.Load(k.file)
	if err != nil {
		return Table{}, err
	}
	if len(t.Header) == 0 {
		t.Header = append([]string{k.key}, k.metrics...)
	}
	return t, nil
}

// ClearHistory removes every stored snapshot.
func (s *Service) ClearHistory() (int, error) {
	files := make([]string, len(catalog))
	for i, k := range catalog {
		files[i] = k.file
	}
	return s.hist.Clear(files)
}
