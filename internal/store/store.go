// Package store is the CSV-backed record store: the child registry and the
// room check-in ledger. Operations are whole-file read-modify-write cycles
// serialised by a mutex; every failure comes back as *Error.
package store

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/csvstore"
	"github.com/lojf/kidsdesk/internal/models"
)

const (
	ChildrenFile = "children.csv"
	CheckinsFile = "checkins.csv"
)

type Options struct {
	DataDir        string
	Location       *time.Location
	DefaultCountry string // calling code used to normalize phone numbers
	Now            func() time.Time
	Logger         *zap.Logger
}

type Store struct {
	mu       sync.Mutex
	children *csvstore.Table
	checkins *csvstore.Table

	loc      *time.Location
	now      func() time.Time
	country  string
	log      *zap.Logger
	validate *validator.Validate
}

// Open prepares both tables under opts.DataDir, upgrading older file layouts.
func Open(opts Options) (*Store, error) {
	s := &Store{
		loc:      opts.Location,
		now:      opts.Now,
		country:  opts.DefaultCountry,
		log:      opts.Logger,
		validate: newValidator(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	var migrated bool
	var err error
	s.children, migrated, err = csvstore.Open(filepath.Join(opts.DataDir, ChildrenFile), csvstore.Schema{
		Columns: models.ChildColumns,
		Aliases: models.ChildLegacyColumns,
	})
	if err != nil {
		return nil, &Error{Kind: KindSchema, Op: "open children", Err: err}
	}
	if migrated {
		s.log.Info("children table upgraded", zap.String("path", s.children.Path()), zap.Strings("header", s.children.Header()))
	}

	s.checkins, migrated, err = csvstore.Open(filepath.Join(opts.DataDir, CheckinsFile), csvstore.Schema{
		Columns: models.CheckinColumns,
		Aliases: models.CheckinLegacyColumns,
	})
	if err != nil {
		return nil, &Error{Kind: KindSchema, Op: "open checkins", Err: err}
	}
	if migrated {
		s.log.Info("checkins table upgraded", zap.String("path", s.checkins.Path()))
	}
	return s, nil
}

// Location is the time zone check-in times are written in.
func (s *Store) Location() *time.Location { return s.loc }

// Now is the store clock in its time zone.
func (s *Store) Now() time.Time { return s.now().In(s.loc) }

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func ioErr(op, name string, err error) error {
	return &Error{Kind: KindIO, Op: op, Name: name, Err: err}
}
