// Package db keeps a SQLite copy of the CSV data for ad-hoc SQL reporting.
// The CSV files stay the source of truth; the mirror is rebuilt from them.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lojf/kidsdesk/internal/models"
)

type Mirror struct {
	conn *gorm.DB
	log  *zap.Logger
}

// Open opens (creating if needed) the mirror database at path.
func Open(path string, log *zap.Logger) (*Mirror, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("db: mkdir: %w", err)
	}
	conn, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(&models.Child{}, &models.Checkin{}); err != nil {
		return nil, fmt.Errorf("db: auto-migrate: %w", err)
	}

	// Composite index that GORM doesn't auto-create from struct tags.
	if err := conn.Exec("CREATE INDEX IF NOT EXISTS idx_checkins_room_open ON checkins(room, checkout_at)").Error; err != nil {
		return nil, fmt.Errorf("db: index: %w", err)
	}

	log.Info("mirror database ready", zap.String("path", path))
	return &Mirror{conn: conn, log: log}, nil
}

func (m *Mirror) Conn() *gorm.DB { return m.conn }

func (m *Mirror) Close() error {
	sqlDB, err := m.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type SyncStats struct {
	Children int       `json:"children"`
	Checkins int       `json:"checkins"`
	At       time.Time `json:"at"`
}

// Sync replaces the mirror contents with children and events in one
// transaction.
func (m *Mirror) Sync(children []models.Child, events []models.Checkin) (SyncStats, error) {
	kids := make([]models.Child, len(children))
	copy(kids, children)
	for i := range kids {
		kids[i].ID = 0
	}
	evs := make([]models.Checkin, len(events))
	copy(evs, events)
	for i := range evs {
		evs[i].ID = 0
	}

	err := m.conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Checkin{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Child{}).Error; err != nil {
			return err
		}
		if len(kids) > 0 {
			if err := tx.CreateInBatches(kids, 200).Error; err != nil {
				return err
			}
		}
		if len(evs) > 0 {
			if err := tx.CreateInBatches(evs, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SyncStats{}, fmt.Errorf("db: sync: %w", err)
	}
	st := SyncStats{Children: len(kids), Checkins: len(evs), At: time.Now()}
	m.log.Info("mirror synced", zap.Int("children", st.Children), zap.Int("checkins", st.Checkins))
	return st, nil
}

type RoomOccupancy struct {
	Room    string `json:"room"`
	Present int64  `json:"present"`
	Visits  int64  `json:"visits"`
}

// Occupancy counts, per room, the children still checked in and all visits
// ever recorded, in a single aggregation query.
func (m *Mirror) Occupancy() ([]RoomOccupancy, error) {
	var rows []RoomOccupancy
	err := m.conn.Table("checkins").
		Select(`room,
			SUM(CASE WHEN checkout_at IS NULL THEN 1 ELSE 0 END) AS present,
			COUNT(*) AS visits`).
		Group("room").
		Order("room asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("db: occupancy: %w", err)
	}
	return rows, nil
}
