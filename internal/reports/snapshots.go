package reports

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/models"
)

// StartSnapshotLoop saves a snapshot of every report each interval until ctx
// is done. A zero interval disables it.
func (s *Service) StartSnapshotLoop(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	s.log.Info("report snapshots enabled", zap.Duration("every", every))
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.snapshot()
			}
		}
	}()
}

func (s *Service) snapshot() {
	date := s.now().Format(models.DateLayout)
	if err := s.SaveAll(date); err != nil {
		s.log.Warn("report snapshot incomplete", zap.String("date", date), zap.Error(err))
		return
	}
	s.log.Info("report snapshot saved", zap.String("date", date))
}
