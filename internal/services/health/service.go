package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. A nil db means the process
// runs on in-memory stores.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports process liveness and the database state.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s == nil || s.DB == nil {
		out["db"] = "memory"
		return out
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		out["db"] = "down"
		return out
	}
	out["db"] = "up"
	return out
}
