package monitor

import (
	"time"

	"github.com/fittrack/backend/internal/infrastructure/sweeplog"
)

type Status struct {
	PostgreSQL bool            `json:"postgresql"`
	Redis      bool            `json:"redis"`
	LastSweep  *sweeplog.Entry `json:"last_sweep,omitempty"`
	SweepCount int             `json:"sweep_count"`
	LastCheck  time.Time       `json:"last_check"`
}
