package clock

import (
	"fmt"
	"time"

	"github.com/farmgatehq/farmgate-backend/pkg/config"
)

// Clock supplies current time to the engine. Production code uses the system
// clock; tests pin time to exercise the working-hours rule.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

// WorkingHours is the configured daily window in a fixed location. The
// security-check bypass is only permitted outside it.
type WorkingHours struct {
	OpenHour  int
	CloseHour int
	Location  *time.Location
}

// NewWorkingHours validates and resolves the configured window.
func NewWorkingHours(cfg config.WorkingHoursConfig) (WorkingHours, error) {
	if cfg.OpenHour < 0 || cfg.OpenHour > 23 || cfg.CloseHour < 0 || cfg.CloseHour > 24 {
		return WorkingHours{}, fmt.Errorf("working hours out of range: open=%d close=%d", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.OpenHour >= cfg.CloseHour {
		return WorkingHours{}, fmt.Errorf("working hours window must open before it closes")
	}

	loc := time.Local
	if cfg.Location != "" && cfg.Location != "Local" {
		resolved, err := time.LoadLocation(cfg.Location)
		if err != nil {
			return WorkingHours{}, fmt.Errorf("resolving working hours location: %w", err)
		}
		loc = resolved
	}

	return WorkingHours{
		OpenHour:  cfg.OpenHour,
		CloseHour: cfg.CloseHour,
		Location:  loc,
	}, nil
}

// Contains reports whether t falls inside the [open, close) window.
func (w WorkingHours) Contains(t time.Time) bool {
	local := t.In(w.Location)
	return local.Hour() >= w.OpenHour && local.Hour() < w.CloseHour
}
