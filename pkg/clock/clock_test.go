package clock

import (
	"testing"
	"time"

	"github.com/farmgatehq/farmgate-backend/pkg/config"
)

func TestNewWorkingHoursValidation(t *testing.T) {
	if _, err := NewWorkingHours(config.WorkingHoursConfig{OpenHour: 18, CloseHour: 6}); err == nil {
		t.Fatal("expected inverted window to be rejected")
	}
	if _, err := NewWorkingHours(config.WorkingHoursConfig{OpenHour: -1, CloseHour: 18}); err == nil {
		t.Fatal("expected negative open hour to be rejected")
	}
	if _, err := NewWorkingHours(config.WorkingHoursConfig{OpenHour: 6, CloseHour: 18, Location: "Not/AZone"}); err == nil {
		t.Fatal("expected unknown location to be rejected")
	}
}

func TestWorkingHoursContains(t *testing.T) {
	window, err := NewWorkingHours(config.WorkingHoursConfig{OpenHour: 6, CloseHour: 18, Location: "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		hour int
		want bool
	}{
		{hour: 5, want: false},
		{hour: 6, want: true},
		{hour: 10, want: true},
		{hour: 17, want: true},
		{hour: 18, want: false},
		{hour: 20, want: false},
	}
	for _, tt := range tests {
		at := time.Date(2024, 3, 15, tt.hour, 0, 0, 0, time.UTC)
		if got := window.Contains(at); got != tt.want {
			t.Fatalf("Contains(%02d:00) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	if got := (Fixed{At: at}).Now(); !got.Equal(at) {
		t.Fatalf("fixed clock drifted: %v", got)
	}
}
