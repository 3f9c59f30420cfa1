package dates

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-08-28", false},
		{"2026-08-28T10:30:00Z", false},
		{" 2026-08-28 ", false},
		{"", true},
		{"not-a-date", true},
		{"2026-13-01", true},
	}

	for _, tt := range tests {
		_, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	then, _ := Parse("2026-08-08")
	if got := DaysSince(now, then); got != 20 {
		t.Errorf("DaysSince = %d, want 20", got)
	}

	// Partial days truncate toward zero.
	then = time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	if got := DaysSince(now, then); got != 0 {
		t.Errorf("DaysSince partial day = %d, want 0", got)
	}
}
