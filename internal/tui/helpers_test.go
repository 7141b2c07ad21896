package tui

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{1234567.5, "$1,234,567.50"},
		{999, "$999.00"},
		{1000, "$1,000.00"},
		{-42.25, "-$42.25"},
	}
	for _, tc := range tests {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTimeRelative(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatTime(tc.t); got != tc.want {
				t.Errorf("formatTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatTimeOldDatesAbsolute(t *testing.T) {
	old := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	if got := formatTime(old); got != "Mar 9, 2024" {
		t.Errorf("formatTime(old) = %q, want %q", got, "Mar 9, 2024")
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is too long", 8, "this is…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tc := range tests {
		if got := truncStr(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
