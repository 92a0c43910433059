package exam

import "testing"

func TestClampDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, 10},
		{-3, 10},
		{1, 60},
		{5, 300},
		{10, 600},
		{30, 1800},
		{60, 3600},
		{120, 3600},
	}
	for _, tt := range tests {
		got := ClampDuration(tt.minutes)
		if got != tt.want {
			t.Errorf("ClampDuration(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
		if got < MinBound || got > MaxBound {
			t.Errorf("ClampDuration(%d) = %d, outside [%d, %d]", tt.minutes, got, MinBound, MaxBound)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{9, "00:09"},
		{59, "00:59"},
		{60, "01:00"},
		{75, "01:15"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.seconds); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestCountdownStartDisplays(t *testing.T) {
	if got := NewCountdown(ClampDuration(10)).Display(); got != "10:00" {
		t.Errorf("duration 10 starts at %q, want \"10:00\"", got)
	}
	if got := NewCountdown(ClampDuration(120)).Display(); got != "60:00" {
		t.Errorf("duration 120 starts at %q, want \"60:00\"", got)
	}
}

func TestCountdownExpiresOnce(t *testing.T) {
	c := NewCountdown(3)

	expirations := 0
	for i := 0; i < 10; i++ {
		if _, expired := c.Tick(); expired {
			expirations++
		}
	}

	if expirations != 1 {
		t.Errorf("countdown expired %d times, want exactly 1", expirations)
	}
	if !c.Expired() {
		t.Error("countdown should report expired")
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d after expiry, want 0", c.Remaining())
	}
}

func TestCountdownTickSequence(t *testing.T) {
	c := NewCountdown(2)

	if r, expired := c.Tick(); r != 1 || expired {
		t.Errorf("first tick = (%d, %v), want (1, false)", r, expired)
	}
	if r, expired := c.Tick(); r != 0 || !expired {
		t.Errorf("second tick = (%d, %v), want (0, true)", r, expired)
	}
	if r, expired := c.Tick(); r != 0 || expired {
		t.Errorf("tick after expiry = (%d, %v), want (0, false)", r, expired)
	}
}
