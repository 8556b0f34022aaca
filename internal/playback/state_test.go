package playback

import "testing"

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "Idle"},
		{StatusLoading, "Loading"},
		{StatusPlaying, "Playing"},
		{StatusPaused, "Paused"},
		{StatusStopped, "Stopped"},
		{StatusError, "Error"},
		{Status(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatus_IsActive(t *testing.T) {
	active := map[Status]bool{
		StatusIdle:    false,
		StatusLoading: true,
		StatusPlaying: true,
		StatusPaused:  true,
		StatusStopped: false,
		StatusError:   false,
	}
	for s, want := range active {
		if got := s.IsActive(); got != want {
			t.Errorf("%v.IsActive() = %v, want %v", s, got, want)
		}
	}
}
