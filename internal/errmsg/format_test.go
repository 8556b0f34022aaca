//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpStationsLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpStationsLoad,
			err:      errors.New("connection refused"),
			expected: "Failed to load stations: connection refused",
		},
		{
			name:     "favorites operation",
			op:       OpFavoriteAdd,
			err:      errors.New("network error"),
			expected: "Failed to add favorite: network error",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpStationLookup,
			context:  "Radio Paradise",
			err:      nil,
			expected: "",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpStationLookup,
			context:  "",
			err:      errors.New("timeout"),
			expected: "Failed to look up station: timeout",
		},
		{
			name:     "with context",
			op:       OpStationLookup,
			context:  "Radio Paradise",
			err:      errors.New("timeout"),
			expected: "Failed to look up station 'Radio Paradise': timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFailed(t *testing.T) {
	if got := Failed(OpPlaybackFallback, "Jazz FM"); got != "Failed to find a working stream for 'Jazz FM'" {
		t.Errorf("Failed() = %q", got)
	}
	if got := Failed(OpPlaybackFallback, ""); got != "Failed to find a working stream" {
		t.Errorf("Failed() = %q", got)
	}
}
