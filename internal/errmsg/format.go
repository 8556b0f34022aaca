// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpStationsLoad  Op = "load stations"
	OpStationLookup Op = "look up station"
	OpTagsLoad      Op = "load tags"
	OpCountriesLoad Op = "load countries"

	// Favorites operations
	OpFavoritesLoad  Op = "load favorites"
	OpFavoriteAdd    Op = "add favorite"
	OpFavoriteRemove Op = "remove favorite"

	// Playback operations
	OpPlaybackStart    Op = "start playback"
	OpPlaybackFallback Op = "find a working stream"

	// Settings
	OpVolumeSave Op = "save volume"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Failed creates a message for an operation that failed without an
// underlying error value, e.g. an exhausted retry sequence.
func Failed(op Op, context string) string {
	if context == "" {
		return fmt.Sprintf("Failed to %s", op)
	}
	return fmt.Sprintf("Failed to %s for '%s'", op, context)
}
