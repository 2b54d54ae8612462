package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Connectivity label constants.
const (
	OnlineValue  = "Online"
	OfflineValue = "Offline"
	StagedValue  = "Staged" // item exists only in session storage
	SyncedValue  = "Synced" // item confirmed server-side
)

// Color variables for console output.
var (
	OnlineColor  = color.New(color.FgGreen, color.Bold)
	OfflineColor = color.New(color.FgRed, color.Bold)
	StagedColor  = color.New(color.FgYellow)
	SyncedColor  = color.New(color.FgCyan)
)

// GetItemLabel returns a plain text label for a cart item's sync state.
func GetItemLabel(staged bool) string {
	if staged {
		return StagedValue
	}
	return SyncedValue
}

// GetColorItemLabel returns a colored label for a cart item's sync state.
func GetColorItemLabel(staged bool) string {
	if staged {
		return StagedColor.Sprint(StagedValue)
	}
	return SyncedColor.Sprint(SyncedValue)
}

// GetColorOnlineLabel returns a colored online/offline label.
func GetColorOnlineLabel(online bool) string {
	if online {
		return OnlineColor.Sprint(OnlineValue)
	}
	return OfflineColor.Sprint(OfflineValue)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the durable
// response cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprocket_cache.db"
	}
	return filepath.Join(homeDir, ".sprocket_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for order
// history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprocket_history.db"
	}
	return filepath.Join(homeDir, ".sprocket_history.db")
}

// GetSessionFilePath returns the path to the BoltDB file backing the session
// store for a named profile.
func GetSessionFilePath(profile string) string {
	name := fmt.Sprintf(".sprocket_session_%s.db", profile)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// TruncateText truncates a string to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one
// character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
