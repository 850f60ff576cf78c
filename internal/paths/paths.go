package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenStoreDir is the default home of persisted OAuth tokens, shared with
// other Garmin Connect clients that read the same layout.
const tokenStoreDir = ".garminconnect"

func TokenStore() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, tokenStoreDir), nil
}

// Expand resolves a leading "~/" against the user's home directory.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
