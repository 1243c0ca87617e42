// Package paths resolves where tix keeps its files.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// StoreEnvVar overrides the store location.
	StoreEnvVar = "TIX_STORE"

	// EnvEnvVar selects the environment; "development" uses a separate store.
	EnvEnvVar = "TIX_ENV"

	storeFile = "tickets.json"
)

// DefaultConfigDir returns the tix configuration directory.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(home, ".config", "tix"), nil
}

// DefaultStorePath returns the default store file. In development mode the
// store lives in a dev subdirectory so real tickets are left alone.
func DefaultStorePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvEnvVar)), "development") {
		dir = filepath.Join(dir, "dev")
	}
	return filepath.Join(dir, storeFile), nil
}

// ResolveStorePath picks the store file: the flag value, then $TIX_STORE,
// then the configured path, then the default.
func ResolveStorePath(flagValue, configValue string) (string, error) {
	var override string
	for _, candidate := range []string{flagValue, os.Getenv(StoreEnvVar), configValue} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			override = candidate
			break
		}
	}
	path, err := ResolveWithDefault(override, DefaultStorePath)
	if err != nil {
		return "", err
	}
	return Expand(path)
}

// ResolveWithDefault returns override when set, otherwise the result of
// defaultFn.
func ResolveWithDefault(override string, defaultFn func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultFn()
}

// Expand replaces a leading ~ with the home directory and makes the path
// absolute.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := WorkingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}

// WorkingDir returns the current directory, preferring $PWD when it names
// the same directory so symlinked paths are kept.
func WorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	if pwd := os.Getenv("PWD"); pwd != "" && filepath.IsAbs(pwd) {
		if pwdInfo, err := os.Stat(pwd); err == nil {
			if cwdInfo, err := os.Stat(cwd); err == nil && os.SameFile(pwdInfo, cwdInfo) {
				return pwd, nil
			}
		}
	}
	return cwd, nil
}
