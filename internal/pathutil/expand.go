package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// AppDirName is the per-user directory holding config and learner data.
const AppDirName = ".verblume"

// Expand resolves environment variables and "~/" home shortcuts.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}

	expanded := os.ExpandEnv(trimmed)
	if expanded != "~" && !strings.HasPrefix(expanded, "~/") {
		return filepath.Clean(expanded), nil
	}

	home, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Clean(filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(expanded, "~"), "/"))), nil
}

// AppDir returns $HOME/.verblume joined with the optional elements.
func AppDir(elem ...string) (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home, AppDirName}, elem...)...), nil
}

// HomeDir returns the first fully resolved home directory among the
// os, os/user and $HOME sources.
func HomeDir() (string, error) {
	resolved := func(p string) bool {
		p = strings.TrimSpace(p)
		return p != "" && p != "~" && !strings.HasPrefix(p, "~/")
	}

	if home, err := os.UserHomeDir(); err == nil && resolved(home) {
		return strings.TrimSpace(home), nil
	}
	if current, err := user.Current(); err == nil && resolved(current.HomeDir) {
		return strings.TrimSpace(current.HomeDir), nil
	}

	envHome := strings.TrimSpace(os.Getenv("HOME"))
	switch {
	case envHome == "":
		return "", fmt.Errorf("HOME is not set")
	case !resolved(envHome):
		return "", fmt.Errorf("HOME is not fully resolved: %s", envHome)
	}
	return envHome, nil
}
