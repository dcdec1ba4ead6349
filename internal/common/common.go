package common

import (
	"os"
	"path/filepath"
)

const (
	configEnv   = "KANAFE_CONFIG"
	userDictEnv = "KANAFE_USER_DICT"
)

// DefaultConfigPath returns where kanafe looks for its ini config when
// none is given on the command line.
func DefaultConfigPath() string {
	if env := os.Getenv(configEnv); env != "" {
		return env
	}
	if configDir, err := os.UserConfigDir(); err == nil && configDir != "" {
		return filepath.Join(configDir, "kanafe", "kanafe.ini")
	}
	return filepath.Join(os.TempDir(), "kanafe.ini")
}

// DefaultUserDictPath returns where the user dictionary is persisted
// between sessions.
func DefaultUserDictPath() string {
	if env := os.Getenv(userDictEnv); env != "" {
		return env
	}
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, "kanafe", "user.jisyo")
	}
	if configDir, err := os.UserConfigDir(); err == nil && configDir != "" {
		return filepath.Join(configDir, "kanafe", "user.jisyo")
	}
	return filepath.Join(os.TempDir(), "kanafe-user.jisyo")
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" || dir == string(filepath.Separator) {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
