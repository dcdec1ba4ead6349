package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ini "gopkg.in/ini.v1"

	"kanafe/internal/common"
	"kanafe/internal/types"
)

// DictionarySpec names one file-backed dictionary source. Order in the
// config file is lookup precedence order. Disabled sources stay listed
// but are not loaded.
type DictionarySpec struct {
	Path    string
	Enabled bool
}

type Config struct {
	DefaultMode  types.InputMode
	RomajiRules  string
	UserDictPath string
	Dictionaries []DictionarySpec
	LogLevel     string
	LogFormat    string
}

func Default() Config {
	return Config{
		DefaultMode:  types.ModeHiragana,
		UserDictPath: common.DefaultUserDictPath(),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads an ini config. A missing file yields the defaults; a
// malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = common.DefaultConfigPath()
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config: %s is a directory", path)
	}

	file, err := ini.Load(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	modeName := file.Section("input").Key("default_mode").MustString(cfg.DefaultMode.String())
	mode, ok := types.ParseInputMode(strings.ToLower(strings.TrimSpace(modeName)))
	if !ok {
		return cfg, fmt.Errorf("config: invalid default_mode %q in %s", modeName, path)
	}
	cfg.DefaultMode = mode
	cfg.RomajiRules = file.Section("input").Key("romaji_rules").MustString(cfg.RomajiRules)

	dicts := file.Section("dictionaries")
	cfg.UserDictPath = dicts.Key("user").MustString(cfg.UserDictPath)
	for _, token := range dicts.Key("files").Strings(",") {
		spec := DictionarySpec{Path: token, Enabled: true}
		if i := strings.Index(token, "|"); i >= 0 {
			spec.Path = strings.TrimSpace(token[:i])
			spec.Enabled = strings.EqualFold(strings.TrimSpace(token[i+1:]), "on")
		}
		if spec.Path == "" {
			continue
		}
		cfg.Dictionaries = append(cfg.Dictionaries, spec)
	}

	logSection := file.Section("log")
	cfg.LogLevel = logSection.Key("level").MustString(cfg.LogLevel)
	cfg.LogFormat = logSection.Key("format").MustString(cfg.LogFormat)

	return cfg, nil
}
