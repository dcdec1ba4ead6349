package cli

import (
	"fmt"
	"strings"
)

// Options are the command line overrides. Anything left at its zero
// value defers to the config file.
type Options struct {
	ShowHelp     bool
	ConfigPath   string
	ModeName     string
	UserDictPath string
	DictPaths    []string
	RulePath     string
	LogLevel     string
	NoSave       bool
}

func Parse(args []string) (Options, error) {
	var opts Options
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			opts.ShowHelp = true
		case arg == "--no-save":
			opts.NoSave = true
		case strings.HasPrefix(arg, "--config"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.ConfigPath = value
			i = next
		case strings.HasPrefix(arg, "--mode"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.ModeName = value
			i = next
		case strings.HasPrefix(arg, "--user-dict"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.UserDictPath = value
			i = next
		case strings.HasPrefix(arg, "--dict"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.DictPaths = append(opts.DictPaths, splitList(value)...)
			i = next
		case strings.HasPrefix(arg, "--rules"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.RulePath = value
			i = next
		case strings.HasPrefix(arg, "--log-level"):
			value, next, err := extractValue(arg, i, args)
			if err != nil {
				return Options{}, err
			}
			opts.LogLevel = value
			i = next
		default:
			return Options{}, fmt.Errorf("unknown option: %s", arg)
		}
	}
	return opts, nil
}

func extractValue(current string, index int, args []string) (string, int, error) {
	if eq := strings.IndexRune(current, '='); eq >= 0 {
		return current[eq+1:], index, nil
	}
	if index+1 >= len(args) {
		return "", index, fmt.Errorf("option %s requires a value", current)
	}
	return args[index+1], index + 1, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func Usage() string {
	return `kanafe - romaji to kana SKK-style input method
Usage: kanafe [options]

Options:
  --config PATH       Path to kanafe.ini (default: user config dir)
  --mode NAME         Initial input mode: hiragana, katakana, hankaku, eisu, direct
  --user-dict PATH    User dictionary file (learned words are saved here on exit)
  --dict LIST         Comma-separated SKK jisyo files, prepended to the configured list
  --rules PATH        JSON file of extra romaji conversion rules
  --log-level LEVEL   Log level: debug, info, warn, error
  --no-save           Do not write the user dictionary on exit
  -h, --help          Show this help message`
}
