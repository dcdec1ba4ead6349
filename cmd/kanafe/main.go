package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/eiannone/keyboard"

	"kanafe/internal/app"
	"kanafe/internal/cli"
	"kanafe/internal/common"
	"kanafe/internal/config"
	"kanafe/internal/dict"
	"kanafe/internal/engine"
	"kanafe/internal/kana"
	"kanafe/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kanafe: %v\n", err)
		os.Exit(1)
	}
}

// consoleOutput renders the engine's event stream as a single status
// line: committed text followed by the current preedit.
type consoleOutput struct {
	committed strings.Builder
	marked    string
	mode      types.InputMode
}

func (o *consoleOutput) FixedText(text string) {
	o.committed.WriteString(text)
	o.redraw()
}

func (o *consoleOutput) MarkedText(text string) {
	o.marked = text
	o.redraw()
}

func (o *consoleOutput) ModeChanged(mode types.InputMode) {
	o.mode = mode
	o.redraw()
}

func (o *consoleOutput) redraw() {
	fmt.Printf("\r\x1b[2K[%s] %s%s", o.mode, o.committed.String(), o.marked)
}

func run() error {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		return err
	}
	if opts.ShowHelp {
		fmt.Println(cli.Usage())
		return nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.UserDictPath != "" {
		cfg.UserDictPath = opts.UserDictPath
	}
	if opts.RulePath != "" {
		cfg.RomajiRules = opts.RulePath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	for i := len(opts.DictPaths) - 1; i >= 0; i-- {
		specs := []config.DictionarySpec{{Path: opts.DictPaths[i], Enabled: true}}
		cfg.Dictionaries = append(specs, cfg.Dictionaries...)
	}
	log := app.NewLogger(cfg.LogLevel, cfg.LogFormat)

	mode := cfg.DefaultMode
	if opts.ModeName != "" {
		parsed, ok := types.ParseInputMode(opts.ModeName)
		if !ok {
			return fmt.Errorf("unknown input mode %q", opts.ModeName)
		}
		mode = parsed
	}

	if cfg.RomajiRules != "" {
		rules, err := kana.LoadRules(cfg.RomajiRules)
		if err != nil {
			return err
		}
		if err := kana.ApplyRules(rules); err != nil {
			return err
		}
		log.Info("romaji rules applied", "path", cfg.RomajiRules, "count", len(rules))
	}

	user, err := dict.LoadUser(cfg.UserDictPath)
	if err != nil {
		return err
	}
	var files []*dict.FileDict
	for _, spec := range cfg.Dictionaries {
		if !spec.Enabled {
			continue
		}
		fd, err := dict.LoadFileDict(spec.Path)
		if err != nil {
			log.Warn("skipping dictionary", "path", spec.Path, "error", err)
			continue
		}
		files = append(files, fd)
	}
	dictionary := dict.NewMultiDict(user, files...)

	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keyboard.Close()

	out := &consoleOutput{mode: mode}
	eng := engine.New(mode, dictionary, out, log)
	log.Info("kanafe started", "mode", mode.String(), "dictionaries", len(files))
	out.redraw()

	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		if key == keyboard.KeyCtrlC {
			break
		}
		ev, ok := translateKey(char, key)
		if !ok {
			continue
		}
		if !eng.Handle(ev) && !eng.ShouldConsumeUnhandled() && ev.Kind == types.KeyEnter {
			fmt.Println()
			out.committed.Reset()
			out.redraw()
		}
	}
	fmt.Println()

	if !opts.NoSave {
		if err := common.EnsureParentDir(cfg.UserDictPath); err != nil {
			return err
		}
		if err := user.Save(cfg.UserDictPath); err != nil {
			return err
		}
	}
	log.Info("kanafe stopped")
	return nil
}

func translateKey(char rune, key keyboard.Key) (types.KeyEvent, bool) {
	switch key {
	case keyboard.KeyEnter:
		return types.Key(types.KeyEnter), true
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return types.Key(types.KeyBackspace), true
	case keyboard.KeySpace:
		return types.Key(types.KeySpace), true
	case keyboard.KeyCtrlJ:
		return types.Key(types.KeyCtrlJ), true
	case keyboard.KeyCtrlQ:
		return types.Key(types.KeyCtrlQ), true
	case keyboard.KeyEsc, keyboard.KeyCtrlG:
		return types.Key(types.KeyCancel), true
	case keyboard.KeyArrowLeft:
		return types.Key(types.KeyLeft), true
	case keyboard.KeyArrowRight:
		return types.Key(types.KeyRight), true
	}
	if char == ';' {
		return types.Key(types.KeyStickyShift), true
	}
	if char != 0 {
		return types.Printable(string(char), unicode.IsUpper(char)), true
	}
	return types.KeyEvent{}, false
}
