package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"kanafe/internal/dict"
	"kanafe/internal/emitter"
	"kanafe/internal/kana"
	"kanafe/internal/types"
)

// Engine owns one input session's state and turns key events into
// fixed text, marked (preedit) text, and mode-change notifications.
// It is single-threaded: each event is fully processed before the next
// is accepted. The dictionary may be shared between engines; the state
// is never shared.
type Engine struct {
	mode     types.InputMode
	method   method
	register *RegisterState
	dict     dict.Dictionary
	out      emitter.Output
	log      *slog.Logger
}

func New(mode types.InputMode, d dict.Dictionary, out emitter.Output, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{mode: mode, method: normal{}, dict: d, out: out, log: log}
}

func (e *Engine) Mode() types.InputMode { return e.mode }

// ShouldConsumeUnhandled tells the host whether unrecognized events
// must still be swallowed, so stray keys cannot leak into the
// application mid-composition or mid-registration.
func (e *Engine) ShouldConsumeUnhandled() bool {
	if e.register != nil {
		return true
	}
	_, isNormal := e.method.(normal)
	return !isNormal
}

// Handle processes one key event. It reports true when the event was
// consumed; false hands the event back to the host's default handling.
func (e *Engine) Handle(ev types.KeyEvent) bool {
	switch m := e.method.(type) {
	case normal:
		return e.handleNormal(ev)
	case ComposingState:
		return e.handleComposing(m, ev)
	case SelectingState:
		return e.handleSelecting(m, ev)
	default:
		panic(fmt.Sprintf("engine: unknown input method state %T", m))
	}
}

func (e *Engine) emitFixed(text string) {
	if text == "" {
		return
	}
	// registration swallows fixed text into the overlay so it never
	// reaches the real document
	if e.register != nil {
		e.register.insert(text)
		e.emitMarked()
		return
	}
	e.out.FixedText(text)
}

func (e *Engine) emitMarked() {
	e.out.MarkedText(e.renderMarked())
}

func (e *Engine) setMode(mode types.InputMode) {
	e.mode = mode
	e.out.ModeChanged(mode)
}

func (e *Engine) restoreMode(mode types.InputMode) {
	if e.mode != mode {
		e.setMode(mode)
	}
}

func (e *Engine) handleNormal(ev types.KeyEvent) bool {
	switch ev.Kind {
	case types.KeyEnter:
		return e.completeRegistration()
	case types.KeyBackspace:
		if e.register != nil {
			e.register.backspace()
			e.emitMarked()
			return true
		}
		return false
	case types.KeySpace:
		if e.mode == types.ModeEisu {
			e.emitFixed("　")
		} else {
			e.emitFixed(" ")
		}
		return true
	case types.KeyStickyShift:
		switch {
		case e.mode.Kana():
			c := newComposing()
			c.Shift = true
			e.method = c
			e.emitMarked()
			return true
		case e.mode == types.ModeEisu:
			e.emitFixed("；")
			return true
		default:
			return false
		}
	case types.KeyPrintable:
		return e.handleNormalPrintable(ev)
	case types.KeyCtrlJ:
		e.setMode(types.ModeHiragana)
		return true
	case types.KeyCancel:
		if e.register != nil {
			reg := e.register
			e.register = nil
			e.restoreMode(reg.PrevMode)
			e.method = reg.Prev
			e.emitMarked()
			return true
		}
		return false
	case types.KeyCtrlQ:
		switch e.mode {
		case types.ModeHiragana, types.ModeKatakana:
			e.setMode(types.ModeHankaku)
			return true
		case types.ModeHankaku:
			e.setMode(types.ModeHiragana)
			return true
		default:
			return false
		}
	case types.KeyLeft:
		if e.register != nil {
			e.register.moveCursor(-1)
			e.emitMarked()
			return true
		}
		return false
	case types.KeyRight:
		if e.register != nil {
			e.register.moveCursor(1)
			e.emitMarked()
			return true
		}
		return false
	default:
		return false
	}
}

// completeRegistration finishes the word-registration overlay: the
// typed word joins the user dictionary in MRU position, the saved mode
// comes back, and the word plus any okurigana is committed.
func (e *Engine) completeRegistration() bool {
	if e.register == nil {
		return false
	}
	reg := e.register
	if len(reg.Text) == 0 {
		return true
	}
	word := dict.NewWord(string(reg.Text), "")
	e.dict.Add(reg.Yomi, word)
	e.register = nil
	e.restoreMode(reg.PrevMode)
	e.method = normal{}
	e.emitFixed(word.Surface + kana.Render(reg.Prev.Okuri, e.mode))
	e.emitMarked()
	return true
}

func (e *Engine) handleNormalPrintable(ev types.KeyEvent) bool {
	if ev.Text == "" {
		e.log.Warn("printable key event carries no literal text", "mode", e.mode.String())
		return false
	}
	if !e.mode.Kana() {
		if e.mode == types.ModeEisu {
			e.emitFixed(kana.FullWidth(ev.Text))
			return true
		}
		e.emitFixed(ev.Text)
		return true
	}

	lower := strings.ToLower(ev.Text)
	switch lower {
	case "q":
		if e.mode == types.ModeHiragana {
			e.setMode(types.ModeKatakana)
		} else {
			e.setMode(types.ModeHiragana)
		}
		return true
	case "l":
		if ev.Shift {
			e.setMode(types.ModeEisu)
		} else {
			e.setMode(types.ModeDirect)
		}
		return true
	}

	if isRomajiLetters(lower) {
		m, rem := kana.Convert(lower)
		switch {
		case m != nil && ev.Shift:
			c := newComposing()
			c.Shift = true
			c.Text = []kana.Moji{*m}
			e.method = c
			e.emitMarked()
		case m != nil:
			e.emitFixed(m.Render(e.mode))
		default:
			c := newComposing()
			c.Shift = ev.Shift
			c.Romaji = rem
			e.method = c
			e.emitMarked()
		}
		return true
	}

	// non-letter input: symbol mapping when the table has one,
	// verbatim otherwise
	if m, rem := kana.Convert(lower); m != nil && rem == "" {
		e.emitFixed(m.Render(e.mode))
	} else {
		e.emitFixed(ev.Text)
	}
	return true
}

func (e *Engine) handleComposing(c ComposingState, ev types.KeyEvent) bool {
	switch ev.Kind {
	case types.KeyEnter:
		e.emitFixedComposed(c.sealN())
		e.emitMarked()
		return true
	case types.KeyBackspace:
		switch {
		case c.Romaji != "":
			c.Romaji = c.Romaji[:len(c.Romaji)-1]
			e.method = c
		case c.Okuri != nil:
			if len(c.Okuri) > 0 {
				c = c.dropOkuri()
			} else {
				c.Okuri = nil
			}
			e.method = c
		case len(c.Text) > 0:
			c = c.dropText()
			if len(c.Text) == 0 {
				e.method = normal{}
			} else {
				e.method = c
			}
		default:
			e.method = normal{}
		}
		e.emitMarked()
		return true
	case types.KeySpace:
		return e.startConversion(c)
	case types.KeyStickyShift:
		switch {
		case c.Okuri != nil:
			if m, _ := kana.Convert(";"); m != nil {
				c = c.appendOkuri(*m)
			}
			c.Romaji = ""
			e.method = c
			e.emitMarked()
		case len(c.Text) == 0:
			e.method = normal{}
			e.emitFixed("；")
			e.emitMarked()
		default:
			c.Okuri = []kana.Moji{}
			e.method = c
			e.emitMarked()
		}
		return true
	case types.KeyPrintable:
		return e.handleComposingPrintable(c, ev)
	case types.KeyCtrlJ:
		e.emitFixedComposed(c.sealN())
		e.setMode(types.ModeHiragana)
		e.emitMarked()
		return true
	case types.KeyCancel:
		if c.Romaji != "" {
			c.Romaji = ""
			e.method = c
			e.emitMarked()
			return true
		}
		e.method = normal{}
		if e.register != nil {
			// keep the overlay retryable: fresh snapshot, same reading
			e.register = newRegister(e.register.PrevMode, e.register.Prev, e.register.Yomi)
		}
		e.emitMarked()
		return true
	case types.KeyCtrlQ:
		if c.Okuri != nil {
			return true
		}
		c = c.sealN()
		e.method = normal{}
		e.emitFixed(kana.Render(c.Text, types.ModeHankaku))
		e.emitMarked()
		return true
	case types.KeyLeft, types.KeyRight:
		if c.Romaji != "" {
			c.Romaji = ""
			e.method = c
			e.emitMarked()
			return true
		}
		if ev.Kind == types.KeyLeft {
			c = c.moveCursor(-1)
		} else {
			c = c.moveCursor(1)
		}
		e.method = c
		e.emitMarked()
		return true
	default:
		return false
	}
}

// startConversion is the convert-request path shared by Space and
// okurigana completion: build the reading, query the dictionary, then
// select, register, or abandon.
func (e *Engine) startConversion(c ComposingState) bool {
	c = c.sealN()
	c.Romaji = ""
	if len(c.Text) == 0 {
		e.method = normal{}
		e.emitMarked()
		return true
	}
	yomi := c.yomi()
	candidates := e.dict.Refer(yomi)
	if len(candidates) == 0 {
		if e.register != nil {
			e.method = normal{}
			e.emitMarked()
			return true
		}
		e.register = newRegister(e.mode, c, yomi)
		e.method = normal{}
		e.setMode(types.ModeHiragana)
		e.emitMarked()
		return true
	}
	e.method = SelectingState{
		PrevMode:   e.mode,
		Prev:       c,
		Yomi:       yomi,
		Candidates: candidates,
	}
	e.emitMarked()
	return true
}

func (e *Engine) handleComposingPrintable(c ComposingState, ev types.KeyEvent) bool {
	if ev.Text == "" {
		e.log.Warn("printable key event carries no literal text", "mode", e.mode.String())
		return false
	}
	lower := strings.ToLower(ev.Text)

	if lower == "q" || lower == "l" {
		if c.Okuri != nil {
			// script toggles mid-okurigana only reset pending romaji
			c.Romaji = ""
			e.method = c
			e.emitMarked()
			return true
		}
		if lower == "q" && ev.Shift {
			// shift-Q passthrough: finish this word, open the next
			c = c.sealN()
			e.emitFixedComposed(c)
			fresh := newComposing()
			fresh.Shift = true
			e.method = fresh
			e.emitMarked()
			return true
		}
		c = c.sealN()
		e.method = normal{}
		if lower == "q" {
			toggled := types.ModeKatakana
			if e.mode == types.ModeKatakana {
				toggled = types.ModeHiragana
			}
			e.emitFixed(kana.Render(c.Text, toggled))
			e.emitMarked()
			return true
		}
		// "l": commit in the active script, then let the normal
		// handler perform the mode switch
		e.emitFixed(kana.Render(c.Text, e.mode))
		e.emitMarked()
		return e.handleNormalPrintable(ev)
	}

	collecting := c.Okuri != nil
	if isRomajiLetters(lower) && ev.Shift && !collecting && len(c.Text) > 0 && c.Cursor < 0 {
		// uppercase after the stem starts okurigana collection
		c.Okuri = []kana.Moji{}
		collecting = true
	}

	m, rem := kana.Convert(c.Romaji + lower)
	switch {
	case m == nil:
		c.Romaji = rem
		e.method = c
		e.emitMarked()
		return true
	case collecting:
		c = c.appendOkuri(*m)
		c.Romaji = rem
		if rem == "" {
			return e.startConversion(c)
		}
		e.method = c
		e.emitMarked()
		return true
	case c.Shift:
		c = c.appendText(*m)
		c.Romaji = rem
		e.method = c
		e.emitMarked()
		return true
	default:
		// unmarked composition: the finished unit leaves immediately
		e.method = normal{}
		e.emitFixed(m.Render(e.mode))
		if rem != "" {
			fresh := newComposing()
			fresh.Romaji = rem
			e.method = fresh
		}
		e.emitMarked()
		return true
	}
}

func (e *Engine) emitFixedComposed(c ComposingState) {
	e.method = normal{}
	e.emitFixed(kana.Render(c.Text, e.mode) + kana.Render(c.Okuri, e.mode))
}

func (e *Engine) handleSelecting(s SelectingState, ev types.KeyEvent) bool {
	switch ev.Kind {
	case types.KeyEnter:
		e.commitSelection(s)
		return true
	case types.KeyBackspace:
		if s.Index > 0 {
			s.Index--
			e.method = s
			e.emitMarked()
			return true
		}
		e.restoreComposing(s)
		return true
	case types.KeySpace:
		if s.Index+1 < len(s.Candidates) {
			s.Index++
			e.method = s
			e.emitMarked()
			return true
		}
		// candidates exhausted
		if e.register != nil {
			e.method = normal{}
			e.emitMarked()
			return true
		}
		e.register = newRegister(s.PrevMode, s.Prev, s.Yomi)
		e.method = normal{}
		e.setMode(types.ModeHiragana)
		e.emitMarked()
		return true
	case types.KeyCancel:
		e.restoreComposing(s)
		return true
	case types.KeyLeft, types.KeyRight:
		// reserved for an auxiliary candidate window
		return true
	default:
		// stickyShift, ctrlJ, ctrlQ, printable: finish this word and
		// let the normal handler see the same event
		e.commitSelection(s)
		e.handleNormal(ev)
		return true
	}
}

func (e *Engine) commitSelection(s SelectingState) {
	word := s.Candidates[s.Index]
	e.dict.Add(s.Yomi, word)
	e.method = normal{}
	e.emitFixed(word.Surface + kana.Render(s.Prev.Okuri, e.mode))
	e.emitMarked()
}

func (e *Engine) restoreComposing(s SelectingState) {
	e.method = s.Prev
	e.restoreMode(s.PrevMode)
	e.emitMarked()
}

func isRomajiLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
