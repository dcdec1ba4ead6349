package engine

import (
	"kanafe/internal/dict"
	"kanafe/internal/kana"
	"kanafe/internal/types"
)

// method is the closed set of input method states. Exactly one variant
// is active; each payload is an immutable value replaced wholesale on
// transition, which is what makes snapshot restore on cancel correct.
type method interface {
	isMethod()
}

type normal struct{}

func (normal) isMethod() {}

// ComposingState is the preedit under active composition. Shift marks
// a composition started by uppercase or sticky shift and never
// reverts. Okuri distinguishes absent (nil: not collecting okurigana)
// from present-but-empty (collecting, nothing committed yet). Romaji
// is the pending uncommitted buffer. Cursor is an index into Text,
// -1 meaning "at end".
type ComposingState struct {
	Shift  bool
	Text   []kana.Moji
	Okuri  []kana.Moji
	Romaji string
	Cursor int
}

func (ComposingState) isMethod() {}

func newComposing() ComposingState {
	return ComposingState{Cursor: -1}
}

func cloneMoji(seq []kana.Moji) []kana.Moji {
	if seq == nil {
		return nil
	}
	out := make([]kana.Moji, len(seq))
	copy(out, seq)
	return out
}

func (c ComposingState) appendText(m kana.Moji) ComposingState {
	text := cloneMoji(c.Text)
	if c.Cursor >= 0 && c.Cursor <= len(text) {
		text = append(text, kana.Moji{})
		copy(text[c.Cursor+1:], text[c.Cursor:])
		text[c.Cursor] = m
		c.Cursor++
	} else {
		text = append(text, m)
	}
	c.Text = text
	return c
}

func (c ComposingState) appendOkuri(m kana.Moji) ComposingState {
	c.Okuri = append(cloneMoji(c.Okuri), m)
	return c
}

func (c ComposingState) dropText() ComposingState {
	if len(c.Text) == 0 || c.Cursor == 0 {
		return c
	}
	text := cloneMoji(c.Text)
	if c.Cursor > 0 {
		text = append(text[:c.Cursor-1], text[c.Cursor:]...)
		c.Cursor--
	} else {
		text = text[:len(text)-1]
	}
	c.Text = text
	return c
}

func (c ComposingState) dropOkuri() ComposingState {
	if len(c.Okuri) == 0 {
		return c
	}
	c.Okuri = cloneMoji(c.Okuri)[:len(c.Okuri)-1]
	return c
}

func (c ComposingState) moveCursor(delta int) ComposingState {
	if len(c.Text) == 0 {
		return c
	}
	cur := c.Cursor
	if cur < 0 {
		cur = len(c.Text)
	}
	cur += delta
	if cur < 0 {
		cur = 0
	}
	if cur >= len(c.Text) {
		cur = -1
	}
	c.Cursor = cur
	return c
}

// sealN resolves a pending lone "n" into ん, attached to whichever
// sequence is currently growing.
func (c ComposingState) sealN() ComposingState {
	m, rem := kana.SealN(c.Romaji)
	if m == nil {
		return c
	}
	c.Romaji = rem
	if c.Okuri != nil {
		return c.appendOkuri(*m)
	}
	return c.appendText(*m)
}

// yomi is the dictionary lookup key: the stem in hiragana, with the
// first romaji letter of the okurigana appended as the tail marker.
func (c ComposingState) yomi() string {
	y := kana.Render(c.Text, types.ModeHiragana)
	if len(c.Okuri) > 0 {
		y += c.Okuri[0].FirstRomaji
	}
	return y
}

// SelectingState is candidate browsing after a conversion request.
// Never constructed with empty candidates; Index stays within bounds.
type SelectingState struct {
	PrevMode   types.InputMode
	Prev       ComposingState
	Yomi       string
	Candidates []dict.Word
	Index      int
}

func (SelectingState) isMethod() {}

// RegisterState is the word-registration overlay. It lives beside the
// method variant, not inside it: registration can be entered from
// composing or selecting and restores exactly one snapshot.
type RegisterState struct {
	PrevMode types.InputMode
	Prev     ComposingState
	Yomi     string
	Text     []rune
	Cursor   int
}

func newRegister(prevMode types.InputMode, prev ComposingState, yomi string) *RegisterState {
	return &RegisterState{PrevMode: prevMode, Prev: prev, Yomi: yomi, Cursor: -1}
}

func (r *RegisterState) insert(text string) {
	runes := []rune(text)
	if r.Cursor < 0 || r.Cursor >= len(r.Text) {
		r.Text = append(r.Text, runes...)
		return
	}
	out := make([]rune, 0, len(r.Text)+len(runes))
	out = append(out, r.Text[:r.Cursor]...)
	out = append(out, runes...)
	out = append(out, r.Text[r.Cursor:]...)
	r.Text = out
	r.Cursor += len(runes)
}

func (r *RegisterState) backspace() {
	if len(r.Text) == 0 {
		return
	}
	if r.Cursor < 0 || r.Cursor >= len(r.Text) {
		r.Text = r.Text[:len(r.Text)-1]
		return
	}
	if r.Cursor == 0 {
		return
	}
	r.Text = append(append([]rune{}, r.Text[:r.Cursor-1]...), r.Text[r.Cursor:]...)
	r.Cursor--
}

func (r *RegisterState) moveCursor(delta int) {
	if r.Cursor < 0 {
		r.Cursor = len(r.Text)
	}
	r.Cursor += delta
	if r.Cursor < 0 {
		r.Cursor = 0
	}
	if r.Cursor >= len(r.Text) {
		r.Cursor = -1
	}
}
