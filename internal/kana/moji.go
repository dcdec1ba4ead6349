package kana

import (
	"fmt"
	"strings"

	"kanafe/internal/types"
)

// Moji is one indivisible kana unit with a rendering per script.
// FirstRomaji is the leading romaji letter that produced the unit; it
// is empty for symbol mappings, which can never start okurigana.
type Moji struct {
	Hiragana    string
	Katakana    string
	Hankaku     string
	FirstRomaji string
}

// Render returns the unit in the script selected by mode. Only kana
// modes have a defined rendering; asking for eisu or direct cannot be
// reached through valid key sequences.
func (m Moji) Render(mode types.InputMode) string {
	switch mode {
	case types.ModeHiragana:
		return m.Hiragana
	case types.ModeKatakana:
		return m.Katakana
	case types.ModeHankaku:
		return m.Hankaku
	default:
		panic(fmt.Sprintf("kana: no %s rendering for %q", mode, m.Hiragana))
	}
}

// Render joins a sequence of units in the script selected by mode.
func Render(seq []Moji, mode types.InputMode) string {
	var b strings.Builder
	for _, m := range seq {
		b.WriteString(m.Render(mode))
	}
	return b.String()
}

// FullWidth converts printable ASCII to its full-width form, mapping
// the space to the ideographic space. Other runes pass through.
func FullWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteRune('　')
		case r > 0x20 && r < 0x7f:
			b.WriteRune(r - 0x20 + 0xff00)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
