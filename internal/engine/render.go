package engine

import (
	"strings"

	"kanafe/internal/kana"
)

// renderMarked computes the single replace-whole-preedit string as a
// pure function of (mode, method, register). An unconverted stem gets
// the tentative marker, a candidate under selection the selection
// marker, and an active registration wraps the display in its
// bracketed reading annotation.
func (e *Engine) renderMarked() string {
	var b strings.Builder
	if e.register != nil {
		b.WriteString("[登録：")
		b.WriteString(e.register.Yomi)
		b.WriteString("]")
		b.WriteString(string(e.register.Text))
	}
	switch m := e.method.(type) {
	case normal:
	case ComposingState:
		b.WriteString("▽")
		b.WriteString(kana.Render(m.Text, e.mode))
		if m.Okuri != nil {
			b.WriteString("*")
			b.WriteString(kana.Render(m.Okuri, e.mode))
		}
		b.WriteString(m.Romaji)
	case SelectingState:
		b.WriteString("▼")
		b.WriteString(m.Candidates[m.Index].Surface)
		b.WriteString(kana.Render(m.Prev.Okuri, e.mode))
	}
	return b.String()
}
