package types

// KeyKind is the closed set of key events the host translates raw
// keyboard input into before handing it to the engine.
type KeyKind int

const (
	KeyEnter KeyKind = iota
	KeyBackspace
	KeySpace
	KeyStickyShift
	KeyPrintable
	KeyCtrlJ
	KeyCtrlQ
	KeyCancel
	KeyLeft
	KeyRight
)

func (k KeyKind) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeySpace:
		return "space"
	case KeyStickyShift:
		return "stickyShift"
	case KeyPrintable:
		return "printable"
	case KeyCtrlJ:
		return "ctrlJ"
	case KeyCtrlQ:
		return "ctrlQ"
	case KeyCancel:
		return "cancel"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "unknown"
	}
}

// KeyEvent is one translated key press. Text carries the literal
// character(s) the host would otherwise insert and is only meaningful
// for KeyPrintable. Shift reports whether shift was held.
type KeyEvent struct {
	Kind  KeyKind
	Text  string
	Shift bool
}

func Printable(text string, shift bool) KeyEvent {
	return KeyEvent{Kind: KeyPrintable, Text: text, Shift: shift}
}

func Key(kind KeyKind) KeyEvent {
	return KeyEvent{Kind: kind}
}
