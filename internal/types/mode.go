package types

type InputMode int

const (
	ModeHiragana InputMode = iota
	ModeKatakana
	ModeHankaku
	ModeEisu
	ModeDirect
)

func (m InputMode) String() string {
	switch m {
	case ModeHiragana:
		return "hiragana"
	case ModeKatakana:
		return "katakana"
	case ModeHankaku:
		return "hankaku"
	case ModeEisu:
		return "eisu"
	case ModeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Kana reports whether the mode renders composed kana units
// (as opposed to passing Latin characters through).
func (m InputMode) Kana() bool {
	switch m {
	case ModeHiragana, ModeKatakana, ModeHankaku:
		return true
	default:
		return false
	}
}

func ParseInputMode(name string) (InputMode, bool) {
	switch name {
	case "hiragana":
		return ModeHiragana, true
	case "katakana":
		return ModeKatakana, true
	case "hankaku":
		return ModeHankaku, true
	case "eisu":
		return ModeEisu, true
	case "direct":
		return ModeDirect, true
	default:
		return ModeHiragana, false
	}
}
