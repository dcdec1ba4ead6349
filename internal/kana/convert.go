package kana

// Convert incrementally maps a romaji buffer to kana. It either
// commits the longest matching prefix as one unit and returns the
// leftover buffer, or reports the whole buffer as still pending.
// Invalid sequences are never an error; they stay pending until the
// caller replaces or drops them.
//
// A trailing bare "n" is never committed speculatively, because "n" is
// a valid prefix of "na", "ni" and friends. It resolves only through
// SealN or a following consonant that cannot continue it. A doubled
// consonant commits the sokuon and keeps the second consonant pending,
// so "tta" chains into っ plus た.
func Convert(buffer string) (*Moji, string) {
	if buffer == "" {
		return nil, ""
	}
	for l := len(buffer); l >= 1; l-- {
		if m, ok := table[buffer[:l]]; ok {
			return &m, buffer[l:]
		}
	}
	if len(buffer) >= 2 {
		c := buffer[0]
		if c == buffer[1] && isRomajiLetter(c) && !isNContinuation(c) && c != 'n' {
			m := sokuon
			m.FirstRomaji = string(c)
			return &m, buffer[1:]
		}
		if c == 'n' && !isNContinuation(buffer[1]) && buffer[1] != 'y' && buffer[1] != 'n' && buffer[1] != '\'' {
			m := hatsuon
			return &m, buffer[1:]
		}
	}
	return nil, buffer
}

// SealN forces a pending lone "n" to ん at an external boundary
// (Enter, ctrl-J, a script switch). Any other buffer is untouched.
func SealN(buffer string) (*Moji, string) {
	if buffer == "n" {
		m := hatsuon
		return &m, ""
	}
	return nil, buffer
}

func isNContinuation(c byte) bool {
	switch c {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	default:
		return false
	}
}

// String converts a whole romaji string to hiragana, carrying the
// pending buffer across characters the same way the engine does.
// Characters that never become kana are passed through unchanged.
func String(romaji string) string {
	var out, buf string
	flush := func() {
		for {
			m, rem := Convert(buf)
			if m == nil {
				buf = rem
				return
			}
			out += m.Hiragana
			buf = rem
		}
	}
	for _, r := range lowercaseASCII(romaji) {
		buf += string(r)
		flush()
		if buf != "" && !isPrefix(buf) {
			// cannot extend into a unit; a later character may
			// still resolve it (sokuon, hatsuon), otherwise it
			// surfaces as-is
			if m, rem := Convert(buf); m != nil {
				out += m.Hiragana
				buf = rem
			} else if len(buf) > 1 {
				out += buf[:len(buf)-1]
				buf = buf[len(buf)-1:]
			}
		}
	}
	if m, rem := SealN(buf); m != nil {
		out += m.Hiragana
		buf = rem
	}
	return out + buf
}
