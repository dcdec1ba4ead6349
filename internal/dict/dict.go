package dict

import "sync"

// Dictionary is the lookup capability the engine consumes. Refer
// returns candidates for a reading in precedence order; Add inserts or
// promotes a word in the user dictionary; Delete removes one user
// dictionary entry and reports whether anything was removed.
//
// Implementations must tolerate concurrent access from independent
// engine instances.
type Dictionary interface {
	Refer(yomi string) []Word
	Add(yomi string, word Word)
	Delete(yomi string, word Word) bool
}

// UserDict holds user-registered words in most-recently-used order per
// reading.
type UserDict struct {
	mu      sync.RWMutex
	entries map[string][]Word
}

func NewUserDict() *UserDict {
	return &UserDict{entries: make(map[string][]Word)}
}

func (d *UserDict) Refer(yomi string) []Word {
	d.mu.RLock()
	defer d.mu.RUnlock()
	words := d.entries[yomi]
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// Add puts word at the front of the entry list for yomi. An already
// present word moves, it is never duplicated.
func (d *UserDict) Add(yomi string, word Word) {
	d.mu.Lock()
	defer d.mu.Unlock()
	words := d.entries[yomi]
	out := make([]Word, 0, len(words)+1)
	out = append(out, word)
	for _, w := range words {
		if w != word {
			out = append(out, w)
		}
	}
	d.entries[yomi] = out
}

func (d *UserDict) Delete(yomi string, word Word) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	words := d.entries[yomi]
	for i, w := range words {
		if w == word {
			d.entries[yomi] = append(append([]Word{}, words[:i]...), words[i+1:]...)
			if len(d.entries[yomi]) == 0 {
				delete(d.entries, yomi)
			}
			return true
		}
	}
	return false
}

var _ Dictionary = (*UserDict)(nil)
