package dict

// MultiDict merges a user dictionary with file dictionaries in
// configured order. Refer returns user entries first (MRU order), then
// each file source in turn, deduplicated by surface+annotation. Add
// and Delete touch the user dictionary only, so a word deleted there
// may still be offered by a lower-precedence source.
type MultiDict struct {
	user  *UserDict
	files []*FileDict
}

func NewMultiDict(user *UserDict, files ...*FileDict) *MultiDict {
	if user == nil {
		user = NewUserDict()
	}
	return &MultiDict{user: user, files: files}
}

func (d *MultiDict) User() *UserDict { return d.user }

func (d *MultiDict) Refer(yomi string) []Word {
	var out []Word
	seen := make(map[Word]struct{})
	appendWords := func(words []Word) {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	appendWords(d.user.Refer(yomi))
	for _, f := range d.files {
		appendWords(f.Refer(yomi))
	}
	return out
}

func (d *MultiDict) Add(yomi string, word Word) {
	d.user.Add(yomi, word)
}

func (d *MultiDict) Delete(yomi string, word Word) bool {
	return d.user.Delete(yomi, word)
}

var _ Dictionary = (*MultiDict)(nil)
