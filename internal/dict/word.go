package dict

// Word is one dictionary candidate: committed surface text plus an
// optional human-readable annotation. Equality is surface+annotation.
type Word struct {
	Surface    string
	Annotation string
}

func NewWord(surface, annotation string) Word {
	return Word{Surface: surface, Annotation: annotation}
}
