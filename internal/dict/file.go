package dict

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileDict is a read-only dictionary loaded from an SKK jisyo file:
// one "yomi /candidate/candidate;annotation/" line per reading, ";;"
// comment lines skipped. Files are expected in UTF-8; encoding
// detection is the loader host's problem, not ours.
type FileDict struct {
	path    string
	entries map[string][]Word
}

func LoadFileDict(path string) (*FileDict, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer file.Close()

	dict := &FileDict{path: path, entries: make(map[string][]Word)}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		yomi, words, ok := parseEntryLine(scanner.Text())
		if !ok {
			continue
		}
		dict.entries[yomi] = append(dict.entries[yomi], words...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return dict, nil
}

func (d *FileDict) Path() string { return d.path }

func (d *FileDict) Refer(yomi string) []Word {
	words := d.entries[yomi]
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// Add is a no-op: file-backed dictionaries are immutable sources.
func (d *FileDict) Add(yomi string, word Word) {}

// Delete always reports false: entries cannot be removed from
// file-backed dictionaries.
func (d *FileDict) Delete(yomi string, word Word) bool { return false }

var _ Dictionary = (*FileDict)(nil)

func parseEntryLine(line string) (string, []Word, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ";;") {
		return "", nil, false
	}
	sep := strings.Index(line, " /")
	if sep < 0 || !strings.HasSuffix(line, "/") {
		return "", nil, false
	}
	yomi := strings.TrimSpace(line[:sep])
	if yomi == "" {
		return "", nil, false
	}
	var words []Word
	for _, field := range strings.Split(line[sep+2:len(line)-1], "/") {
		if field == "" {
			continue
		}
		surface, annotation := field, ""
		if i := strings.Index(field, ";"); i >= 0 {
			surface, annotation = field[:i], field[i+1:]
		}
		if surface == "" {
			continue
		}
		words = append(words, Word{Surface: surface, Annotation: annotation})
	}
	if len(words) == 0 {
		return "", nil, false
	}
	return yomi, words, true
}

func formatEntryLine(yomi string, words []Word) string {
	var b strings.Builder
	b.WriteString(yomi)
	b.WriteString(" /")
	for _, w := range words {
		b.WriteString(w.Surface)
		if w.Annotation != "" {
			b.WriteString(";")
			b.WriteString(w.Annotation)
		}
		b.WriteString("/")
	}
	return b.String()
}

// Save writes the user dictionary in the same jisyo line format so a
// later LoadUser round-trips the MRU order.
func (d *UserDict) Save(path string) error {
	d.mu.RLock()
	yomis := make([]string, 0, len(d.entries))
	for yomi := range d.entries {
		yomis = append(yomis, yomi)
	}
	sort.Strings(yomis)
	lines := make([]string, 0, len(yomis))
	for _, yomi := range yomis {
		lines = append(lines, formatEntryLine(yomi, d.entries[yomi]))
	}
	d.mu.RUnlock()

	var b strings.Builder
	b.WriteString(";; kanafe user dictionary\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write user dictionary %s: %w", path, err)
	}
	return nil
}

// LoadUser reads a previously saved user dictionary. A missing file is
// an empty dictionary, not an error.
func LoadUser(path string) (*UserDict, error) {
	dict := NewUserDict()
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dict, nil
		}
		return nil, fmt.Errorf("open user dictionary %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		yomi, words, ok := parseEntryLine(scanner.Text())
		if !ok {
			continue
		}
		dict.entries[yomi] = append(dict.entries[yomi], words...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read user dictionary %s: %w", path, err)
	}
	return dict, nil
}
