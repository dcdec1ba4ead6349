package kana

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Rule is one user-defined conversion override. Empty Katakana or
// Hankaku fall back to the Hiragana rendering.
type Rule struct {
	Romaji   string `json:"romaji"`
	Hiragana string `json:"hiragana"`
	Katakana string `json:"katakana"`
	Hankaku  string `json:"hankaku"`
}

// LoadRules reads a JSON array of conversion rules.
func LoadRules(path string) ([]Rule, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open romaji rule file: %w", err)
	}
	defer file.Close()

	var rules []Rule
	if err := json.NewDecoder(file).Decode(&rules); err != nil {
		return nil, fmt.Errorf("parse romaji rule file: %w", err)
	}
	return rules, nil
}

// ApplyRules merges user rules into the conversion table. Call before
// any engine starts handling events; the table is not guarded.
func ApplyRules(rules []Rule) error {
	for _, r := range rules {
		romaji := strings.ToLower(strings.TrimSpace(r.Romaji))
		if romaji == "" {
			return fmt.Errorf("romaji rule with empty key")
		}
		// a bare "n" rule would commit eagerly and break the
		// trailing-n deferral
		if romaji == "n" {
			return fmt.Errorf("romaji rule %q conflicts with hatsuon handling", romaji)
		}
		for i := 0; i < len(romaji); i++ {
			if romaji[i] <= ' ' || romaji[i] > '~' {
				return fmt.Errorf("romaji rule %q contains non-ASCII key characters", r.Romaji)
			}
		}
		if r.Hiragana == "" {
			return fmt.Errorf("romaji rule %q has no hiragana rendering", r.Romaji)
		}

		m := Moji{Hiragana: r.Hiragana, Katakana: r.Katakana, Hankaku: r.Hankaku}
		if m.Katakana == "" {
			m.Katakana = m.Hiragana
		}
		if m.Hankaku == "" {
			m.Hankaku = m.Hiragana
		}
		if isRomajiLetter(romaji[0]) {
			m.FirstRomaji = string(romaji[0])
		}
		table[romaji] = m
		for i := 1; i < len(romaji); i++ {
			prefixes[romaji[:i]] = struct{}{}
		}
	}
	return nil
}
