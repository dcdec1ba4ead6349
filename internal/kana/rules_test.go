package kana

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndApplyRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	body := `[
  {"romaji": "thi", "hiragana": "てぃ", "katakana": "ティ", "hankaku": "ﾃｨ"},
  {"romaji": "wi", "hiragana": "うぃ"}
]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if err := ApplyRules(rules); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	m, rem := Convert("thi")
	if m == nil || rem != "" {
		t.Fatalf("thi did not convert: %v %q", m, rem)
	}
	if m.Hiragana != "てぃ" || m.Katakana != "ティ" || m.FirstRomaji != "t" {
		t.Fatalf("unexpected moji %+v", m)
	}

	// missing scripts fall back to the hiragana rendering
	m, _ = Convert("wi")
	if m == nil || m.Katakana != "うぃ" || m.Hankaku != "うぃ" {
		t.Fatalf("unexpected fallback moji %+v", m)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestApplyRulesRejectsBadRules(t *testing.T) {
	bad := [][]Rule{
		{{Romaji: "", Hiragana: "あ"}},
		{{Romaji: "n", Hiragana: "ん"}},
		{{Romaji: "ka", Hiragana: ""}},
		{{Romaji: "かka", Hiragana: "か"}},
	}
	for i, rules := range bad {
		if err := ApplyRules(rules); err == nil {
			t.Fatalf("rule set %d unexpectedly accepted", i)
		}
	}
}
