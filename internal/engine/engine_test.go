package engine

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanafe/internal/dict"
	"kanafe/internal/types"
)

// recorder captures the engine's ordered output event stream.
type recorder struct {
	sequence []string
}

func (r *recorder) FixedText(text string) {
	r.sequence = append(r.sequence, "fixed:"+text)
}

func (r *recorder) MarkedText(text string) {
	r.sequence = append(r.sequence, "marked:"+text)
}

func (r *recorder) ModeChanged(mode types.InputMode) {
	r.sequence = append(r.sequence, "mode:"+mode.String())
}

func (r *recorder) fixed() string {
	var b strings.Builder
	for _, ev := range r.sequence {
		if rest, ok := strings.CutPrefix(ev, "fixed:"); ok {
			b.WriteString(rest)
		}
	}
	return b.String()
}

func (r *recorder) lastMarked() string {
	last := ""
	for _, ev := range r.sequence {
		if rest, ok := strings.CutPrefix(ev, "marked:"); ok {
			last = rest
		}
	}
	return last
}

func (r *recorder) reset() {
	r.sequence = nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine seeds a user dictionary so that Refer returns words in
// the listed order.
func newTestEngine(t *testing.T, entries map[string][]dict.Word) (*Engine, *dict.UserDict, *recorder) {
	t.Helper()
	user := dict.NewUserDict()
	for yomi, words := range entries {
		for i := len(words) - 1; i >= 0; i-- {
			user.Add(yomi, words[i])
		}
	}
	out := &recorder{}
	eng := New(types.ModeHiragana, dict.NewMultiDict(user), out, discardLogger())
	return eng, user, out
}

func typeString(e *Engine, s string) {
	for _, r := range s {
		e.Handle(types.Printable(string(r), unicode.IsUpper(r)))
	}
}

func press(e *Engine, kinds ...types.KeyKind) {
	for _, k := range kinds {
		e.Handle(types.Key(k))
	}
}

func composing(t *testing.T, e *Engine) ComposingState {
	t.Helper()
	c, ok := e.method.(ComposingState)
	require.True(t, ok, "expected composing state, got %T", e.method)
	return c
}

func selecting(t *testing.T, e *Engine) SelectingState {
	t.Helper()
	s, ok := e.method.(SelectingState)
	require.True(t, ok, "expected selecting state, got %T", e.method)
	return s
}

func requireNormal(t *testing.T, e *Engine) {
	t.Helper()
	_, ok := e.method.(normal)
	require.True(t, ok, "expected normal state, got %T", e.method)
}

func TestLowercaseLetterCommitsImmediately(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "ka")
	assert.Equal(t, "か", out.fixed())
	requireNormal(t, eng)
}

func TestUppercaseStartsMarkedComposition(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ka")
	assert.Empty(t, out.fixed())
	assert.Equal(t, "▽か", out.lastMarked())
	c := composing(t, eng)
	assert.True(t, c.Shift)
	require.Len(t, c.Text, 1)
}

func TestStickyShiftStartsComposition(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	press(eng, types.KeyStickyShift)
	c := composing(t, eng)
	assert.True(t, c.Shift)
	typeString(eng, "ka")
	assert.Equal(t, "▽か", out.lastMarked())
	assert.Empty(t, out.fixed())
}

func TestComposingEnterCommitsAndSealsN(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Nihon")
	assert.Equal(t, "▽にほn", out.lastMarked())
	press(eng, types.KeyEnter)
	assert.Equal(t, "にほん", out.fixed())
	assert.Equal(t, "", out.lastMarked())
	requireNormal(t, eng)
}

func TestLoneNPendingUntilForced(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "n")
	assert.Empty(t, out.fixed())
	assert.Equal(t, "▽n", out.lastMarked())
	press(eng, types.KeyEnter)
	assert.Equal(t, "ん", out.fixed())
	requireNormal(t, eng)
}

func TestSokuonChainsIntoStem(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Tta")
	c := composing(t, eng)
	require.Len(t, c.Text, 2)
	assert.Equal(t, "っ", c.Text[0].Hiragana)
	assert.Equal(t, "た", c.Text[1].Hiragana)
	assert.Equal(t, "▽った", out.lastMarked())
}

func TestUnmarkedSokuonCommitsAndReseeds(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "tta")
	assert.Equal(t, "った", out.fixed())
	requireNormal(t, eng)
}

func TestModeCycleQ(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "q")
	assert.Equal(t, types.ModeKatakana, eng.Mode())
	assert.Contains(t, out.sequence, "mode:katakana")
	typeString(eng, "ka")
	assert.Equal(t, "カ", out.fixed())
	typeString(eng, "q")
	assert.Equal(t, types.ModeHiragana, eng.Mode())
}

func TestModeSwitchLAndShiftL(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "L")
	assert.Equal(t, types.ModeEisu, eng.Mode())
	typeString(eng, "a1")
	assert.Equal(t, "ａ１", out.fixed())
	press(eng, types.KeySpace)
	assert.Equal(t, "ａ１　", out.fixed())
	press(eng, types.KeyStickyShift)
	assert.Equal(t, "ａ１　；", out.fixed())

	press(eng, types.KeyCtrlJ)
	assert.Equal(t, types.ModeHiragana, eng.Mode())
	out.reset()
	typeString(eng, "l")
	assert.Equal(t, types.ModeDirect, eng.Mode())
	typeString(eng, "Kq")
	assert.Equal(t, "Kq", out.fixed())
	assert.False(t, eng.Handle(types.Key(types.KeyStickyShift)))
}

func TestDirectModeWithoutLiteralIsUnhandled(t *testing.T) {
	eng, _, _ := newTestEngine(t, nil)
	typeString(eng, "l")
	assert.False(t, eng.Handle(types.Printable("", false)))
}

func TestCtrlQToggleHankaku(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	press(eng, types.KeyCtrlQ)
	assert.Equal(t, types.ModeHankaku, eng.Mode())
	typeString(eng, "ka")
	assert.Equal(t, "ｶ", out.fixed())
	press(eng, types.KeyCtrlQ)
	assert.Equal(t, types.ModeHiragana, eng.Mode())

	typeString(eng, "L")
	assert.False(t, eng.Handle(types.Key(types.KeyCtrlQ)))
}

func TestComposingCtrlQCommitsHankaku(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ka")
	press(eng, types.KeyCtrlQ)
	assert.Equal(t, "ｶ", out.fixed())
	requireNormal(t, eng)
	assert.Equal(t, types.ModeHiragana, eng.Mode())
}

func TestComposingCtrlQInertWithOkuri(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "OkuR")
	require.NotNil(t, composing(t, eng).Okuri)
	assert.True(t, eng.Handle(types.Key(types.KeyCtrlQ)))
	require.NotNil(t, composing(t, eng).Okuri)
	assert.Empty(t, out.fixed())
}

func TestConversionFlow(t *testing.T) {
	eng, user, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", ""), dict.NewWord("新", "あたらしい")},
	})
	typeString(eng, "Ara")
	assert.Equal(t, "▽あら", out.lastMarked())

	press(eng, types.KeySpace)
	s := selecting(t, eng)
	assert.Equal(t, "あら", s.Yomi)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, "▼荒", out.lastMarked())

	press(eng, types.KeySpace)
	assert.Equal(t, 1, selecting(t, eng).Index)
	assert.Equal(t, "▼新", out.lastMarked())

	press(eng, types.KeyBackspace)
	assert.Equal(t, 0, selecting(t, eng).Index)
	assert.Equal(t, "▼荒", out.lastMarked())

	press(eng, types.KeySpace, types.KeyEnter)
	assert.Equal(t, "新", out.fixed())
	requireNormal(t, eng)

	// the committed word is promoted to MRU front
	got := user.Refer("あら")
	require.Len(t, got, 2)
	assert.Equal(t, "新", got[0].Surface)
}

func TestSelectingBackspaceAtFirstRestoresComposing(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	snapshot := selecting(t, eng).Prev

	press(eng, types.KeyBackspace)
	require.Equal(t, snapshot, composing(t, eng))
	assert.Equal(t, "▽あら", out.lastMarked())
}

func TestSelectingCancelRestoresSnapshot(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", ""), dict.NewWord("新", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace, types.KeySpace)
	snapshot := selecting(t, eng).Prev

	press(eng, types.KeyCancel)
	require.Equal(t, snapshot, composing(t, eng))
	assert.Equal(t, "▽あら", out.lastMarked())
	assert.Empty(t, out.fixed())
}

func TestSelectingArrowsAreInert(t *testing.T) {
	eng, _, _ := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	assert.True(t, eng.Handle(types.Key(types.KeyLeft)))
	assert.True(t, eng.Handle(types.Key(types.KeyRight)))
	assert.Equal(t, 0, selecting(t, eng).Index)
}

func TestSelectingPrintableCommitsAndRedispatches(t *testing.T) {
	eng, user, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	typeString(eng, "K")

	assert.Equal(t, "荒", out.fixed())
	c := composing(t, eng)
	assert.True(t, c.Shift)
	assert.Equal(t, "k", c.Romaji)
	assert.Equal(t, "荒", user.Refer("あら")[0].Surface)
}

func TestSelectingCtrlJCommitsAndSwitchesMode(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", "")},
	})
	typeString(eng, "q")
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	press(eng, types.KeyCtrlJ)
	assert.Equal(t, "荒", out.fixed())
	assert.Equal(t, types.ModeHiragana, eng.Mode())
	requireNormal(t, eng)
}

func TestOkuriganaConversion(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"おくr": {dict.NewWord("送", "")},
	})
	typeString(eng, "Oku")
	assert.Equal(t, "▽おく", out.lastMarked())
	typeString(eng, "R")
	c := composing(t, eng)
	require.NotNil(t, c.Okuri)
	assert.Equal(t, "r", c.Romaji)
	assert.Equal(t, "▽おく*r", out.lastMarked())

	typeString(eng, "i")
	s := selecting(t, eng)
	assert.Equal(t, "おくr", s.Yomi)
	assert.Equal(t, "▼送り", out.lastMarked())

	press(eng, types.KeyEnter)
	assert.Equal(t, "送り", out.fixed())
	requireNormal(t, eng)
}

func TestOkuriganaSokuonReading(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"あt": {dict.NewWord("会", "")},
	})
	typeString(eng, "A")
	typeString(eng, "Tta")
	assert.Equal(t, "▼会った", out.lastMarked())
	assert.Equal(t, "あt", selecting(t, eng).Yomi)
}

func TestComposingBackspacePriority(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "OkuR")
	assert.Equal(t, "▽おく*r", out.lastMarked())

	press(eng, types.KeyBackspace)
	assert.Equal(t, "▽おく*", out.lastMarked())
	require.NotNil(t, composing(t, eng).Okuri)

	press(eng, types.KeyBackspace)
	assert.Equal(t, "▽おく", out.lastMarked())
	require.Nil(t, composing(t, eng).Okuri)

	press(eng, types.KeyBackspace)
	assert.Equal(t, "▽お", out.lastMarked())

	press(eng, types.KeyBackspace)
	assert.Equal(t, "", out.lastMarked())
	requireNormal(t, eng)
}

func TestComposingCancelClearsRomajiFirst(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Kak")
	press(eng, types.KeyCancel)
	c := composing(t, eng)
	assert.Empty(t, c.Romaji)
	assert.Equal(t, "▽か", out.lastMarked())

	press(eng, types.KeyCancel)
	requireNormal(t, eng)
	assert.Equal(t, "", out.lastMarked())
}

func TestComposingCursorEditing(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ai")
	press(eng, types.KeyLeft)
	typeString(eng, "u")
	assert.Equal(t, "▽あうい", out.lastMarked())

	press(eng, types.KeyBackspace)
	assert.Equal(t, "▽あい", out.lastMarked())
}

func TestComposingArrowsDiscardPendingRomaji(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ak")
	press(eng, types.KeyLeft)
	assert.Empty(t, composing(t, eng).Romaji)
	assert.Equal(t, "▽あ", out.lastMarked())
}

func TestShiftQPassthrough(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "A")
	typeString(eng, "Q")
	assert.Equal(t, "あ", out.fixed())
	c := composing(t, eng)
	assert.True(t, c.Shift)
	assert.Empty(t, c.Text)
	assert.Equal(t, "▽", out.lastMarked())
}

func TestComposingQCommitsToggledScript(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ka")
	typeString(eng, "q")
	assert.Equal(t, "カ", out.fixed())
	requireNormal(t, eng)
	assert.Equal(t, types.ModeHiragana, eng.Mode())
}

func TestComposingLCommitsThenSwitches(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ka")
	typeString(eng, "l")
	assert.Equal(t, "か", out.fixed())
	assert.Equal(t, types.ModeDirect, eng.Mode())
	requireNormal(t, eng)
}

func TestComposingCtrlJCommitsAndForcesHiragana(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "q")
	typeString(eng, "Kan")
	press(eng, types.KeyCtrlJ)
	assert.Equal(t, "カン", out.fixed())
	assert.Equal(t, types.ModeHiragana, eng.Mode())
	requireNormal(t, eng)
}

func TestStickyShiftOpensOkuri(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Ka")
	press(eng, types.KeyStickyShift)
	require.NotNil(t, composing(t, eng).Okuri)
	assert.Equal(t, "▽か*", out.lastMarked())
}

func TestStickyShiftOnEmptyStemEmitsSemicolon(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	press(eng, types.KeyStickyShift, types.KeyStickyShift)
	assert.Equal(t, "；", out.fixed())
	requireNormal(t, eng)
}

func TestNoCandidatesOpensRegistration(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "q")
	out.reset()
	typeString(eng, "Ka")
	press(eng, types.KeySpace)

	require.NotNil(t, eng.register)
	assert.Equal(t, "か", eng.register.Yomi)
	assert.Equal(t, types.ModeKatakana, eng.register.PrevMode)
	assert.Equal(t, types.ModeHiragana, eng.Mode())
	requireNormal(t, eng)
	assert.Equal(t, "[登録：か]", out.lastMarked())

	// the mode switch is announced before the marked text follows it
	modeAt, markedAt := -1, -1
	for i, ev := range out.sequence {
		if ev == "mode:hiragana" && modeAt < 0 {
			modeAt = i
		}
		if ev == "marked:[登録：か]" {
			markedAt = i
		}
	}
	require.GreaterOrEqual(t, modeAt, 0)
	assert.Greater(t, markedAt, modeAt)
}

func TestRegistrationCapturesTypedText(t *testing.T) {
	eng, user, out := newTestEngine(t, nil)
	typeString(eng, "Kawa")
	press(eng, types.KeySpace)
	require.NotNil(t, eng.register)

	typeString(eng, "ka")
	assert.Empty(t, out.fixed())
	assert.Equal(t, "[登録：かわ]か", out.lastMarked())

	press(eng, types.KeyEnter)
	assert.Nil(t, eng.register)
	assert.Equal(t, "か", out.fixed())
	assert.Equal(t, "", out.lastMarked())
	got := user.Refer("かわ")
	require.Len(t, got, 1)
	assert.Equal(t, "か", got[0].Surface)
}

func TestRegistrationBackspaceAndArrows(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "Kawa")
	press(eng, types.KeySpace)
	typeString(eng, "kaki")
	assert.Equal(t, "[登録：かわ]かき", out.lastMarked())

	press(eng, types.KeyBackspace)
	assert.Equal(t, "[登録：かわ]か", out.lastMarked())

	assert.True(t, eng.Handle(types.Key(types.KeyLeft)))
	assert.True(t, eng.Handle(types.Key(types.KeyRight)))
}

func TestRegistrationEnterWithEmptyTextIsInert(t *testing.T) {
	eng, user, _ := newTestEngine(t, nil)
	typeString(eng, "Kawa")
	press(eng, types.KeySpace)
	assert.True(t, eng.Handle(types.Key(types.KeyEnter)))
	require.NotNil(t, eng.register)
	assert.Empty(t, user.Refer("かわ"))
}

func TestRegistrationCancelRestoresSnapshot(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "q")
	typeString(eng, "Kawa")
	snapshot := composing(t, eng)
	press(eng, types.KeySpace)
	require.NotNil(t, eng.register)

	press(eng, types.KeyCancel)
	assert.Nil(t, eng.register)
	assert.Equal(t, types.ModeKatakana, eng.Mode())
	require.Equal(t, snapshot, composing(t, eng))
	assert.Equal(t, "▽カワ", out.lastMarked())
}

func TestConversionWhileRegisteringAbandonsOnMiss(t *testing.T) {
	eng, _, _ := newTestEngine(t, nil)
	typeString(eng, "Kawa")
	press(eng, types.KeySpace)
	require.NotNil(t, eng.register)

	typeString(eng, "Mi")
	press(eng, types.KeySpace)
	requireNormal(t, eng)
	require.NotNil(t, eng.register)
}

func TestSelectionExhaustionOpensRegistration(t *testing.T) {
	eng, _, out := newTestEngine(t, map[string][]dict.Word{
		"あら": {dict.NewWord("荒", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	press(eng, types.KeySpace)

	require.NotNil(t, eng.register)
	assert.Equal(t, "あら", eng.register.Yomi)
	requireNormal(t, eng)
	assert.Equal(t, "[登録：あら]", out.lastMarked())
}

func TestSelectionExhaustionWhileRegisteringReturnsToNormal(t *testing.T) {
	eng, _, _ := newTestEngine(t, map[string][]dict.Word{
		"かわ": {dict.NewWord("川", "")},
	})
	typeString(eng, "Ara")
	press(eng, types.KeySpace)
	require.NotNil(t, eng.register)

	typeString(eng, "Kawa")
	press(eng, types.KeySpace)
	press(eng, types.KeySpace)
	requireNormal(t, eng)
	require.NotNil(t, eng.register)
}

func TestShouldConsumeUnhandled(t *testing.T) {
	eng, _, _ := newTestEngine(t, nil)
	assert.False(t, eng.ShouldConsumeUnhandled())

	typeString(eng, "Ka")
	assert.True(t, eng.ShouldConsumeUnhandled())

	press(eng, types.KeySpace)
	assert.True(t, eng.ShouldConsumeUnhandled(), "registration overlay active")

	press(eng, types.KeyCancel)
	assert.True(t, eng.ShouldConsumeUnhandled(), "back to composing")

	press(eng, types.KeyCancel)
	requireNormal(t, eng)
	assert.False(t, eng.ShouldConsumeUnhandled())
}

func TestNormalUnhandledKeys(t *testing.T) {
	eng, _, _ := newTestEngine(t, nil)
	assert.False(t, eng.Handle(types.Key(types.KeyEnter)))
	assert.False(t, eng.Handle(types.Key(types.KeyBackspace)))
	assert.False(t, eng.Handle(types.Key(types.KeyCancel)))
	assert.False(t, eng.Handle(types.Key(types.KeyLeft)))
	assert.False(t, eng.Handle(types.Key(types.KeyRight)))
}

func TestNormalSpaceIsModeDependent(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	press(eng, types.KeySpace)
	assert.Equal(t, " ", out.fixed())

	out.reset()
	typeString(eng, "L")
	press(eng, types.KeySpace)
	assert.Equal(t, "　", out.fixed())
}

func TestNormalSymbolsUseConversionTable(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "-")
	typeString(eng, ".")
	typeString(eng, "@")
	assert.Equal(t, "ー。@", out.fixed())
}

func TestCtrlJInNormalForcesHiragana(t *testing.T) {
	eng, _, out := newTestEngine(t, nil)
	typeString(eng, "q")
	press(eng, types.KeyCtrlJ)
	assert.Equal(t, types.ModeHiragana, eng.Mode())
	assert.Contains(t, out.sequence, "mode:hiragana")
}
