package kana

import "strings"

type tableEntry struct {
	romaji   string
	hiragana string
	katakana string
	hankaku  string
}

// Conversion rules, one row per romaji spelling. Alternate spellings
// (si/shi, tu/tsu, ...) repeat the same kana triple.
var tableEntries = []tableEntry{
	{"a", "あ", "ア", "ｱ"},
	{"i", "い", "イ", "ｲ"},
	{"u", "う", "ウ", "ｳ"},
	{"e", "え", "エ", "ｴ"},
	{"o", "お", "オ", "ｵ"},

	{"ka", "か", "カ", "ｶ"},
	{"ki", "き", "キ", "ｷ"},
	{"ku", "く", "ク", "ｸ"},
	{"ke", "け", "ケ", "ｹ"},
	{"ko", "こ", "コ", "ｺ"},
	{"ga", "が", "ガ", "ｶﾞ"},
	{"gi", "ぎ", "ギ", "ｷﾞ"},
	{"gu", "ぐ", "グ", "ｸﾞ"},
	{"ge", "げ", "ゲ", "ｹﾞ"},
	{"go", "ご", "ゴ", "ｺﾞ"},

	{"sa", "さ", "サ", "ｻ"},
	{"si", "し", "シ", "ｼ"},
	{"shi", "し", "シ", "ｼ"},
	{"su", "す", "ス", "ｽ"},
	{"se", "せ", "セ", "ｾ"},
	{"so", "そ", "ソ", "ｿ"},
	{"za", "ざ", "ザ", "ｻﾞ"},
	{"zi", "じ", "ジ", "ｼﾞ"},
	{"ji", "じ", "ジ", "ｼﾞ"},
	{"zu", "ず", "ズ", "ｽﾞ"},
	{"ze", "ぜ", "ゼ", "ｾﾞ"},
	{"zo", "ぞ", "ゾ", "ｿﾞ"},

	{"ta", "た", "タ", "ﾀ"},
	{"ti", "ち", "チ", "ﾁ"},
	{"chi", "ち", "チ", "ﾁ"},
	{"tu", "つ", "ツ", "ﾂ"},
	{"tsu", "つ", "ツ", "ﾂ"},
	{"te", "て", "テ", "ﾃ"},
	{"to", "と", "ト", "ﾄ"},
	{"da", "だ", "ダ", "ﾀﾞ"},
	{"di", "ぢ", "ヂ", "ﾁﾞ"},
	{"du", "づ", "ヅ", "ﾂﾞ"},
	{"de", "で", "デ", "ﾃﾞ"},
	{"do", "ど", "ド", "ﾄﾞ"},

	{"na", "な", "ナ", "ﾅ"},
	{"ni", "に", "ニ", "ﾆ"},
	{"nu", "ぬ", "ヌ", "ﾇ"},
	{"ne", "ね", "ネ", "ﾈ"},
	{"no", "の", "ノ", "ﾉ"},

	{"ha", "は", "ハ", "ﾊ"},
	{"hi", "ひ", "ヒ", "ﾋ"},
	{"hu", "ふ", "フ", "ﾌ"},
	{"fu", "ふ", "フ", "ﾌ"},
	{"he", "へ", "ヘ", "ﾍ"},
	{"ho", "ほ", "ホ", "ﾎ"},
	{"ba", "ば", "バ", "ﾊﾞ"},
	{"bi", "び", "ビ", "ﾋﾞ"},
	{"bu", "ぶ", "ブ", "ﾌﾞ"},
	{"be", "べ", "ベ", "ﾍﾞ"},
	{"bo", "ぼ", "ボ", "ﾎﾞ"},
	{"pa", "ぱ", "パ", "ﾊﾟ"},
	{"pi", "ぴ", "ピ", "ﾋﾟ"},
	{"pu", "ぷ", "プ", "ﾌﾟ"},
	{"pe", "ぺ", "ペ", "ﾍﾟ"},
	{"po", "ぽ", "ポ", "ﾎﾟ"},

	{"ma", "ま", "マ", "ﾏ"},
	{"mi", "み", "ミ", "ﾐ"},
	{"mu", "む", "ム", "ﾑ"},
	{"me", "め", "メ", "ﾒ"},
	{"mo", "も", "モ", "ﾓ"},

	{"ya", "や", "ヤ", "ﾔ"},
	{"yu", "ゆ", "ユ", "ﾕ"},
	{"yo", "よ", "ヨ", "ﾖ"},

	{"ra", "ら", "ラ", "ﾗ"},
	{"ri", "り", "リ", "ﾘ"},
	{"ru", "る", "ル", "ﾙ"},
	{"re", "れ", "レ", "ﾚ"},
	{"ro", "ろ", "ロ", "ﾛ"},

	{"wa", "わ", "ワ", "ﾜ"},
	{"wo", "を", "ヲ", "ｦ"},

	{"nn", "ん", "ン", "ﾝ"},
	{"n'", "ん", "ン", "ﾝ"},

	{"kya", "きゃ", "キャ", "ｷｬ"},
	{"kyu", "きゅ", "キュ", "ｷｭ"},
	{"kyo", "きょ", "キョ", "ｷｮ"},
	{"gya", "ぎゃ", "ギャ", "ｷﾞｬ"},
	{"gyu", "ぎゅ", "ギュ", "ｷﾞｭ"},
	{"gyo", "ぎょ", "ギョ", "ｷﾞｮ"},
	{"sya", "しゃ", "シャ", "ｼｬ"},
	{"sha", "しゃ", "シャ", "ｼｬ"},
	{"syu", "しゅ", "シュ", "ｼｭ"},
	{"shu", "しゅ", "シュ", "ｼｭ"},
	{"syo", "しょ", "ショ", "ｼｮ"},
	{"sho", "しょ", "ショ", "ｼｮ"},
	{"zya", "じゃ", "ジャ", "ｼﾞｬ"},
	{"ja", "じゃ", "ジャ", "ｼﾞｬ"},
	{"zyu", "じゅ", "ジュ", "ｼﾞｭ"},
	{"ju", "じゅ", "ジュ", "ｼﾞｭ"},
	{"zyo", "じょ", "ジョ", "ｼﾞｮ"},
	{"jo", "じょ", "ジョ", "ｼﾞｮ"},
	{"tya", "ちゃ", "チャ", "ﾁｬ"},
	{"cha", "ちゃ", "チャ", "ﾁｬ"},
	{"tyu", "ちゅ", "チュ", "ﾁｭ"},
	{"chu", "ちゅ", "チュ", "ﾁｭ"},
	{"tyo", "ちょ", "チョ", "ﾁｮ"},
	{"cho", "ちょ", "チョ", "ﾁｮ"},
	{"nya", "にゃ", "ニャ", "ﾆｬ"},
	{"nyu", "にゅ", "ニュ", "ﾆｭ"},
	{"nyo", "にょ", "ニョ", "ﾆｮ"},
	{"hya", "ひゃ", "ヒャ", "ﾋｬ"},
	{"hyu", "ひゅ", "ヒュ", "ﾋｭ"},
	{"hyo", "ひょ", "ヒョ", "ﾋｮ"},
	{"bya", "びゃ", "ビャ", "ﾋﾞｬ"},
	{"byu", "びゅ", "ビュ", "ﾋﾞｭ"},
	{"byo", "びょ", "ビョ", "ﾋﾞｮ"},
	{"pya", "ぴゃ", "ピャ", "ﾋﾟｬ"},
	{"pyu", "ぴゅ", "ピュ", "ﾋﾟｭ"},
	{"pyo", "ぴょ", "ピョ", "ﾋﾟｮ"},
	{"mya", "みゃ", "ミャ", "ﾐｬ"},
	{"myu", "みゅ", "ミュ", "ﾐｭ"},
	{"myo", "みょ", "ミョ", "ﾐｮ"},
	{"rya", "りゃ", "リャ", "ﾘｬ"},
	{"ryu", "りゅ", "リュ", "ﾘｭ"},
	{"ryo", "りょ", "リョ", "ﾘｮ"},

	{"fa", "ふぁ", "ファ", "ﾌｧ"},
	{"fi", "ふぃ", "フィ", "ﾌｨ"},
	{"fe", "ふぇ", "フェ", "ﾌｪ"},
	{"fo", "ふぉ", "フォ", "ﾌｫ"},

	{"xa", "ぁ", "ァ", "ｧ"},
	{"xi", "ぃ", "ィ", "ｨ"},
	{"xu", "ぅ", "ゥ", "ｩ"},
	{"xe", "ぇ", "ェ", "ｪ"},
	{"xo", "ぉ", "ォ", "ｫ"},
	{"xya", "ゃ", "ャ", "ｬ"},
	{"xyu", "ゅ", "ュ", "ｭ"},
	{"xyo", "ょ", "ョ", "ｮ"},
	{"xtu", "っ", "ッ", "ｯ"},

	{"-", "ー", "ー", "ｰ"},
	{",", "、", "、", "､"},
	{".", "。", "。", "｡"},
	{";", "；", "；", ";"},
	{"[", "「", "「", "｢"},
	{"]", "」", "」", "｣"},
	{"?", "？", "？", "?"},
	{"!", "！", "！", "!"},
}

var (
	table    map[string]Moji
	prefixes map[string]struct{}
	sokuon   = Moji{Hiragana: "っ", Katakana: "ッ", Hankaku: "ｯ"}
	hatsuon  = Moji{Hiragana: "ん", Katakana: "ン", Hankaku: "ﾝ", FirstRomaji: "n"}
)

func init() {
	table = make(map[string]Moji, len(tableEntries))
	prefixes = make(map[string]struct{})
	for _, e := range tableEntries {
		m := Moji{Hiragana: e.hiragana, Katakana: e.katakana, Hankaku: e.hankaku}
		if c := e.romaji[0]; c >= 'a' && c <= 'z' {
			m.FirstRomaji = string(c)
		}
		table[e.romaji] = m
		for i := 1; i < len(e.romaji); i++ {
			prefixes[e.romaji[:i]] = struct{}{}
		}
	}
}

func isRomajiLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isPrefix(buffer string) bool {
	_, ok := prefixes[buffer]
	return ok
}

func lowercaseASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
