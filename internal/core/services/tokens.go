package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/rivo/uniseg"
)

// minWordRunes — рейтинг слов учитывает только слова длиннее трех букв.
const minWordRunes = 4

// tokenizeWords разбивает текст на слова по UAX#29, приводит к нижнему
// регистру и отфильтровывает все, кроме чисто буквенных токенов нужной
// длины. Диакритика сохраняется: "mañana" и "está" остаются буквенными.
func tokenizeWords(text string) []string {
	var out []string
	tokens := words.FromString(strings.ToLower(text))
	for tokens.Next() {
		w := cleanWord(tokens.Value())
		if utf8.RuneCountInString(w) >= minWordRunes && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// cleanWord убирает из токена все небуквенные руны.
func cleanWord(token string) string {
	var b strings.Builder
	for _, r := range token {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Диапазоны эмодзи: пиктограммы, смайлики, транспорт, флаги,
// дополнительные символы. Кластер считается эмодзи, если в нем есть
// хотя бы одна руна из таблицы — так "❤️" (сердце + вариационный
// селектор) и составные ZWJ-последовательности учитываются как один
// эмодзи.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1},
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1},
	},
}

// extractEmojis возвращает эмодзи текста как графемные кластеры в
// порядке появления.
func extractEmojis(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		for _, r := range gr.Runes() {
			if unicode.Is(emojiTable, r) {
				out = append(out, gr.Str())
				break
			}
		}
	}
	return out
}
