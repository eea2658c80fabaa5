package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-wrapped/internal/domain"
)

// fullStats заполняет каждую позицию формата хотя бы одним значением.
func fullStats() *domain.WrappedStats {
	return &domain.WrappedStats{
		Year:         2024,
		GroupName:    "Amigos 2024",
		Participants: []string{"Ana", "Beto", "Carlos"},
		Totals:       &domain.Totals{Messages: 1200, Words: 8400, Characters: 51000},
		TopSenders: []domain.SenderCount{
			{NameIndex: 0, Messages: 700},
			{NameIndex: 1, Messages: 400},
			{NameIndex: 2, Messages: 100},
		},
		TopDeleter: &domain.AuthorCount{NameIndex: 1, Count: 12},
		TopEditor:  &domain.AuthorCount{NameIndex: 0, Count: 5},
		MostFrequentMessages: []domain.FrequentMessage{
			{AuthorIndex: 0, Content: "jajaja", Count: 40},
			{AuthorIndex: 2, Content: "buenos días", Count: 15},
		},
		TopWords: []domain.WordCount{
			{Word: "vacaciones", Count: 33},
			{Word: "mañana", Count: 21},
		},
		TopEmojis: []domain.EmojiCount{
			{Emoji: "😂", Count: 90},
			{Emoji: "❤️", Count: 41},
		},
		MessagesPerMonth: map[int]int{1: 100, 6: 300, 12: 800},
		PeakActivityDay:  &domain.PeakDay{Date: "2024-12-24", Messages: 96},
		LongestActivity:  &domain.Streak{From: "2024-06-01", To: "2024-06-14", Days: 14},
		LongestSilence:   &domain.Streak{From: "2024-02-10", To: "2024-02-20", Days: 11},
		TopStickers: []domain.StickerCount{
			{Content: "STK-20240601.webp", Count: 25},
		},
		TopStickerSenders: []domain.StickerSender{
			{NameIndex: 0, Sticker: "STK-20240601.webp", Count: 18},
		},
		MostStickerSender:  &domain.AuthorCount{NameIndex: 0, Count: 60},
		MostImageSender:    &domain.AuthorCount{NameIndex: 1, Count: 44},
		MostVideoSender:    &domain.AuthorCount{NameIndex: 2, Count: 10},
		MostAudioSender:    &domain.AuthorCount{NameIndex: 0, Count: 7},
		MostDocumentSender: &domain.AuthorCount{NameIndex: 1, Count: 3},
		MostLocationSender: &domain.AuthorCount{NameIndex: 2, Count: 4},
		MostPollStarter:    &domain.AuthorCount{NameIndex: 0, Count: 3},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := fullStats()

	encoded, err := Encode(original)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeDecode_MinimalStats(t *testing.T) {
	// Почти пустая запись: все необязательные позиции должны выжить
	// как nil, а не превратиться в нулевые значения.
	original := &domain.WrappedStats{Year: 2023}

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Nil(t, decoded.Totals)
	assert.Nil(t, decoded.TopSenders)
	assert.Nil(t, decoded.MessagesPerMonth)
	assert.Nil(t, decoded.LongestActivity)
	assert.Nil(t, decoded.MostPollStarter)
}

func TestEncodeBytes_NilStats(t *testing.T) {
	_, err := EncodeBytes(nil)
	assert.Error(t, err)
}

func TestEncodeDecodeBytes_RoundTrip(t *testing.T) {
	original := fullStats()

	raw, err := EncodeBytes(original)
	require.NoError(t, err)

	decoded, err := DecodeBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncode_DictionaryDeduplicates(t *testing.T) {
	// Повторяющаяся строка не должна раздувать код: сравниваем размер
	// с записью, где все строки уникальны.
	repeated := &domain.WrappedStats{
		Year:         2024,
		Participants: []string{"Ana"},
		TopWords: []domain.WordCount{
			{Word: "ana", Count: 1},
		},
		TopStickers: []domain.StickerCount{
			{Content: "Ana", Count: 5},
		},
	}
	raw, err := EncodeBytes(repeated)
	require.NoError(t, err)

	decoded, err := DecodeBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, repeated, decoded)
}

func TestEncode_PeakDayOutsideYear(t *testing.T) {
	stats := &domain.WrappedStats{
		Year:            2024,
		PeakActivityDay: &domain.PeakDay{Date: "2023-12-24", Messages: 10},
	}
	_, err := Encode(stats)
	assert.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("Чужой алфавит", func(t *testing.T) {
		_, err := Decode("не base62 вовсе")
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "base62", derr.Stage)
	})

	t.Run("Битый поток сжатия", func(t *testing.T) {
		_, err := Decode(EncodeBase62([]byte("definitely not deflate")))
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
	})

	t.Run("Неверная форма конверта", func(t *testing.T) {
		raw, err := deflate([]byte(`{"not":"an array"}`))
		require.NoError(t, err)
		_, err = DecodeBytes(raw)
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "envelope", derr.Stage)
	})

	t.Run("Конверт из одного элемента", func(t *testing.T) {
		raw, err := deflate([]byte(`[["dict"]]`))
		require.NoError(t, err)
		_, err = DecodeBytes(raw)
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "envelope", derr.Stage)
	})

	t.Run("Слишком короткий массив позиций", func(t *testing.T) {
		raw, err := deflate([]byte(`[[],[2024,null,null]]`))
		require.NoError(t, err)
		_, err = DecodeBytes(raw)
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "payload", derr.Stage)
	})

	t.Run("DecodeError разворачивается", func(t *testing.T) {
		_, err := Decode("не base62")
		var derr *DecodeError
		require.ErrorAs(t, err, &derr)
		assert.True(t, errors.Is(err, derr.Err))
	})
}

func TestDayOfYearRoundTrip(t *testing.T) {
	cases := []struct {
		date string
		year int
		doy  int
	}{
		{"2024-01-01", 2024, 1},
		{"2024-02-29", 2024, 60},
		{"2024-12-31", 2024, 366},
		{"2023-12-31", 2023, 365},
	}
	for _, tc := range cases {
		doy, err := dayOfYear(tc.date, tc.year)
		require.NoError(t, err)
		assert.Equal(t, tc.doy, doy)
		assert.Equal(t, tc.date, dateOfYear(doy, tc.year))
	}

	_, err := dayOfYear("2023-06-01", 2024)
	assert.Error(t, err)
	_, err = dayOfYear("junk", 2024)
	assert.Error(t, err)
}

func TestDictionary(t *testing.T) {
	d := newDictionary()
	assert.Equal(t, 0, d.Add("ana"))
	assert.Equal(t, 1, d.Add("beto"))
	assert.Equal(t, 0, d.Add("ana"))
	assert.Equal(t, "beto", d.At(1))
	assert.Equal(t, "", d.At(5))
	assert.Equal(t, "", d.At(-1))
}
