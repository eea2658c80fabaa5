package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"

	"whatsapp-wrapped/internal/domain"
)

// Позиции статистик в кодируемом массиве. Порядок — контракт формата:
// добавлять новые позиции можно только в конец.
const (
	slotYear = iota
	slotGroupName
	slotParticipants
	slotTotals
	slotTopSenders
	slotTopDeleter
	slotTopEditor
	slotFrequentMessages
	slotTopWords
	slotTopEmojis
	slotMonths
	slotPeakDay
	slotActivity
	slotSilence
	slotTopStickers
	slotStickerSenders
	slotMostSticker
	slotMostImage
	slotMostVideo
	slotMostAudio
	slotMostDocument
	slotMostLocation
	slotMostPoll

	slotCount
)

const monthsInYear = 12

const dayLayout = "2006-01-02"

// DecodeError возвращается, когда строка не является валидным кодом
// статистики: чужой алфавит, битый поток сжатия или неожиданная форма
// данных.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(stage string, err error) error {
	return &DecodeError{Stage: stage, Err: err}
}

// Encode упаковывает статистику в компактную base62-строку.
//
// Конвейер: словарь строк + позиционный массив -> JSON -> DEFLATE ->
// base62. Отсутствующая статистика занимает позицию значением null
// и не расходует место после сжатия.
func Encode(stats *domain.WrappedStats) (string, error) {
	raw, err := EncodeBytes(stats)
	if err != nil {
		return "", err
	}
	return EncodeBase62(raw), nil
}

// EncodeBytes возвращает сжатый двоичный код без base62-обертки.
// Этот вид используется перед шифрованием: шифротекст все равно
// непрозрачен, и base62 только раздул бы его.
func EncodeBytes(stats *domain.WrappedStats) ([]byte, error) {
	if stats == nil {
		return nil, fmt.Errorf("nil stats")
	}

	dict := newDictionary()
	payload := make([]any, slotCount)

	payload[slotYear] = stats.Year
	if stats.GroupName != "" {
		payload[slotGroupName] = dict.Add(stats.GroupName)
	}
	if len(stats.Participants) > 0 {
		idxs := make([]int, len(stats.Participants))
		for i, name := range stats.Participants {
			idxs[i] = dict.Add(name)
		}
		payload[slotParticipants] = idxs
	}
	if t := stats.Totals; t != nil {
		payload[slotTotals] = []int{t.Messages, t.Words, t.Characters}
	}
	if len(stats.TopSenders) > 0 {
		rows := make([][]int, len(stats.TopSenders))
		for i, s := range stats.TopSenders {
			rows[i] = []int{s.NameIndex, s.Messages}
		}
		payload[slotTopSenders] = rows
	}
	payload[slotTopDeleter] = encodeAuthorCount(stats.TopDeleter)
	payload[slotTopEditor] = encodeAuthorCount(stats.TopEditor)
	if len(stats.MostFrequentMessages) > 0 {
		rows := make([][]int, len(stats.MostFrequentMessages))
		for i, f := range stats.MostFrequentMessages {
			rows[i] = []int{f.AuthorIndex, dict.Add(f.Content), f.Count}
		}
		payload[slotFrequentMessages] = rows
	}
	if len(stats.TopWords) > 0 {
		rows := make([][]int, len(stats.TopWords))
		for i, w := range stats.TopWords {
			rows[i] = []int{dict.Add(w.Word), w.Count}
		}
		payload[slotTopWords] = rows
	}
	if len(stats.TopEmojis) > 0 {
		rows := make([][]int, len(stats.TopEmojis))
		for i, e := range stats.TopEmojis {
			rows[i] = []int{dict.Add(e.Emoji), e.Count}
		}
		payload[slotTopEmojis] = rows
	}
	if len(stats.MessagesPerMonth) > 0 {
		// Плотный массив из 12 счетчиков: ноль означает отсутствие
		// месяца в исходной разреженной карте.
		months := make([]int, monthsInYear)
		for m, n := range stats.MessagesPerMonth {
			if m >= 1 && m <= monthsInYear {
				months[m-1] = n
			}
		}
		payload[slotMonths] = months
	}
	if p := stats.PeakActivityDay; p != nil {
		doy, err := dayOfYear(p.Date, stats.Year)
		if err != nil {
			return nil, fmt.Errorf("peak day: %w", err)
		}
		payload[slotPeakDay] = []int{doy, p.Messages}
	}
	if v, err := encodeStreak(stats.LongestActivity, stats.Year); err != nil {
		return nil, fmt.Errorf("activity streak: %w", err)
	} else if v != nil {
		payload[slotActivity] = v
	}
	if v, err := encodeStreak(stats.LongestSilence, stats.Year); err != nil {
		return nil, fmt.Errorf("silence streak: %w", err)
	} else if v != nil {
		payload[slotSilence] = v
	}
	if len(stats.TopStickers) > 0 {
		rows := make([][]int, len(stats.TopStickers))
		for i, s := range stats.TopStickers {
			rows[i] = []int{dict.Add(s.Content), s.Count}
		}
		payload[slotTopStickers] = rows
	}
	if len(stats.TopStickerSenders) > 0 {
		rows := make([][]int, len(stats.TopStickerSenders))
		for i, s := range stats.TopStickerSenders {
			rows[i] = []int{s.NameIndex, dict.Add(s.Sticker), s.Count}
		}
		payload[slotStickerSenders] = rows
	}
	payload[slotMostSticker] = encodeAuthorCount(stats.MostStickerSender)
	payload[slotMostImage] = encodeAuthorCount(stats.MostImageSender)
	payload[slotMostVideo] = encodeAuthorCount(stats.MostVideoSender)
	payload[slotMostAudio] = encodeAuthorCount(stats.MostAudioSender)
	payload[slotMostDocument] = encodeAuthorCount(stats.MostDocumentSender)
	payload[slotMostLocation] = encodeAuthorCount(stats.MostLocationSender)
	payload[slotMostPoll] = encodeAuthorCount(stats.MostPollStarter)

	jsonBytes, err := json.Marshal([]any{dict.entries, payload})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return deflate(jsonBytes)
}

// Decode разбирает base62-строку обратно в статистику.
func Decode(encoded string) (*domain.WrappedStats, error) {
	raw, err := DecodeBase62(encoded)
	if err != nil {
		return nil, decodeErr("base62", err)
	}
	return DecodeBytes(raw)
}

// DecodeBytes разбирает двоичный код (DEFLATE поверх JSON).
func DecodeBytes(raw []byte) (*domain.WrappedStats, error) {
	jsonBytes, err := inflate(raw)
	if err != nil {
		return nil, decodeErr("inflate", err)
	}

	var envelope []json.RawMessage
	if err := json.Unmarshal(jsonBytes, &envelope); err != nil {
		return nil, decodeErr("envelope", err)
	}
	if len(envelope) != 2 {
		return nil, decodeErr("envelope", fmt.Errorf("expected 2 elements, got %d", len(envelope)))
	}

	var entries []string
	if err := json.Unmarshal(envelope[0], &entries); err != nil {
		return nil, decodeErr("dictionary", err)
	}
	dict := newDictionary()
	for _, e := range entries {
		dict.Add(e)
	}

	var payload []any
	if err := json.Unmarshal(envelope[1], &payload); err != nil {
		return nil, decodeErr("payload", err)
	}
	if len(payload) < slotCount {
		return nil, decodeErr("payload", fmt.Errorf("expected %d slots, got %d", slotCount, len(payload)))
	}

	stats := &domain.WrappedStats{}
	stats.Year, err = asInt(payload[slotYear])
	if err != nil {
		return nil, decodeErr("year", err)
	}
	if payload[slotGroupName] != nil {
		i, err := asInt(payload[slotGroupName])
		if err != nil {
			return nil, decodeErr("group name", err)
		}
		stats.GroupName = dict.At(i)
	}
	if payload[slotParticipants] != nil {
		idxs, err := asInts(payload[slotParticipants])
		if err != nil {
			return nil, decodeErr("participants", err)
		}
		for _, i := range idxs {
			stats.Participants = append(stats.Participants, dict.At(i))
		}
	}
	if payload[slotTotals] != nil {
		row, err := asIntsN(payload[slotTotals], 3)
		if err != nil {
			return nil, decodeErr("totals", err)
		}
		stats.Totals = &domain.Totals{Messages: row[0], Words: row[1], Characters: row[2]}
	}
	if payload[slotTopSenders] != nil {
		rows, err := asIntRows(payload[slotTopSenders], 2)
		if err != nil {
			return nil, decodeErr("top senders", err)
		}
		for _, row := range rows {
			stats.TopSenders = append(stats.TopSenders, domain.SenderCount{NameIndex: row[0], Messages: row[1]})
		}
	}
	if stats.TopDeleter, err = decodeAuthorCount(payload[slotTopDeleter]); err != nil {
		return nil, decodeErr("top deleter", err)
	}
	if stats.TopEditor, err = decodeAuthorCount(payload[slotTopEditor]); err != nil {
		return nil, decodeErr("top editor", err)
	}
	if payload[slotFrequentMessages] != nil {
		rows, err := asIntRows(payload[slotFrequentMessages], 3)
		if err != nil {
			return nil, decodeErr("frequent messages", err)
		}
		for _, row := range rows {
			stats.MostFrequentMessages = append(stats.MostFrequentMessages, domain.FrequentMessage{
				AuthorIndex: row[0],
				Content:     dict.At(row[1]),
				Count:       row[2],
			})
		}
	}
	if payload[slotTopWords] != nil {
		rows, err := asIntRows(payload[slotTopWords], 2)
		if err != nil {
			return nil, decodeErr("top words", err)
		}
		for _, row := range rows {
			stats.TopWords = append(stats.TopWords, domain.WordCount{Word: dict.At(row[0]), Count: row[1]})
		}
	}
	if payload[slotTopEmojis] != nil {
		rows, err := asIntRows(payload[slotTopEmojis], 2)
		if err != nil {
			return nil, decodeErr("top emojis", err)
		}
		for _, row := range rows {
			stats.TopEmojis = append(stats.TopEmojis, domain.EmojiCount{Emoji: dict.At(row[0]), Count: row[1]})
		}
	}
	if payload[slotMonths] != nil {
		months, err := asIntsN(payload[slotMonths], monthsInYear)
		if err != nil {
			return nil, decodeErr("months", err)
		}
		for m, n := range months {
			if n > 0 {
				if stats.MessagesPerMonth == nil {
					stats.MessagesPerMonth = make(map[int]int)
				}
				stats.MessagesPerMonth[m+1] = n
			}
		}
	}
	if payload[slotPeakDay] != nil {
		row, err := asIntsN(payload[slotPeakDay], 2)
		if err != nil {
			return nil, decodeErr("peak day", err)
		}
		stats.PeakActivityDay = &domain.PeakDay{
			Date:     dateOfYear(row[0], stats.Year),
			Messages: row[1],
		}
	}
	if stats.LongestActivity, err = decodeStreak(payload[slotActivity], stats.Year); err != nil {
		return nil, decodeErr("activity streak", err)
	}
	if stats.LongestSilence, err = decodeStreak(payload[slotSilence], stats.Year); err != nil {
		return nil, decodeErr("silence streak", err)
	}
	if payload[slotTopStickers] != nil {
		rows, err := asIntRows(payload[slotTopStickers], 2)
		if err != nil {
			return nil, decodeErr("top stickers", err)
		}
		for _, row := range rows {
			stats.TopStickers = append(stats.TopStickers, domain.StickerCount{Content: dict.At(row[0]), Count: row[1]})
		}
	}
	if payload[slotStickerSenders] != nil {
		rows, err := asIntRows(payload[slotStickerSenders], 3)
		if err != nil {
			return nil, decodeErr("sticker senders", err)
		}
		for _, row := range rows {
			stats.TopStickerSenders = append(stats.TopStickerSenders, domain.StickerSender{
				NameIndex: row[0],
				Sticker:   dict.At(row[1]),
				Count:     row[2],
			})
		}
	}
	winners := []struct {
		slot int
		dst  **domain.AuthorCount
		name string
	}{
		{slotMostSticker, &stats.MostStickerSender, "most sticker sender"},
		{slotMostImage, &stats.MostImageSender, "most image sender"},
		{slotMostVideo, &stats.MostVideoSender, "most video sender"},
		{slotMostAudio, &stats.MostAudioSender, "most audio sender"},
		{slotMostDocument, &stats.MostDocumentSender, "most document sender"},
		{slotMostLocation, &stats.MostLocationSender, "most location sender"},
		{slotMostPoll, &stats.MostPollStarter, "most poll starter"},
	}
	for _, w := range winners {
		if *w.dst, err = decodeAuthorCount(payload[w.slot]); err != nil {
			return nil, decodeErr(w.name, err)
		}
	}

	return stats, nil
}

func encodeAuthorCount(ac *domain.AuthorCount) any {
	if ac == nil {
		return nil
	}
	return []int{ac.NameIndex, ac.Count}
}

func decodeAuthorCount(v any) (*domain.AuthorCount, error) {
	if v == nil {
		return nil, nil
	}
	row, err := asIntsN(v, 2)
	if err != nil {
		return nil, err
	}
	return &domain.AuthorCount{NameIndex: row[0], Count: row[1]}, nil
}

func encodeStreak(s *domain.Streak, year int) (any, error) {
	if s == nil {
		return nil, nil
	}
	from, err := dayOfYear(s.From, year)
	if err != nil {
		return nil, err
	}
	to, err := dayOfYear(s.To, year)
	if err != nil {
		return nil, err
	}
	return []int{from, to, s.Days}, nil
}

func decodeStreak(v any, year int) (*domain.Streak, error) {
	if v == nil {
		return nil, nil
	}
	row, err := asIntsN(v, 3)
	if err != nil {
		return nil, err
	}
	return &domain.Streak{
		From: dateOfYear(row[0], year),
		To:   dateOfYear(row[1], year),
		Days: row[2],
	}, nil
}

// dayOfYear переводит дату вида 2006-01-02 в порядковый день года.
// Год записи известен обеим сторонам, передавать его в каждой дате
// незачем.
func dayOfYear(date string, year int) (int, error) {
	t, err := time.Parse(dayLayout, date)
	if err != nil {
		return 0, err
	}
	if t.Year() != year {
		return 0, fmt.Errorf("date %s outside record year %d", date, year)
	}
	return t.YearDay(), nil
}

func dateOfYear(doy, year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, doy-1).Format(dayLayout)
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("init deflate: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flush deflate: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

// asInt принимает числа, какими их отдает encoding/json.
func asInt(v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return int(f), nil
}

func asInts(v any) ([]int, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	out := make([]int, len(raw))
	for i, e := range raw {
		n, err := asInt(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func asIntsN(v any, n int) ([]int, error) {
	out, err := asInts(v)
	if err != nil {
		return nil, err
	}
	if len(out) < n {
		return nil, fmt.Errorf("expected %d elements, got %d", n, len(out))
	}
	return out, nil
}

func asIntRows(v any, width int) ([][]int, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	out := make([][]int, 0, len(raw))
	for _, e := range raw {
		row, err := asIntsN(e, width)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
