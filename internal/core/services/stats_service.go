package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

// Пороги значимости. Значения взяты из продукта как есть: это константы
// настройки, а не результат статистического вывода.
const (
	topSendersLimit    = 5
	topWordsLimit      = 5
	topEmojisLimit     = 5
	topFrequentLimit   = 3
	minFrequentRepeats = 2
	// Содержимое сообщения усекается до 50 символов до группировки.
	frequentKeyRunes = 50
	// Победитель по удалениям/редактированиям должен иметь строго
	// больше трех событий.
	markerThreshold = 3
	// Победитель по категории медиа должен иметь не меньше трех отправок.
	mediaWinnerMin    = 3
	topStickersLimit  = 5
	stickerPairsLimit = 3
	// Серия активности короче двух дней не публикуется.
	minActivityDays = 2
)

const dayLayout = "2006-01-02"

// StatsServiceImpl реализует интерфейс StatsService.
type StatsServiceImpl struct{}

// NewStatsService создает новый экземпляр StatsServiceImpl.
func NewStatsService() ports.StatsService {
	return &StatsServiceImpl{}
}

// Calculate считает годовую статистику по разобранному чату.
//
// Все редьюсеры независимы и чисты; каждый возвращает nil, когда его
// исходный набор пуст или не добирает порога значимости. Разрешение
// участников выполняется последним: в таблицу попадают только имена,
// на которые ссылается хоть одна выжившая статистика.
func (s *StatsServiceImpl) Calculate(chat *domain.ParsedChat) (*domain.WrappedStats, error) {
	if chat == nil {
		return nil, fmt.Errorf("nil chat")
	}

	year := wrappedYear(chat)
	msgs, media, system := scopeToYear(chat, year)

	senders := topSenders(msgs, media)
	deleter := systemKindWinner(system, domain.SystemDeleted, markerThreshold+1)
	editor := topEditor(msgs, system)
	frequent := mostFrequentMessages(msgs)
	pairs := topStickerPairs(media)
	mostSticker := mediaKindWinner(media, domain.MediaSticker)
	mostImage := mediaKindWinner(media, domain.MediaImage)
	mostVideo := mediaKindWinner(media, domain.MediaVideo)
	mostAudio := mediaKindWinner(media, domain.MediaAudio)
	mostDocument := mediaKindWinner(media, domain.MediaDocument)
	mostLocation := systemKindWinner(system, domain.SystemLocationShared, mediaWinnerMin)
	mostPoll := systemKindWinner(system, domain.SystemPoll, mediaWinnerMin)

	// Таблица участников: только имена из выживших статистик,
	// отсортированные для стабильности индексов.
	table := collectParticipants(senders, frequent, pairs,
		deleter, editor, mostSticker, mostImage, mostVideo, mostAudio,
		mostDocument, mostLocation, mostPoll)

	stats := &domain.WrappedStats{
		Year:         year,
		GroupName:    chat.GroupName,
		Participants: table.names,
	}

	stats.Totals = totals(msgs, media, system)
	for _, sc := range senders {
		stats.TopSenders = append(stats.TopSenders, domain.SenderCount{
			NameIndex: table.index[sc.Name],
			Messages:  sc.Count,
		})
	}
	stats.TopDeleter = table.authorCount(deleter)
	stats.TopEditor = table.authorCount(editor)
	for _, fm := range frequent {
		stats.MostFrequentMessages = append(stats.MostFrequentMessages, domain.FrequentMessage{
			AuthorIndex: table.index[fm.Author],
			Content:     fm.Content,
			Count:       fm.Count,
		})
	}
	stats.TopWords = topWordCounts(msgs)
	stats.TopEmojis = topEmojiCounts(msgs)
	stats.MessagesPerMonth = messagesPerMonth(msgs)
	stats.PeakActivityDay = peakActivityDay(msgs)

	days := activityDays(msgs, media)
	stats.LongestActivity = longestActivity(days)
	stats.LongestSilence = longestSilence(days)

	stats.TopStickers = topStickers(media)
	for _, p := range pairs {
		stats.TopStickerSenders = append(stats.TopStickerSenders, domain.StickerSender{
			NameIndex: table.index[p.Name],
			Sticker:   p.Sticker,
			Count:     p.Count,
		})
	}
	stats.MostStickerSender = table.authorCount(mostSticker)
	stats.MostImageSender = table.authorCount(mostImage)
	stats.MostVideoSender = table.authorCount(mostVideo)
	stats.MostAudioSender = table.authorCount(mostAudio)
	stats.MostDocumentSender = table.authorCount(mostDocument)
	stats.MostLocationSender = table.authorCount(mostLocation)
	stats.MostPollStarter = table.authorCount(mostPoll)

	return stats, nil
}

// wrappedYear — календарный год самой поздней метки времени в экспорте.
// Многолетний экспорт все равно дает статистику одного года.
func wrappedYear(chat *domain.ParsedChat) int {
	var last time.Time
	for _, m := range chat.Messages {
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	for _, m := range chat.Media {
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	for _, m := range chat.System {
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	return last.Year()
}

// scopeToYear оставляет только события нужного года и нормализует
// имена авторов.
func scopeToYear(chat *domain.ParsedChat, year int) ([]domain.NormalMessage, []domain.MediaEvent, []domain.SystemEvent) {
	var msgs []domain.NormalMessage
	var media []domain.MediaEvent
	var system []domain.SystemEvent
	for _, m := range chat.Messages {
		if m.Timestamp.Year() == year {
			m.Author = normalizeName(m.Author)
			msgs = append(msgs, m)
		}
	}
	for _, m := range chat.Media {
		if m.Timestamp.Year() == year {
			m.Author = normalizeName(m.Author)
			media = append(media, m)
		}
	}
	for _, m := range chat.System {
		if m.Timestamp.Year() == year {
			m.Author = normalizeName(m.Author)
			system = append(system, m)
		}
	}
	return msgs, media, system
}

// normalizeName убирает пробелы по краям и завершающие точки, чтобы
// "John." и "John" считались одним участником.
func normalizeName(name string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(name), "."))
}

// totals: удаленные сообщения и медиа считаются сообщениями, но слова и
// символы считаются только по неудаленным.
func totals(msgs []domain.NormalMessage, media []domain.MediaEvent, system []domain.SystemEvent) *domain.Totals {
	deletedSystem := 0
	for _, e := range system {
		if e.Kind == domain.SystemDeleted {
			deletedSystem++
		}
	}
	total := len(msgs) + len(media) + deletedSystem
	if total == 0 {
		return nil
	}

	t := &domain.Totals{Messages: total}
	for _, m := range msgs {
		if m.Deleted {
			continue
		}
		t.Words += len(strings.Fields(m.Content))
		t.Characters += len([]rune(m.Content))
	}
	return t
}

func topSenders(msgs []domain.NormalMessage, media []domain.MediaEvent) []namedCount {
	c := newCounter()
	for _, m := range msgs {
		if m.Author != "" {
			c.add(m.Author)
		}
	}
	for _, m := range media {
		if m.Author != "" {
			c.add(m.Author)
		}
	}
	return c.top(topSendersLimit)
}

// systemKindWinner возвращает автора с наибольшим числом системных
// событий заданного типа, если счетчик добрал минимума.
func systemKindWinner(system []domain.SystemEvent, kind domain.SystemKind, min int) *namedCount {
	c := newCounter()
	for _, e := range system {
		if e.Kind == kind && e.Author != "" {
			c.add(e.Author)
		}
	}
	return c.winner(min)
}

// topEditor считает редактирования обоих видов: маркер внутри текста
// сообщения и отдельную системную строку. Android встраивает маркер,
// iOS пишет системную строку — реальный экспорт дает либо то, либо
// другое.
func topEditor(msgs []domain.NormalMessage, system []domain.SystemEvent) *namedCount {
	c := newCounter()
	for _, m := range msgs {
		if m.Edited && m.Author != "" {
			c.add(m.Author)
		}
	}
	for _, e := range system {
		if e.Kind == domain.SystemEdited && e.Author != "" {
			c.add(e.Author)
		}
	}
	return c.winner(markerThreshold + 1)
}

// mediaKindWinner возвращает автора с наибольшим числом медиа заданного
// типа, если отправок не меньше mediaWinnerMin.
func mediaKindWinner(media []domain.MediaEvent, kind domain.MediaKind) *namedCount {
	c := newCounter()
	for _, e := range media {
		if e.Kind == kind && e.Author != "" {
			c.add(e.Author)
		}
	}
	return c.winner(mediaWinnerMin)
}

func mostFrequentMessages(msgs []domain.NormalMessage) []namedMessage {
	type entry struct {
		author  string
		content string
		count   int
		order   int
	}
	byKey := make(map[string]*entry)
	next := 0
	for _, m := range msgs {
		if m.Deleted || m.Author == "" {
			continue
		}
		content := truncateRunes(strings.TrimSpace(m.Content), frequentKeyRunes)
		if content == "" {
			continue
		}
		key := strings.ToLower(content)
		e, ok := byKey[key]
		if !ok {
			e = &entry{author: m.Author, content: key, order: next}
			next++
			byKey[key] = e
		}
		e.count++
	}

	var entries []*entry
	for _, e := range byKey {
		if e.count >= minFrequentRepeats {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].order < entries[j].order
	})
	if len(entries) > topFrequentLimit {
		entries = entries[:topFrequentLimit]
	}

	var out []namedMessage
	for _, e := range entries {
		out = append(out, namedMessage{Author: e.author, Content: e.content, Count: e.count})
	}
	return out
}

func topWordCounts(msgs []domain.NormalMessage) []domain.WordCount {
	c := newCounter()
	for _, m := range msgs {
		if m.Deleted {
			continue
		}
		for _, w := range tokenizeWords(m.Content) {
			c.add(w)
		}
	}
	var out []domain.WordCount
	for _, nc := range c.top(topWordsLimit) {
		out = append(out, domain.WordCount{Word: nc.Name, Count: nc.Count})
	}
	return out
}

func topEmojiCounts(msgs []domain.NormalMessage) []domain.EmojiCount {
	c := newCounter()
	for _, m := range msgs {
		if m.Deleted {
			continue
		}
		for _, e := range extractEmojis(m.Content) {
			c.add(e)
		}
	}
	var out []domain.EmojiCount
	for _, nc := range c.top(topEmojisLimit) {
		out = append(out, domain.EmojiCount{Emoji: nc.Name, Count: nc.Count})
	}
	return out
}

// messagesPerMonth — разреженная карта: месяц без сообщений не попадает
// в результат вовсе.
func messagesPerMonth(msgs []domain.NormalMessage) map[int]int {
	months := make(map[int]int)
	for _, m := range msgs {
		if !m.Deleted {
			months[int(m.Timestamp.Month())]++
		}
	}
	if len(months) == 0 {
		return nil
	}
	return months
}

func peakActivityDay(msgs []domain.NormalMessage) *domain.PeakDay {
	byDay := make(map[string]int)
	for _, m := range msgs {
		if !m.Deleted {
			byDay[m.Timestamp.Format(dayLayout)]++
		}
	}
	if len(byDay) == 0 {
		return nil
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	// Ничья разрешается в пользу самой ранней даты.
	sort.Strings(days)

	peak := &domain.PeakDay{}
	for _, d := range days {
		if byDay[d] > peak.Messages {
			peak.Date = d
			peak.Messages = byDay[d]
		}
	}
	return peak
}

// activityDays — отсортированные уникальные календарные дни, в которые
// было хотя бы одно неудаленное сообщение или медиа.
func activityDays(msgs []domain.NormalMessage, media []domain.MediaEvent) []time.Time {
	seen := make(map[time.Time]bool)
	add := func(ts time.Time) {
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		seen[day] = true
	}
	for _, m := range msgs {
		if !m.Deleted {
			add(m.Timestamp)
		}
	}
	for _, m := range media {
		add(m.Timestamp)
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// dayDiff — разница в календарных днях между двумя полуночами.
// Время суток игнорируется намеренно.
func dayDiff(prev, curr time.Time) int {
	return int(curr.Sub(prev) / (24 * time.Hour))
}

// longestActivity — самая длинная серия подряд идущих дней с
// активностью. Серии короче minActivityDays не публикуются.
func longestActivity(days []time.Time) *domain.Streak {
	if len(days) == 0 {
		return nil
	}

	best := domain.Streak{}
	curFrom := days[0]
	curDays := 1
	flush := func(to time.Time) {
		if curDays > best.Days {
			best = domain.Streak{
				From: curFrom.Format(dayLayout),
				To:   to.Format(dayLayout),
				Days: curDays,
			}
		}
	}
	for i := 1; i < len(days); i++ {
		if dayDiff(days[i-1], days[i]) == 1 {
			curDays++
			continue
		}
		flush(days[i-1])
		curFrom = days[i]
		curDays = 1
	}
	flush(days[len(days)-1])

	if best.Days < minActivityDays {
		return nil
	}
	return &best
}

// longestSilence — самый длинный разрыв между двумя соседними днями с
// активностью; публикуются дни строго между ними.
func longestSilence(days []time.Time) *domain.Streak {
	if len(days) < 2 {
		return nil
	}

	best := domain.Streak{}
	for i := 1; i < len(days); i++ {
		gap := dayDiff(days[i-1], days[i]) - 1
		if gap > best.Days {
			best = domain.Streak{
				From: days[i-1].AddDate(0, 0, 1).Format(dayLayout),
				To:   days[i].AddDate(0, 0, -1).Format(dayLayout),
				Days: gap,
			}
		}
	}
	if best.Days < 1 {
		return nil
	}
	return &best
}

// topStickers группирует стикеры по имени файла.
func topStickers(media []domain.MediaEvent) []domain.StickerCount {
	c := newCounter()
	for _, m := range media {
		if m.Kind == domain.MediaSticker {
			c.add(stickerKey(m.FileName))
		}
	}
	var out []domain.StickerCount
	for _, nc := range c.top(topStickersLimit) {
		out = append(out, domain.StickerCount{Content: nc.Name, Count: nc.Count})
	}
	return out
}

func topStickerPairs(media []domain.MediaEvent) []namedSticker {
	c := newCounter()
	for _, m := range media {
		if m.Kind == domain.MediaSticker && m.Author != "" {
			c.add(m.Author + "\x00" + stickerKey(m.FileName))
		}
	}
	var out []namedSticker
	for _, nc := range c.top(stickerPairsLimit) {
		name, sticker, _ := strings.Cut(nc.Name, "\x00")
		out = append(out, namedSticker{Name: name, Sticker: sticker, Count: nc.Count})
	}
	return out
}

// stickerKey: стикеры без имени файла группируются под общим ключом.
func stickerKey(fileName string) string {
	if fileName == "" {
		return "unknown"
	}
	return fileName
}

// truncateRunes усекает строку до limit рун.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
