package exporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

// ConsoleExporter реализует интерфейс Exporter для вывода отчета в консоль.
type ConsoleExporter struct {
	out io.Writer
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter,
// пишущий в стандартный вывод.
func NewConsoleExporter() ports.Exporter {
	return &ConsoleExporter{out: os.Stdout}
}

// NewConsoleExporterTo создает ConsoleExporter с заданным приемником.
func NewConsoleExporterTo(out io.Writer) ports.Exporter {
	return &ConsoleExporter{out: out}
}

// Export печатает годовой отчет по чату.
func (e *ConsoleExporter) Export(stats *domain.WrappedStats) error {
	if stats == nil {
		return fmt.Errorf("нет статистики для вывода")
	}

	title := fmt.Sprintf("%s — %d", stats.GroupName, stats.Year)
	fmt.Fprintln(e.out, title)
	fmt.Fprintln(e.out, strings.Repeat("=", runewidth.StringWidth(title)))

	if t := stats.Totals; t != nil {
		fmt.Fprintf(e.out, "Сообщений: %d, слов: %d, символов: %d\n", t.Messages, t.Words, t.Characters)
	}

	if len(stats.TopSenders) > 0 {
		fmt.Fprintln(e.out, "\nСамые активные участники:")
		rows := make([][2]string, 0, len(stats.TopSenders))
		for _, s := range stats.TopSenders {
			rows = append(rows, [2]string{stats.Participant(s.NameIndex), fmt.Sprintf("%d", s.Messages)})
		}
		e.printTable(rows)
	}

	e.printWinner("Чаще всех удаляет сообщения", stats, stats.TopDeleter)
	e.printWinner("Чаще всех редактирует сообщения", stats, stats.TopEditor)

	if len(stats.MostFrequentMessages) > 0 {
		fmt.Fprintln(e.out, "\nСамые повторяемые сообщения:")
		for _, m := range stats.MostFrequentMessages {
			fmt.Fprintf(e.out, "  %q — %s (%d раз)\n", m.Content, stats.Participant(m.AuthorIndex), m.Count)
		}
	}

	if len(stats.TopWords) > 0 {
		fmt.Fprintln(e.out, "\nСамые частые слова:")
		rows := make([][2]string, 0, len(stats.TopWords))
		for _, w := range stats.TopWords {
			rows = append(rows, [2]string{w.Word, fmt.Sprintf("%d", w.Count)})
		}
		e.printTable(rows)
	}

	if len(stats.TopEmojis) > 0 {
		fmt.Fprintln(e.out, "\nСамые частые эмодзи:")
		rows := make([][2]string, 0, len(stats.TopEmojis))
		for _, em := range stats.TopEmojis {
			rows = append(rows, [2]string{em.Emoji, fmt.Sprintf("%d", em.Count)})
		}
		e.printTable(rows)
	}

	if len(stats.MessagesPerMonth) > 0 {
		fmt.Fprintln(e.out, "\nСообщения по месяцам:")
		months := make([]int, 0, len(stats.MessagesPerMonth))
		for m := range stats.MessagesPerMonth {
			months = append(months, m)
		}
		sort.Ints(months)
		for _, m := range months {
			fmt.Fprintf(e.out, "  %02d: %d\n", m, stats.MessagesPerMonth[m])
		}
	}

	if p := stats.PeakActivityDay; p != nil {
		fmt.Fprintf(e.out, "\nПик активности: %s (%d сообщений)\n", p.Date, p.Messages)
	}
	if s := stats.LongestActivity; s != nil {
		fmt.Fprintf(e.out, "Самая длинная серия общения: %s — %s (%d дн.)\n", s.From, s.To, s.Days)
	}
	if s := stats.LongestSilence; s != nil {
		fmt.Fprintf(e.out, "Самое долгое молчание: %s — %s (%d дн.)\n", s.From, s.To, s.Days)
	}

	if len(stats.TopStickers) > 0 {
		fmt.Fprintln(e.out, "\nСамые популярные стикеры:")
		for _, s := range stats.TopStickers {
			fmt.Fprintf(e.out, "  %s (%d раз)\n", s.Content, s.Count)
		}
	}
	if len(stats.TopStickerSenders) > 0 {
		fmt.Fprintln(e.out, "\nЛюбимые стикеры участников:")
		for _, s := range stats.TopStickerSenders {
			fmt.Fprintf(e.out, "  %s: %s (%d раз)\n", stats.Participant(s.NameIndex), s.Sticker, s.Count)
		}
	}

	e.printWinner("Больше всех стикеров", stats, stats.MostStickerSender)
	e.printWinner("Больше всех фото", stats, stats.MostImageSender)
	e.printWinner("Больше всех видео", stats, stats.MostVideoSender)
	e.printWinner("Больше всех аудио", stats, stats.MostAudioSender)
	e.printWinner("Больше всех документов", stats, stats.MostDocumentSender)
	e.printWinner("Больше всех геометок", stats, stats.MostLocationSender)
	e.printWinner("Больше всех опросов", stats, stats.MostPollStarter)

	return nil
}

// printTable печатает двухколоночную таблицу, выравнивая первую колонку
// по видимой ширине, а не по числу байт.
func (e *ConsoleExporter) printTable(rows [][2]string) {
	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > width {
			width = w
		}
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(row[0]))
		fmt.Fprintf(e.out, "  %s%s  %s\n", row[0], pad, row[1])
	}
}

func (e *ConsoleExporter) printWinner(label string, stats *domain.WrappedStats, ac *domain.AuthorCount) {
	if ac == nil {
		return
	}
	fmt.Fprintf(e.out, "%s: %s (%d)\n", label, stats.Participant(ac.NameIndex), ac.Count)
}
