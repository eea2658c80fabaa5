package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

const summarySheet = "Итоги"

// ExcelExporter реализует интерфейс Exporter и сохраняет отчет в xlsx-файл.
type ExcelExporter struct {
	filePath string
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(filePath string) ports.Exporter {
	return &ExcelExporter{filePath: filePath}
}

// Export записывает годовой отчет в xlsx-файл.
func (e *ExcelExporter) Export(stats *domain.WrappedStats) error {
	if stats == nil {
		return fmt.Errorf("нет статистики для вывода")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	row := 1
	set := func(col string, r int, value interface{}) {
		f.SetCellValue(summarySheet, fmt.Sprintf("%s%d", col, r), value)
	}
	writeRow := func(label string, value interface{}) {
		set("A", row, label)
		set("B", row, value)
		row++
	}

	writeRow("Группа", stats.GroupName)
	writeRow("Год", stats.Year)
	if t := stats.Totals; t != nil {
		writeRow("Сообщений", t.Messages)
		writeRow("Слов", t.Words)
		writeRow("Символов", t.Characters)
	}
	if p := stats.PeakActivityDay; p != nil {
		writeRow("Пик активности", fmt.Sprintf("%s (%d сообщений)", p.Date, p.Messages))
	}
	if s := stats.LongestActivity; s != nil {
		writeRow("Серия общения", fmt.Sprintf("%s — %s (%d дн.)", s.From, s.To, s.Days))
	}
	if s := stats.LongestSilence; s != nil {
		writeRow("Молчание", fmt.Sprintf("%s — %s (%d дн.)", s.From, s.To, s.Days))
	}

	winners := []struct {
		label string
		ac    *domain.AuthorCount
	}{
		{"Чаще всех удаляет", stats.TopDeleter},
		{"Чаще всех редактирует", stats.TopEditor},
		{"Больше всех стикеров", stats.MostStickerSender},
		{"Больше всех фото", stats.MostImageSender},
		{"Больше всех видео", stats.MostVideoSender},
		{"Больше всех аудио", stats.MostAudioSender},
		{"Больше всех документов", stats.MostDocumentSender},
		{"Больше всех геометок", stats.MostLocationSender},
		{"Больше всех опросов", stats.MostPollStarter},
	}
	for _, w := range winners {
		if w.ac != nil {
			writeRow(w.label, fmt.Sprintf("%s (%d)", stats.Participant(w.ac.NameIndex), w.ac.Count))
		}
	}

	if len(stats.TopSenders) > 0 {
		sheet := "Участники"
		f.NewSheet(sheet)
		f.SetCellValue(sheet, "A1", "Участник")
		f.SetCellValue(sheet, "B1", "Сообщений")
		for i, s := range stats.TopSenders {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), stats.Participant(s.NameIndex))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), s.Messages)
		}
	}

	if len(stats.TopWords) > 0 || len(stats.TopEmojis) > 0 || len(stats.MostFrequentMessages) > 0 {
		sheet := "Слова и эмодзи"
		f.NewSheet(sheet)
		r := 1
		if len(stats.TopWords) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Слово")
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), "Повторов")
			r++
			for _, w := range stats.TopWords {
				f.SetCellValue(sheet, fmt.Sprintf("A%d", r), w.Word)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", r), w.Count)
				r++
			}
			r++
		}
		if len(stats.TopEmojis) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Эмодзи")
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), "Повторов")
			r++
			for _, em := range stats.TopEmojis {
				f.SetCellValue(sheet, fmt.Sprintf("A%d", r), em.Emoji)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", r), em.Count)
				r++
			}
			r++
		}
		if len(stats.MostFrequentMessages) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Сообщение")
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), "Автор")
			f.SetCellValue(sheet, fmt.Sprintf("C%d", r), "Повторов")
			r++
			for _, m := range stats.MostFrequentMessages {
				f.SetCellValue(sheet, fmt.Sprintf("A%d", r), m.Content)
				f.SetCellValue(sheet, fmt.Sprintf("B%d", r), stats.Participant(m.AuthorIndex))
				f.SetCellValue(sheet, fmt.Sprintf("C%d", r), m.Count)
				r++
			}
		}
	}

	if len(stats.MessagesPerMonth) > 0 {
		sheet := "Месяцы"
		f.NewSheet(sheet)
		f.SetCellValue(sheet, "A1", "Месяц")
		f.SetCellValue(sheet, "B1", "Сообщений")
		months := make([]int, 0, len(stats.MessagesPerMonth))
		for m := range stats.MessagesPerMonth {
			months = append(months, m)
		}
		sort.Ints(months)
		for i, m := range months {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), m)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), stats.MessagesPerMonth[m])
		}
	}

	if err := f.SaveAs(e.filePath); err != nil {
		return fmt.Errorf("не удалось сохранить отчет %s: %w", e.filePath, err)
	}
	return nil
}
