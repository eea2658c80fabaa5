package parser

import (
	"strconv"
	"strings"
	"time"

	"whatsapp-wrapped/internal/domain"
)

// header — распознанный заголовок строки: метка времени, автор (пустой
// для системных строк) и остаток текста.
type header struct {
	ts      time.Time
	author  string
	content string
}

// matchHeader пытается сопоставить строку с одной из грамматик
// заголовка. Возвращает false, если строка — продолжение предыдущего
// сообщения.
func matchHeader(line string) (header, bool) {
	for _, p := range headerPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return buildHeader(p, m), true
	}
	return header{}, false
}

// buildHeader собирает заголовок из групп регулярного выражения,
// нормализуя год и час.
func buildHeader(p headerPattern, m []string) header {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if p.monthFirst {
		day, month = month, day
	}
	year, _ := strconv.Atoi(m[3])
	// Двузначный год приводится к 2000+.
	if year < 100 {
		year += 2000
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	var sec int
	if p.meridiem {
		// PM добавляет 12, если час еще не 12; AM обнуляет 12.
		switch strings.ToUpper(m[6]) {
		case "PM":
			if hour < 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
	} else if m[6] != "" {
		// Необязательные секунды у 24-часовых форматов.
		sec, _ = strconv.Atoi(m[6])
	}
	rest := m[7:]

	h := header{
		ts: time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC),
	}
	if p.authored {
		h.author = strings.TrimSpace(rest[0])
		h.content = strings.TrimSpace(rest[1])
	} else {
		h.content = strings.TrimSpace(rest[0])
	}
	return h
}

// classified — результат классификации заголовка: заполнено ровно одно
// из трех полей.
type classified struct {
	message *domain.NormalMessage
	media   *domain.MediaEvent
	system  *domain.SystemEvent
}

// classifyHeader прогоняет заголовок через подклассификаторы в строгом
// порядке приоритета. Классификация никогда не завершается ошибкой:
// любая строка попадает ровно в одну категорию, в худшем случае — в
// системную с типом unrecognized.
func classifyHeader(h header) classified {
	// 1. Реальное вложение: классификация по имени файла не зависит
	// от языка экспорта.
	if name, ok := extractAttachment(h.content); ok {
		me := mediaByFileName(name)
		me.Timestamp = h.ts
		me.Author = h.author
		return classified{media: &me}
	}

	// 2. Фразы об опущенном медиа.
	for _, r := range mediaRules {
		if r.re.MatchString(h.content) {
			return classified{media: &domain.MediaEvent{
				Timestamp: h.ts,
				Author:    h.author,
				Kind:      r.kind,
			}}
		}
	}

	// 3. Системные фразы.
	for _, r := range systemRules {
		if r.re.MatchString(h.content) {
			return classified{system: &domain.SystemEvent{
				Timestamp:  h.ts,
				Author:     h.author,
				Kind:       r.kind,
				RawContent: h.content,
			}}
		}
	}

	// Строка с невидимым маркером U+200E, не опознанная выше, почти
	// наверняка системная в незнакомой локали. Отсутствие автора — тоже
	// признак системной строки в этом формате экспорта.
	if h.author == "" || strings.ContainsRune(h.content, '‎') {
		return classified{system: &domain.SystemEvent{
			Timestamp:  h.ts,
			Author:     h.author,
			Kind:       domain.SystemUnrecognized,
			RawContent: h.content,
		}}
	}

	// Обычное сообщение. Перед принятием вырезаем встроенные маркеры
	// редактирования и удаления.
	msg := domain.NormalMessage{
		Timestamp: h.ts,
		Author:    h.author,
		Content:   h.content,
	}
	for _, re := range editedMarkerRes {
		if re.MatchString(msg.Content) {
			msg.Content = strings.TrimSpace(re.ReplaceAllString(msg.Content, ""))
			msg.Edited = true
		}
	}
	if deletedMarkerRe.MatchString(msg.Content) {
		msg.Content = ""
		msg.Deleted = true
	}
	return classified{message: &msg}
}

// extractAttachment достает имя прикрепленного файла из текста строки.
func extractAttachment(content string) (string, bool) {
	if m := attachedAngleRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := attachedSuffixRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// Наборы расширений для классификации вложений по имени файла.
// Файлы WhatsApp несут префикс типа: IMG-*, VID-*, PTT-* (голосовые),
// AUD-*, STK-*.
var (
	imageExts    = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true}
	videoExts    = map[string]bool{"mp4": true, "3gp": true, "avi": true, "mov": true, "mkv": true}
	audioExts    = map[string]bool{"opus": true, "aac": true, "m4a": true, "mp3": true, "ogg": true, "wav": true}
	documentExts = map[string]bool{"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true, "txt": true, "zip": true, "rar": true, "7z": true}
)

// mediaByFileName классифицирует вложение по префиксу и расширению.
func mediaByFileName(name string) domain.MediaEvent {
	lower := strings.ToLower(name)
	ext := ""
	if i := strings.LastIndex(lower, "."); i >= 0 {
		ext = lower[i+1:]
	}

	kind := domain.MediaOmitted
	switch {
	case strings.HasPrefix(lower, "img-") || imageExts[ext]:
		kind = domain.MediaImage
	case strings.HasPrefix(lower, "vid-") || videoExts[ext]:
		kind = domain.MediaVideo
	case strings.HasPrefix(lower, "ptt-") || strings.HasPrefix(lower, "aud-") || audioExts[ext]:
		kind = domain.MediaAudio
	case strings.HasPrefix(lower, "stk-") || ext == "webp":
		kind = domain.MediaSticker
	case ext == "vcf":
		kind = domain.MediaContact
	case documentExts[ext]:
		kind = domain.MediaDocument
	}
	return domain.MediaEvent{Kind: kind, FileName: name}
}
