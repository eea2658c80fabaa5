package parser

import (
	"regexp"

	"whatsapp-wrapped/internal/domain"
)

// Шаблоны заголовков строк. Порядок важен: 12-часовые форматы с AM/PM
// проверяются раньше 24-часовых, иначе 24-часовой шаблон затянет токен
// "AM"/"PM" в поле автора. Варианты с автором проверяются раньше
// вариантов без автора по той же причине.
//
// Поддерживаемые грамматики:
//  1. M/D/YY, H:mm AM/PM - Author: Text        (Android, США)
//  2. [D/M/YYYY, H:mm:ss] Author: Text         (iOS)
//  3. D/M/YYYY H:mm - Author: Text             (Android, общий)
//  4. те же без "Author: " — системные строки экспорта
type headerPattern struct {
	re *regexp.Regexp
	// monthFirst: группы даты идут в порядке M/D/Y, иначе D/M/Y.
	monthFirst bool
	// meridiem: шаблон содержит группу AM/PM.
	meridiem bool
	// authored: шаблон содержит группу автора.
	authored bool
}

var headerPatterns = []headerPattern{
	// 12-часовой формат США с автором. Перед AM/PM может стоять обычный
	// пробел или узкий неразрывный U+202F (iOS).
	{
		re:         regexp.MustCompile(`^\x{200e}?(\d{1,2})/(\d{1,2})/(\d{2,4}),\s+(\d{1,2}):(\d{2})[\s\x{202f}]((?i:AM|PM))\s-\s([^:]+): (.+)$`),
		monthFirst: true,
		meridiem:   true,
		authored:   true,
	},
	// 24-часовой формат (в т.ч. iOS в квадратных скобках) с автором.
	{
		re:       regexp.MustCompile(`^\x{200e}?\[?(\d{1,2})[./-](\d{1,2})[./-](\d{2,4}),?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?\]?[\s\x{200e}]*-?[\s\x{200e}]*([^:]+): (.+)$`),
		authored: true,
	},
	// Те же грамматики без автора: так экспорт пишет системные строки.
	{
		re:         regexp.MustCompile(`^\x{200e}?(\d{1,2})/(\d{1,2})/(\d{2,4}),\s+(\d{1,2}):(\d{2})[\s\x{202f}]((?i:AM|PM))\s-\s(.+)$`),
		monthFirst: true,
		meridiem:   true,
	},
	{
		re: regexp.MustCompile(`^\x{200e}?\[?(\d{1,2})[./-](\d{1,2})[./-](\d{2,4}),?\s+(\d{1,2}):(\d{2})(?::(\d{2}))?\]?[\s\x{200e}]*-?[\s\x{200e}]*(.+)$`),
	},
}

// Шаблоны вложений: движок экспорта записывает имя прикрепленного файла
// либо как "<attached: X>" (iOS), либо как "X (file attached)" (Android).
var (
	attachedAngleRe  = regexp.MustCompile(`(?i)\x{200e}?<(?:attached|adjunto):\s*(.+?)>$`)
	attachedSuffixRe = regexp.MustCompile(`(?i)^\x{200e}?(.+?)\s*\((?:file attached|archivo adjunto)\)$`)
)

// Фразы об опущенном медиа (ES+EN, iOS+Android). Порядок: сначала
// конкретные типы, затем общий плейсхолдер. Добавление новой локали —
// чистое добавление данных, без изменения логики.
type mediaRule struct {
	re   *regexp.Regexp
	kind domain.MediaKind
}

var mediaRules = []mediaRule{
	{regexp.MustCompile(`(?i)\x{200e}?(imagen omitida|image omitted)`), domain.MediaImage},
	{regexp.MustCompile(`(?i)\x{200e}?(video omitido|video omitted)`), domain.MediaVideo},
	{regexp.MustCompile(`(?i)\x{200e}?(audio omitido|audio omitted)`), domain.MediaAudio},
	{regexp.MustCompile(`(?i)\x{200e}?(sticker omitido|sticker omitted)`), domain.MediaSticker},
	{regexp.MustCompile(`(?i)\x{200e}?(GIF omitido|GIF omitted)`), domain.MediaGIF},
	{regexp.MustCompile(`(?i)\x{200e}?(documento omitido|document omitted)`), domain.MediaDocument},
	{regexp.MustCompile(`(?i)\x{200e}?(contacto omitido|contact omitted)`), domain.MediaContact},
	{regexp.MustCompile(`(?i)<Media omitted>|<Multimedia omitido>|<Archivo omitido>`), domain.MediaOmitted},
}

// Фразы системных событий. Порядок важен: первый сработавший шаблон
// определяет тип события.
type systemRule struct {
	re   *regexp.Regexp
	kind domain.SystemKind
}

var systemRules = []systemRule{
	{regexp.MustCompile(`(?i)^\x{200e}?(Messages and calls are end-to-end encrypted|Los mensajes y las llamadas están cifrados de extremo a extremo)`), domain.SystemEncryptionNotice},
	{regexp.MustCompile(`(?i)^\x{200e}?(You deleted this message\.?|Eliminaste este mensaje\.?|This message was deleted\.?|Se eliminó este mensaje\.?)$`), domain.SystemDeleted},
	{regexp.MustCompile(`(?i)^\x{200e}?<?(This message was edited|Se editó este mensaje\.?)>?$`), domain.SystemEdited},
	{regexp.MustCompile(`(?i)(^You created this group$|^Creaste este grupo$|created group ".+"$|creó el grupo ".+"\.?$)`), domain.SystemGroupCreated},
	{regexp.MustCompile(`(?i)(^You changed the group name from ".+" to ".+"$|^Cambiaste el nombre del grupo de ".+" a ".+"\.?$|changed the group name from ".+" to ".+"$|cambió el nombre del grupo de ".+" a ".+"\.?$)`), domain.SystemGroupRenamed},
	{regexp.MustCompile(`(?i)(^(You added|were added)|^(Añadiste a|Se añadió a)|^\x{200e}?.+ (added you|added)|^\x{200e}?.+ (te añadió|añadió a))`), domain.SystemUserAdded},
	{regexp.MustCompile(`(?i)(^You removed .+$|^Eliminaste a .+\.?$|^\x{200e}?.+ removed .+$|^\x{200e}?.+ eliminó a .+\.?$)`), domain.SystemUserRemoved},
	{regexp.MustCompile(`(?i)(^\x{200e}?.+ left$|^\x{200e}?.+ salió del grupo\.?$)`), domain.SystemUserLeft},
	{regexp.MustCompile(`(?i)^\x{200e}?(Missed voice call|Missed video call|Llamada perdida)`), domain.SystemCallMissed},
	{regexp.MustCompile(`(?i)^\x{200e}?(POLL:|ENCUESTA:)`), domain.SystemPoll},
	{regexp.MustCompile(`(?i)^\x{200e}?(EVENT: |EVENTO: )`), domain.SystemCalendarEvent},
	{regexp.MustCompile(`(?i)^\x{200e}?(live location shared|location: https://maps\.google\.com|ubicación en tiempo real compartida|ubicación: https://maps\.google\.com)`), domain.SystemLocationShared},
}

// Маркеры редактирования, встроенные в текст обычного сообщения.
var editedMarkerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Mensaje editado a <This message was edited>`),
	regexp.MustCompile(`(?i)Mensaje editado a <Se editó este mensaje\.?>`),
	regexp.MustCompile(`(?i)<This message was edited>`),
	regexp.MustCompile(`(?i)<Se editó este mensaje\.?>`),
}

// Маркеры удаления, встроенные в текст (многострочный крайний случай).
var deletedMarkerRe = regexp.MustCompile(`(?i)(You deleted this message|Eliminaste este mensaje|This message was deleted|Se eliminó este mensaje)`)

// Шаблон для извлечения имени группы из события создания.
var groupNameRe = regexp.MustCompile(`(?i)(?:created group|creó el grupo) "(.+)"`)
