package parser

import (
	"strings"

	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

// TextParser реализует интерфейс Parser для текстовых экспортов WhatsApp.
type TextParser struct{}

// NewTextParser создает новый экземпляр TextParser.
func NewTextParser() ports.Parser {
	return &TextParser{}
}

// DefaultGroupName используется, когда событие создания группы
// отсутствует в экспорте.
const DefaultGroupName = "WhatsApp Group"

// Parse классифицирует каждую строку экспорта и раскладывает результат
// по трем потокам. Возвращает domain.ErrUnsupportedFormat, если ни одна
// строка не совпала с грамматикой заголовка.
func (p *TextParser) Parse(data []byte) (*domain.ParsedChat, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	chat := &domain.ParsedChat{}
	// Курсор на последнее принятое обычное сообщение: единственная
	// изменяемая позиция разбора, нужна для склейки многострочных
	// сообщений.
	lastMsg := -1
	headerSeen := false

	for _, line := range lines {
		h, ok := matchHeader(line)
		if !ok {
			// Строка-продолжение: дописывается к содержимому
			// последнего сообщения и никогда не порождает новых
			// медиа- или системных событий. До первого сообщения
			// такие строки игнорируются.
			if lastMsg >= 0 {
				chat.Messages[lastMsg].Content += "\n" + line
			}
			continue
		}
		headerSeen = true

		c := classifyHeader(h)
		switch {
		case c.message != nil:
			chat.Messages = append(chat.Messages, *c.message)
			lastMsg = len(chat.Messages) - 1
		case c.media != nil:
			chat.Media = append(chat.Media, *c.media)
		case c.system != nil:
			chat.System = append(chat.System, *c.system)
			if c.system.Kind == domain.SystemGroupCreated && chat.GroupName == "" {
				if m := groupNameRe.FindStringSubmatch(c.system.RawContent); m != nil {
					chat.GroupName = m[1]
				}
			}
		}
	}

	if !headerSeen {
		return nil, domain.ErrUnsupportedFormat
	}

	if chat.GroupName == "" {
		chat.GroupName = ExtractGroupName(text)
	}
	return chat, nil
}

// ExtractGroupName ищет фразу о создании группы во всем тексте экспорта
// и возвращает имя группы, либо значение по умолчанию.
func ExtractGroupName(text string) string {
	if m := groupNameRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return DefaultGroupName
}
