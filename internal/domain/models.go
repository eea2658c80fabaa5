package domain

import "time"

// MediaKind определяет тип медиа-события.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaSticker  MediaKind = "sticker"
	MediaGIF      MediaKind = "gif"
	MediaDocument MediaKind = "document"
	MediaContact  MediaKind = "contact"
	// MediaOmitted — медиа без определенного типа ("<Media omitted>").
	MediaOmitted MediaKind = "omitted"
)

// SystemKind определяет тип системного события.
type SystemKind string

const (
	SystemEncryptionNotice SystemKind = "encryption_notice"
	SystemDeleted          SystemKind = "deleted"
	SystemEdited           SystemKind = "edited"
	SystemGroupCreated     SystemKind = "group_created"
	SystemGroupRenamed     SystemKind = "group_renamed"
	SystemUserAdded        SystemKind = "user_added"
	SystemUserRemoved      SystemKind = "user_removed"
	SystemUserLeft         SystemKind = "user_left"
	SystemCallMissed       SystemKind = "call_missed"
	SystemPoll             SystemKind = "poll"
	SystemCalendarEvent    SystemKind = "event"
	SystemLocationShared   SystemKind = "location_shared"
	// SystemUnrecognized — строка, похожая на системную, но не опознанная
	// ни одним из шаблонов. Не отбрасывается, чтобы не терять счетчики.
	SystemUnrecognized SystemKind = "unrecognized"
)

// NormalMessage представляет обычное сообщение участника.
type NormalMessage struct {
	Timestamp time.Time
	Author    string
	Content   string
	Edited    bool
	Deleted   bool
}

// MediaEvent представляет отправку медиа (реальный файл или плейсхолдер).
type MediaEvent struct {
	Timestamp time.Time
	Author    string
	Kind      MediaKind
	// FileName пустой, когда событие — плейсхолдер вида "imagen omitida".
	FileName string
}

// SystemEvent представляет служебную строку экспорта.
type SystemEvent struct {
	Timestamp  time.Time
	Author     string
	Kind       SystemKind
	RawContent string
}

// ParsedChat — результат разбора экспорта: три типизированных потока
// плюс извлеченное имя группы. После разбора не изменяется.
type ParsedChat struct {
	GroupName string
	Messages  []NormalMessage
	Media     []MediaEvent
	System    []SystemEvent
}

// Totals содержит суммарные счетчики за год.
type Totals struct {
	Messages   int `json:"messages"`
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// SenderCount — место в рейтинге отправителей.
// NameIndex — индекс в WrappedStats.Participants, не само имя.
type SenderCount struct {
	NameIndex int `json:"name_index"`
	Messages  int `json:"messages"`
}

// AuthorCount — один автор со счетчиком, используется для всех
// одиночных "победителей" по категориям.
type AuthorCount struct {
	NameIndex int `json:"name_index"`
	Count     int `json:"count"`
}

// FrequentMessage — повторяющееся сообщение.
type FrequentMessage struct {
	AuthorIndex int    `json:"author_index"`
	Content     string `json:"content"`
	Count       int    `json:"count"`
}

// WordCount — слово со счетчиком.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EmojiCount — эмодзи со счетчиком.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// PeakDay — день с максимальной активностью. Дата в формате YYYY-MM-DD.
type PeakDay struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
}

// Streak — отрезок календарных дней. Даты в формате YYYY-MM-DD.
type Streak struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

// StickerCount — конкретный стикер (по имени файла) со счетчиком.
type StickerCount struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
}

// StickerSender — комбинация (автор, стикер) со счетчиком.
type StickerSender struct {
	NameIndex int    `json:"name_index"`
	Sticker   string `json:"sticker"`
	Count     int    `json:"count"`
}

// WrappedStats — итоговая запись статистики за год.
//
// Каждое опциональное поле присутствует только если исходные данные
// прошли порог значимости: nil означает "категории нет вообще", а не
// "категория пустая". Все поля, ссылающиеся на участника, хранят индекс
// в Participants — это инвариант, который кодек обязан сохранять.
type WrappedStats struct {
	Year         int      `json:"year"`
	GroupName    string   `json:"group_name"`
	Participants []string `json:"participants"`

	Totals               *Totals           `json:"totals,omitempty"`
	TopSenders           []SenderCount     `json:"top_senders,omitempty"`
	TopDeleter           *AuthorCount      `json:"top_deleter,omitempty"`
	TopEditor            *AuthorCount      `json:"top_editor,omitempty"`
	MostFrequentMessages []FrequentMessage `json:"most_frequent_message,omitempty"`
	TopWords             []WordCount       `json:"top_words,omitempty"`
	TopEmojis            []EmojiCount      `json:"top_emojis,omitempty"`
	MessagesPerMonth     map[int]int       `json:"messages_per_month,omitempty"`
	PeakActivityDay      *PeakDay          `json:"peak_activity_day,omitempty"`
	LongestActivity      *Streak           `json:"longest_activity_streak,omitempty"`
	LongestSilence       *Streak           `json:"longest_silence_streak,omitempty"`
	TopStickers          []StickerCount    `json:"top_stickers,omitempty"`
	TopStickerSenders    []StickerSender   `json:"top_sticker_senders,omitempty"`
	MostStickerSender    *AuthorCount      `json:"most_sticker_sender,omitempty"`
	MostImageSender      *AuthorCount      `json:"most_image_sender,omitempty"`
	MostVideoSender      *AuthorCount      `json:"most_video_sender,omitempty"`
	MostAudioSender      *AuthorCount      `json:"most_audio_sender,omitempty"`
	MostDocumentSender   *AuthorCount      `json:"most_document_sender,omitempty"`
	MostLocationSender   *AuthorCount      `json:"most_location_sender,omitempty"`
	MostPollStarter      *AuthorCount      `json:"most_poll_starter,omitempty"`
}

// Participant возвращает имя участника по индексу. Пустая строка для
// индекса вне таблицы, чтобы не падать на битых данных.
func (w *WrappedStats) Participant(idx int) string {
	if idx < 0 || idx >= len(w.Participants) {
		return ""
	}
	return w.Participants[idx]
}
