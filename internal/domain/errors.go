package domain

import "errors"

// ErrUnsupportedFormat возвращается парсером, когда во всем документе
// не нашлось ни одной строки с распознаваемым заголовком. Для
// пользователя это "формат экспорта не поддерживается".
var ErrUnsupportedFormat = errors.New("no messages found or date format not supported")

// ErrAuthentication возвращается при расшифровке, если шифротекст был
// изменен или подан неверный ключ. Частичный открытый текст при этом
// не возвращается.
var ErrAuthentication = errors.New("ciphertext authentication failed")

// ErrItemNotFound возвращается хранилищем обмена, когда ключа нет или
// срок его действия истек. Эти случаи намеренно неразличимы.
var ErrItemNotFound = errors.New("item not found or expired")
