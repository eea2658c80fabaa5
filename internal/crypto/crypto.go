// Package crypto шифрует закодированную статистику перед публикацией
// в хранилище обмена. Используется AES-128-GCM: ключ живет только во
// фрагменте ссылки и никогда не покидает клиентов.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"whatsapp-wrapped/internal/codec"
	"whatsapp-wrapped/internal/domain"
)

const (
	// KeySize — 128-битный ключ: AES-128 достаточно, а ключ короче
	// во фрагменте ссылки.
	KeySize = 16
	// NonceSize — стандартный 96-битный nonce GCM.
	NonceSize = 12
)

// Key — симметричный ключ с base62-представлением для фрагмента ссылки.
type Key struct {
	raw []byte
}

// GenerateKey создает новый случайный ключ.
func GenerateKey() (*Key, error) {
	raw := make([]byte, KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Key{raw: raw}, nil
}

// ImportKey восстанавливает ключ из base62-строки фрагмента.
func ImportKey(encoded string) (*Key, error) {
	raw, err := codec.DecodeBase62(encoded)
	if err != nil {
		return nil, fmt.Errorf("import key: %w", err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("import key: expected %d bytes, got %d", KeySize, len(raw))
	}
	return &Key{raw: raw}, nil
}

// Export возвращает ключ как base62-строку для фрагмента ссылки.
func (k *Key) Export() string {
	return codec.EncodeBase62(k.raw)
}

// Encrypt шифрует данные и возвращает транспортную форму:
// base64(nonce || ciphertext). Nonce каждый раз новый.
func (k *Key) Encrypt(plaintext []byte) (string, error) {
	aead, err := k.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt разбирает транспортную форму и расшифровывает данные.
// Неверный ключ или подмененный шифротекст дают domain.ErrAuthentication.
func (k *Key) Decrypt(transport string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(transport)
	if err != nil {
		return nil, fmt.Errorf("decode transport: %w", err)
	}
	if len(sealed) < NonceSize {
		return nil, fmt.Errorf("transport too short: %d bytes", len(sealed))
	}

	aead, err := k.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, domain.ErrAuthentication
	}
	return plaintext, nil
}

func (k *Key) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(k.raw)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return aead, nil
}
