package services

import (
	"context"
	"fmt"

	"whatsapp-wrapped/internal/codec"
	"whatsapp-wrapped/internal/crypto"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

// ShareTicket — результат публикации: ключ хранилища для получателя и
// ключ шифрования, который существует только на клиентах.
type ShareTicket struct {
	StoreKey      string
	EncryptionKey string
}

// ShareService публикует и получает зашифрованные результаты через
// удаленное key-value хранилище. Сервер видит только шифротекст.
type ShareService struct {
	store ports.StoreClient
}

// NewShareService создает новый экземпляр ShareService.
func NewShareService(store ports.StoreClient) *ShareService {
	return &ShareService{store: store}
}

// Publish кодирует, шифрует и публикует статистику. Ошибка публикации
// не обесценивает саму статистику: вызывающий все еще держит ее в руках.
func (s *ShareService) Publish(ctx context.Context, stats *domain.WrappedStats) (*ShareTicket, error) {
	encoded, err := codec.EncodeBytes(stats)
	if err != nil {
		return nil, fmt.Errorf("не удалось закодировать статистику: %w", err)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("не удалось создать ключ: %w", err)
	}

	ciphertext, err := key.Encrypt(encoded)
	if err != nil {
		return nil, fmt.Errorf("не удалось зашифровать статистику: %w", err)
	}

	storeKey, err := s.store.Put(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("не удалось опубликовать результат: %w", err)
	}

	return &ShareTicket{StoreKey: storeKey, EncryptionKey: key.Export()}, nil
}

// Fetch получает опубликованный результат и расшифровывает его
// ключом из фрагмента ссылки.
func (s *ShareService) Fetch(ctx context.Context, storeKey, encryptionKey string) (*domain.WrappedStats, error) {
	ciphertext, err := s.store.Get(ctx, storeKey)
	if err != nil {
		return nil, err
	}

	key, err := crypto.ImportKey(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("некорректный ключ: %w", err)
	}

	plaintext, err := key.Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}

	stats, err := codec.DecodeBytes(plaintext)
	if err != nil {
		return nil, fmt.Errorf("не удалось раскодировать статистику: %w", err)
	}
	return stats, nil
}
