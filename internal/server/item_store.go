package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Item представляет один опубликованный зашифрованный результат.
// Сервер хранит значение как непрозрачную строку и никогда не видит
// ключа шифрования.
type Item struct {
	Key       string
	Value     string
	CreatedAt time.Time
	ExpiresAt time.Time // Для автоматической очистки
}

// ItemStore управляет хранением и извлечением опубликованных элементов
type ItemStore struct {
	items map[string]*Item
	mutex sync.RWMutex
}

// NewItemStore создает новый экземпляр ItemStore
func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make(map[string]*Item),
	}
}

// PutItem сохраняет значение под новым непредсказуемым ключом
func (is *ItemStore) PutItem(value string, ttl time.Duration) string {
	is.mutex.Lock()
	defer is.mutex.Unlock()

	key := uuid.NewString()
	now := time.Now()
	is.items[key] = &Item{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return key
}

// GetItem извлекает значение по ключу. Просроченный элемент
// неотличим от несуществующего.
func (is *ItemStore) GetItem(key string) (string, error) {
	is.mutex.RLock()
	defer is.mutex.RUnlock()

	item, exists := is.items[key]
	if !exists || time.Now().After(item.ExpiresAt) {
		return "", fmt.Errorf("элемент с ключом %s не найден", key)
	}

	return item.Value, nil
}

// CleanupExpired удаляет просроченные элементы из хранилища
func (is *ItemStore) CleanupExpired() {
	is.mutex.Lock()
	defer is.mutex.Unlock()

	now := time.Now()
	for key, item := range is.items {
		if now.After(item.ExpiresAt) {
			delete(is.items, key)
		}
	}
}

// StartCleanupTicker запускает тикер для периодической очистки просроченных элементов
func (is *ItemStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				is.CleanupExpired()
			}
		}
	}()
}
