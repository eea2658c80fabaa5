// Package store реализует клиента удаленного key-value хранилища
// опубликованных результатов.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/ports"
)

const defaultTimeout = 10 * time.Second

// HTTPStoreClient реализует интерфейс StoreClient поверх HTTP API
// сервера.
type HTTPStoreClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStoreClient создает новый экземпляр HTTPStoreClient.
func NewHTTPStoreClient(baseURL string) ports.StoreClient {
	return &HTTPStoreClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Put публикует непрозрачное значение и возвращает ключ хранилища.
func (c *HTTPStoreClient) Put(ctx context.Context, value string) (string, error) {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return "", fmt.Errorf("не удалось подготовить запрос: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/items", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("не удалось создать запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("не удалось опубликовать значение: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("сервер вернул статус %d", resp.StatusCode)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("не удалось декодировать ответ: %w", err)
	}
	if created.Key == "" {
		return "", fmt.Errorf("сервер вернул пустой ключ")
	}
	return created.Key, nil
}

// Get возвращает значение по ключу хранилища. Несуществующий и
// просроченный ключ дают domain.ErrItemNotFound.
func (c *HTTPStoreClient) Get(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/items/%s", c.baseURL, key), nil)
	if err != nil {
		return "", fmt.Errorf("не удалось создать запрос: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("не удалось получить значение: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", domain.ErrItemNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("сервер вернул статус %d", resp.StatusCode)
	}

	var fetched struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return "", fmt.Errorf("не удалось декодировать ответ: %w", err)
	}
	return fetched.Value, nil
}
