package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"whatsapp-wrapped/internal/cache"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/pkg/config"
	"whatsapp-wrapped/internal/ports"
)

// ProcessChatUseCase инкапсулирует бизнес-логику для обработки файла экспорта чата.
type ProcessChatUseCase struct {
	cfg        *config.Config
	archive    ports.Archive
	parser     ports.Parser
	stats      ports.StatsService
	cacheStore *cache.CacheStore
}

// NewProcessChatUseCase создает новый экземпляр ProcessChatUseCase.
func NewProcessChatUseCase(
	cfg *config.Config,
	archive ports.Archive,
	parser ports.Parser,
	stats ports.StatsService,
	cacheStore *cache.CacheStore,
) *ProcessChatUseCase {
	return &ProcessChatUseCase{
		cfg:        cfg,
		archive:    archive,
		parser:     parser,
		stats:      stats,
		cacheStore: cacheStore,
	}
}

// ProcessChat обрабатывает один экспорт чата: распаковывает архив при
// необходимости, разбирает текст и считает годовую статистику.
// Результат кешируется по хешу содержимого экспорта.
func (uc *ProcessChatUseCase) ProcessChat(ctx context.Context, data []byte, fileName string) (*domain.WrappedStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := cache.CalculateHash(data)
	if cachedItem, found := uc.cacheStore.Get(hash); found {
		slog.Info("Попадание в кеш для экспорта", "hash", hash)
		return cachedItem.Stats, nil
	}

	text := string(data)
	if strings.HasSuffix(strings.ToLower(fileName), ".zip") {
		extracted, err := uc.archive.ExtractTextEntry(data)
		if err != nil {
			return nil, fmt.Errorf("не удалось распаковать архив %s: %w", fileName, err)
		}
		text = extracted
		slog.Info("Архив распакован", "file", fileName, "text_length", len(text))
	}

	chat, err := uc.parser.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать экспорт %s: %w", fileName, err)
	}
	slog.Info("Разобран чат", "file", fileName,
		"message_count", len(chat.Messages),
		"media_count", len(chat.Media),
		"system_count", len(chat.System))

	stats, err := uc.stats.Calculate(chat)
	if err != nil {
		return nil, fmt.Errorf("не удалось посчитать статистику для %s: %w", fileName, err)
	}

	ttl := time.Duration(uc.cfg.Processing.CacheTTLMinutes) * time.Minute
	uc.cacheStore.Put(hash, stats, ttl)
	slog.Info("Результат кеширован", "hash", hash, "ttl", ttl.String())

	slog.Info("Обработка успешно завершена", "year", stats.Year, "participants", len(stats.Participants))
	return stats, nil
}
