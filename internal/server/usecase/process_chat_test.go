package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"whatsapp-wrapped/internal/cache"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/pkg/config"
)

// Mocks for dependencies
type mockArchive struct{ mock.Mock }

func (m *mockArchive) ExtractTextEntry(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

func (m *mockArchive) ExtractNamedEntry(data []byte, name string) ([]byte, error) {
	args := m.Called(data, name)
	if res := args.Get(0); res != nil {
		return res.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockParser struct{ mock.Mock }

func (m *mockParser) Parse(data []byte) (*domain.ParsedChat, error) {
	args := m.Called(data)
	if res := args.Get(0); res != nil {
		return res.(*domain.ParsedChat), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Calculate(chat *domain.ParsedChat) (*domain.WrappedStats, error) {
	args := m.Called(chat)
	if res := args.Get(0); res != nil {
		return res.(*domain.WrappedStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestProcessChatUseCase(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Processing: config.Processing{CacheTTLMinutes: 10}}

	exportText := []byte("[01/02/2024, 10:00:00] Ana: hola")

	t.Run("успешная обработка текстового экспорта", func(t *testing.T) {
		archive := new(mockArchive)
		parser := new(mockParser)
		stats := new(mockStats)
		cacheStore := cache.NewCacheStore()
		uc := NewProcessChatUseCase(cfg, archive, parser, stats, cacheStore)

		chat := &domain.ParsedChat{GroupName: "Amigos"}
		wrapped := &domain.WrappedStats{Year: 2024, GroupName: "Amigos"}
		parser.On("Parse", exportText).Return(chat, nil).Once()
		stats.On("Calculate", chat).Return(wrapped, nil).Once()

		got, err := uc.ProcessChat(ctx, exportText, "_chat.txt")

		assert.NoError(t, err)
		assert.Equal(t, wrapped, got)

		// Результат должен оказаться в кеше по хешу содержимого
		cached, found := cacheStore.Get(cache.CalculateHash(exportText))
		assert.True(t, found)
		assert.Equal(t, wrapped, cached.Stats)

		archive.AssertNotCalled(t, "ExtractTextEntry", mock.Anything)
		parser.AssertExpectations(t)
		stats.AssertExpectations(t)
	})

	t.Run("zip-экспорт распаковывается перед разбором", func(t *testing.T) {
		archive := new(mockArchive)
		parser := new(mockParser)
		stats := new(mockStats)
		uc := NewProcessChatUseCase(cfg, archive, parser, stats, cache.NewCacheStore())

		zipBytes := []byte("PK\x03\x04 fake zip")
		chat := &domain.ParsedChat{}
		wrapped := &domain.WrappedStats{Year: 2024}

		archive.On("ExtractTextEntry", zipBytes).Return(string(exportText), nil).Once()
		parser.On("Parse", exportText).Return(chat, nil).Once()
		stats.On("Calculate", chat).Return(wrapped, nil).Once()

		got, err := uc.ProcessChat(ctx, zipBytes, "export.ZIP")

		assert.NoError(t, err)
		assert.Equal(t, wrapped, got)
		archive.AssertExpectations(t)
		parser.AssertExpectations(t)
	})

	t.Run("попадание в кеш", func(t *testing.T) {
		parser := new(mockParser)
		cacheStore := cache.NewCacheStore()
		uc := NewProcessChatUseCase(cfg, new(mockArchive), parser, new(mockStats), cacheStore)

		cachedStats := &domain.WrappedStats{Year: 2023}
		cacheStore.Put(cache.CalculateHash(exportText), cachedStats, 10*time.Minute)

		got, err := uc.ProcessChat(ctx, exportText, "_chat.txt")

		assert.NoError(t, err)
		assert.Equal(t, cachedStats, got)
		parser.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("ошибка распаковки архива", func(t *testing.T) {
		archive := new(mockArchive)
		uc := NewProcessChatUseCase(cfg, archive, nil, nil, cache.NewCacheStore())

		archiveErr := errors.New("no text entry")
		archive.On("ExtractTextEntry", mock.Anything).Return("", archiveErr)

		_, err := uc.ProcessChat(ctx, []byte("garbage"), "export.zip")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), archiveErr.Error())
	})

	t.Run("ошибка разбора", func(t *testing.T) {
		parser := new(mockParser)
		uc := NewProcessChatUseCase(cfg, new(mockArchive), parser, nil, cache.NewCacheStore())

		parseErr := errors.New("parse error")
		parser.On("Parse", mock.Anything).Return(nil, parseErr)

		_, err := uc.ProcessChat(ctx, exportText, "_chat.txt")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), parseErr.Error())
		parser.AssertExpectations(t)
	})

	t.Run("ошибка вычисления статистики", func(t *testing.T) {
		parser := new(mockParser)
		stats := new(mockStats)
		uc := NewProcessChatUseCase(cfg, new(mockArchive), parser, stats, cache.NewCacheStore())

		chat := &domain.ParsedChat{}
		statsErr := errors.New("stats error")
		parser.On("Parse", mock.Anything).Return(chat, nil)
		stats.On("Calculate", chat).Return(nil, statsErr)

		_, err := uc.ProcessChat(ctx, exportText, "_chat.txt")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), statsErr.Error())
		stats.AssertExpectations(t)
	})

	t.Run("отмененный контекст", func(t *testing.T) {
		uc := NewProcessChatUseCase(cfg, new(mockArchive), new(mockParser), new(mockStats), cache.NewCacheStore())

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := uc.ProcessChat(canceled, exportText, "_chat.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
