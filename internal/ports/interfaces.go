package ports

import (
	"context"
	"whatsapp-wrapped/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных чата.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// Archive определяет интерфейс для работы с архивом экспорта.
type Archive interface {
	// ExtractTextEntry находит файл переписки внутри архива и возвращает
	// его содержимое как строку UTF-8.
	ExtractTextEntry(data []byte) (string, error)
	// ExtractNamedEntry возвращает сырые байты медиа-файла по точному
	// имени или по суффиксу имени.
	ExtractNamedEntry(data []byte, name string) ([]byte, error)
}

// Parser определяет интерфейс для разбора текста экспорта.
type Parser interface {
	// Parse преобразует сырые данные в классифицированную модель чата.
	Parse(data []byte) (*domain.ParsedChat, error)
}

// StatsService определяет интерфейс для вычисления годовой статистики.
type StatsService interface {
	Calculate(chat *domain.ParsedChat) (*domain.WrappedStats, error)
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export принимает финальную статистику и выводит ее.
	Export(stats *domain.WrappedStats) error
}

// StoreClient определяет интерфейс клиента удаленного key-value хранилища,
// используемого механизмом "поделиться ссылкой".
type StoreClient interface {
	Put(ctx context.Context, value string) (string, error)
	Get(ctx context.Context, key string) (string, error)
}
