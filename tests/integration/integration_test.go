package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	kzip "github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-wrapped/internal/adapters/archive"
	"whatsapp-wrapped/internal/adapters/exporter"
	"whatsapp-wrapped/internal/adapters/parser"
	"whatsapp-wrapped/internal/adapters/source"
	"whatsapp-wrapped/internal/cache"
	"whatsapp-wrapped/internal/codec"
	"whatsapp-wrapped/internal/core/services"
	"whatsapp-wrapped/internal/crypto"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/pkg/config"
	"whatsapp-wrapped/internal/server"
	"whatsapp-wrapped/internal/server/usecase"
)

const sampleExport = "1/15/24, 2:00 PM - Messages and calls are end-to-end encrypted.\n" +
	"1/15/24, 2:01 PM - Ana created group \"Amigos 2024\"\n" +
	"1/15/24, 2:05 PM - Ana: hola a todos\n" +
	"1/15/24, 2:06 PM - Beto: hola Ana\n" +
	"1/16/24, 9:00 AM - Ana: vacaciones pronto 😂\n" +
	"1/16/24, 9:05 AM - Beto: IMG-20240116-WA0001.jpg (file attached)\n" +
	"1/17/24, 8:00 PM - Ana: vacaciones en la playa\n"

func buildExportZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := kzip.NewWriter(&buf)
	f, err := w.Create("_chat.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte(sampleExport))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// Этот интеграционный тест симулирует полный цикл работы приложения:
// источник -> архив -> разбор -> статистика -> вывод.
func TestFullApplicationFlow(t *testing.T) {
	tempDir := t.TempDir()
	exportFile := filepath.Join(tempDir, "WhatsApp Chat - Amigos.zip")
	require.NoError(t, os.WriteFile(exportFile, buildExportZip(t), 0644))

	src := source.NewCliSource(exportFile)
	data, err := src.Fetch()
	require.NoError(t, err)

	text, err := archive.NewZipArchive().ExtractTextEntry(data)
	require.NoError(t, err)

	chat, err := parser.NewTextParser().Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, "Amigos 2024", chat.GroupName)
	assert.Len(t, chat.Messages, 4)
	assert.Len(t, chat.Media, 1)

	stats, err := services.NewStatsService().Calculate(chat)
	require.NoError(t, err)
	assert.Equal(t, 2024, stats.Year)
	assert.ElementsMatch(t, []string{"Ana", "Beto"}, stats.Participants)
	require.NotNil(t, stats.Totals)
	// 4 сообщения + 1 медиа
	assert.Equal(t, 5, stats.Totals.Messages)

	var out bytes.Buffer
	require.NoError(t, exporter.NewConsoleExporterTo(&out).Export(stats))
	assert.Contains(t, out.String(), "Amigos 2024")
	assert.Contains(t, out.String(), "Ana")
}

// Публикация проходит весь путь подготовки ссылки: кодек, шифрование,
// транспортная форма и обратно.
func TestShareRoundTrip(t *testing.T) {
	chat, err := parser.NewTextParser().Parse([]byte(sampleExport))
	require.NoError(t, err)
	stats, err := services.NewStatsService().Calculate(chat)
	require.NoError(t, err)

	raw, err := codec.EncodeBytes(stats)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	transport, err := key.Encrypt(raw)
	require.NoError(t, err)

	// Получатель восстанавливает ключ из фрагмента ссылки.
	imported, err := crypto.ImportKey(key.Export())
	require.NoError(t, err)
	decrypted, err := imported.Decrypt(transport)
	require.NoError(t, err)

	decoded, err := codec.DecodeBytes(decrypted)
	require.NoError(t, err)
	assert.Equal(t, stats, decoded)

	// Чужой ключ не проходит аутентификацию.
	stranger, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = stranger.Decrypt(transport)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func newIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server:     config.Server{Host: "localhost", MaxUploadSizeMB: 10},
		Processing: config.Processing{TaskTimeoutSeconds: 30, CacheTTLMinutes: 60},
		Sharing:    config.Sharing{ItemTTLHours: 1},
	}
	cacheStore := cache.NewCacheStore()
	processor := usecase.NewProcessChatUseCase(
		cfg,
		archive.NewZipArchive(),
		parser.NewTextParser(),
		services.NewStatsService(),
		cacheStore,
	)
	srv, err := server.New(cfg, processor, server.NewTaskStore(), server.NewItemStore(), cacheStore)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.HTTPServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// Серверный сценарий: загрузка экспорта, ожидание задачи, получение
// результата.
func TestServerProcessFlow(t *testing.T) {
	ts := newIntegrationServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "export.zip")
	require.NoError(t, err)
	_, err = fw.Write(buildExportZip(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/process", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted struct {
		TaskID string `json:"task_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	require.NotEmpty(t, accepted.TaskID)

	// Обработка асинхронная: ждем завершения задачи.
	require.Eventually(t, func() bool {
		r, err := http.Get(ts.URL + "/api/v1/tasks/" + accepted.TaskID)
		if err != nil {
			return false
		}
		defer r.Body.Close()
		var status struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
			return false
		}
		return status.Status == string(server.TaskStatusCompleted)
	}, 5*time.Second, 50*time.Millisecond)

	r, err := http.Get(ts.URL + "/api/v1/tasks/" + accepted.TaskID + "/result")
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var stats domain.WrappedStats
	require.NoError(t, json.NewDecoder(r.Body).Decode(&stats))
	assert.Equal(t, 2024, stats.Year)
	assert.Equal(t, "Amigos 2024", stats.GroupName)
}

// Серверный сценарий обмена: публикация непрозрачного значения и его
// получение по ключу.
func TestServerShareFlow(t *testing.T) {
	ts := newIntegrationServer(t)

	payload, err := json.Marshal(map[string]string{"value": "зашифрованный-код"})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/v1/items", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.Key)

	r, err := http.Get(ts.URL + "/api/v1/items/" + created.Key)
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var fetched struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&fetched))
	assert.Equal(t, "зашифрованный-код", fetched.Value)

	// Несуществующий ключ неотличим от просроченного.
	missing, err := http.Get(ts.URL + "/api/v1/items/" + "no-such-key")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
