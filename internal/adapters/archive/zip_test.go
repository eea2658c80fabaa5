package archive

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractTextEntry(t *testing.T) {
	a := NewZipArchive()

	t.Run("Предпочитается _chat.txt", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"other.txt": "other",
			"_chat.txt": "chat export",
		})

		text, err := a.ExtractTextEntry(data)
		require.NoError(t, err)
		assert.Equal(t, "chat export", text)
	})

	t.Run("_chat.txt находится и внутри каталога", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"export/_chat.txt": "nested chat",
		})

		text, err := a.ExtractTextEntry(data)
		require.NoError(t, err)
		assert.Equal(t, "nested chat", text)
	})

	t.Run("Без _chat.txt берется первый .txt", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"conversacion.txt": "fallback export",
			"IMG-0001.jpg":     "binary",
		})

		text, err := a.ExtractTextEntry(data)
		require.NoError(t, err)
		assert.Equal(t, "fallback export", text)
	})

	t.Run("Служебные записи macOS пропускаются", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"__MACOSX/_chat.txt": "resource fork",
			"real.txt":           "real export",
		})

		text, err := a.ExtractTextEntry(data)
		require.NoError(t, err)
		assert.Equal(t, "real export", text)
	})

	t.Run("Архив без текста дает ошибку", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"IMG-0001.jpg": "binary",
		})

		_, err := a.ExtractTextEntry(data)
		assert.Error(t, err)
	})

	t.Run("Не-zip данные дают ошибку", func(t *testing.T) {
		_, err := a.ExtractTextEntry([]byte("not a zip"))
		assert.Error(t, err)
	})
}

func TestExtractNamedEntry(t *testing.T) {
	a := NewZipArchive()
	data := buildZip(t, map[string]string{
		"export/STK-001.webp": "sticker bytes",
		"_chat.txt":           "chat",
	})

	t.Run("Точное совпадение пути", func(t *testing.T) {
		got, err := a.ExtractNamedEntry(data, "export/STK-001.webp")
		require.NoError(t, err)
		assert.Equal(t, []byte("sticker bytes"), got)
	})

	t.Run("Совпадение по имени файла", func(t *testing.T) {
		got, err := a.ExtractNamedEntry(data, "STK-001.webp")
		require.NoError(t, err)
		assert.Equal(t, []byte("sticker bytes"), got)
	})

	t.Run("Несуществующая запись", func(t *testing.T) {
		_, err := a.ExtractNamedEntry(data, "VID-002.mp4")
		assert.Error(t, err)
	})
}
