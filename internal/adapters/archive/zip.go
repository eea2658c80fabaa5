// Package archive извлекает текст экспорта из zip-архивов WhatsApp.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"whatsapp-wrapped/internal/ports"
)

// preferredEntry — имя, под которым WhatsApp кладет текст экспорта в архив.
const preferredEntry = "_chat.txt"

// ZipArchive реализует интерфейс Archive поверх zip-архивов.
type ZipArchive struct{}

// NewZipArchive создает новый экземпляр ZipArchive.
func NewZipArchive() ports.Archive {
	return &ZipArchive{}
}

// ExtractTextEntry находит в архиве текст экспорта и возвращает его.
// Предпочитается запись _chat.txt, иначе берется первый .txt файл.
// Служебные записи macOS пропускаются.
func (a *ZipArchive) ExtractTextEntry(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("не удалось открыть архив: %w", err)
	}

	var fallback *zip.File
	for _, f := range r.File {
		if skipEntry(f.Name) {
			continue
		}
		base := path.Base(f.Name)
		if base == preferredEntry {
			return readEntry(f)
		}
		if fallback == nil && strings.HasSuffix(strings.ToLower(base), ".txt") {
			fallback = f
		}
	}

	if fallback != nil {
		return readEntry(fallback)
	}
	return "", fmt.Errorf("в архиве нет текстового экспорта")
}

// ExtractNamedEntry извлекает запись по имени: сначала точное совпадение,
// затем совпадение по последнему компоненту пути.
func (a *ZipArchive) ExtractNamedEntry(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть архив: %w", err)
	}

	for _, f := range r.File {
		if f.Name == name {
			return readEntryBytes(f)
		}
	}
	for _, f := range r.File {
		if skipEntry(f.Name) {
			continue
		}
		if path.Base(f.Name) == name {
			return readEntryBytes(f)
		}
	}
	return nil, fmt.Errorf("запись %s не найдена в архиве", name)
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasSuffix(name, "/")
}

func readEntry(f *zip.File) (string, error) {
	data, err := readEntryBytes(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readEntryBytes(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть запись %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать запись %s: %w", f.Name, err)
	}
	return data, nil
}
