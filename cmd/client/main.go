package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whatsapp-wrapped/internal/adapters/archive"
	"whatsapp-wrapped/internal/adapters/exporter"
	"whatsapp-wrapped/internal/adapters/parser"
	"whatsapp-wrapped/internal/adapters/source"
	"whatsapp-wrapped/internal/adapters/store"
	"whatsapp-wrapped/internal/codec"
	"whatsapp-wrapped/internal/core/services"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/pkg/term"
)

type TaskStatusResponse struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func main() {
	var (
		serverAddr string
		remote     bool
		xlsxPath   string
		share      bool
		fetchKey   string
		printCode  bool
	)
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.BoolVar(&remote, "remote", false, "Обработать экспорт на сервере вместо локального разбора")
	flag.StringVar(&xlsxPath, "xlsx", "", "Сохранить отчет в xlsx-файл по указанному пути")
	flag.BoolVar(&share, "share", false, "Зашифровать результат и опубликовать его на сервере")
	flag.StringVar(&fetchKey, "fetch", "", "Получить опубликованный результат по ключу хранилища")
	flag.BoolVar(&printCode, "code", false, "Напечатать компактный base62-код статистики")
	flag.Parse()

	if fetchKey != "" {
		fetchAndPrint(serverAddr, fetchKey)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		log.Fatal("Требуется путь к экспорту. Использование: client [flags] <export.txt|export.zip>")
	}
	filePath := args[0]

	if remote {
		processRemote(serverAddr, filePath)
		return
	}

	stats := processLocal(filePath)

	var exp interface {
		Export(stats *domain.WrappedStats) error
	}
	if xlsxPath != "" {
		exp = exporter.NewExcelExporter(xlsxPath)
	} else {
		exp = exporter.NewConsoleExporter()
	}
	if err := exp.Export(stats); err != nil {
		log.Fatalf("Не удалось вывести отчет: %v", err)
	}
	if xlsxPath != "" {
		fmt.Printf("Отчет сохранен: %s\n", xlsxPath)
	}

	if printCode {
		encoded, err := codec.Encode(stats)
		if err != nil {
			log.Fatalf("Не удалось закодировать статистику: %v", err)
		}
		fmt.Printf("\nКод статистики: %s\n", encoded)
	}

	if share {
		publish(serverAddr, stats)
	}
}

// processLocal разбирает экспорт и считает статистику без сервера.
func processLocal(filePath string) *domain.WrappedStats {
	data, err := source.NewCliSource(filePath).Fetch()
	if err != nil {
		log.Fatalf("Не удалось прочитать экспорт: %v", err)
	}

	if strings.HasSuffix(strings.ToLower(filePath), ".zip") {
		text, err := archive.NewZipArchive().ExtractTextEntry(data)
		if err != nil {
			log.Fatalf("Не удалось распаковать архив: %v", err)
		}
		data = []byte(text)
	}

	chat, err := parser.NewTextParser().Parse(data)
	if err != nil {
		log.Fatalf("Не удалось разобрать экспорт: %v", err)
	}

	stats, err := services.NewStatsService().Calculate(chat)
	if err != nil {
		log.Fatalf("Не удалось посчитать статистику: %v", err)
	}
	return stats
}

// publish шифрует статистику и публикует ее на сервере.
// Ключ шифрования печатается один раз и на сервер не уходит.
func publish(serverAddr string, stats *domain.WrappedStats) {
	svc := services.NewShareService(store.NewHTTPStoreClient(serverAddr))
	ticket, err := svc.Publish(context.Background(), stats)
	if err != nil {
		log.Fatalf("Не удалось опубликовать результат: %v", err)
	}

	fmt.Printf("\nРезультат опубликован.\n")
	fmt.Printf("Ключ хранилища: %s\n", ticket.StoreKey)
	fmt.Printf("Ключ шифрования (сохраните, восстановить его нельзя): %s\n", ticket.EncryptionKey)
}

// fetchAndPrint получает опубликованный результат и расшифровывает его.
func fetchAndPrint(serverAddr, storeKey string) {
	keyStr, err := term.NewTerminal().ReadKey("Введите ключ шифрования: ")
	if err != nil {
		log.Fatalf("Не удалось прочитать ключ: %v", err)
	}

	svc := services.NewShareService(store.NewHTTPStoreClient(serverAddr))
	stats, err := svc.Fetch(context.Background(), storeKey, keyStr)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			log.Fatal("Ссылка недействительна или срок ее действия истек")
		case errors.Is(err, domain.ErrAuthentication):
			log.Fatal("Расшифровка не удалась: неверный ключ или поврежденные данные")
		default:
			log.Fatalf("Не удалось получить результат: %v", err)
		}
	}

	if err := exporter.NewConsoleExporter().Export(stats); err != nil {
		log.Fatalf("Не удалось вывести отчет: %v", err)
	}
}

// processRemote загружает экспорт на сервер и ждет результата.
func processRemote(serverAddr, filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Не удалось открыть файл %s: %v", filePath, err)
	}
	defer file.Close()

	// Создание многочастной формы для загрузки файла
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		log.Fatalf("Не удалось создать файл формы: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		log.Fatalf("Не удалось записать данные файла: %v", err)
	}

	// Важно закрыть writer, чтобы записать завершающую границу
	if err := writer.Close(); err != nil {
		log.Fatalf("Не удалось закрыть multipart writer: %v", err)
	}

	// Отправка файла на сервер
	resp, err := http.Post(serverAddr+"/api/v1/process", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("Не удалось отправить запрос: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Сервер вернул статус: %d", resp.StatusCode)
	}

	// Разбор идентификатора задачи из ответа
	var taskResp map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		log.Fatalf("Не удалось декодировать ответ: %v", err)
	}
	taskID := taskResp["task_id"]
	if taskID == "" {
		log.Fatal("Идентификатор задачи не найден в ответе")
	}

	fmt.Printf("Задача создана с идентификатором: %s\n", taskID)

	// Опрос о статусе задачи
	for {
		time.Sleep(2 * time.Second) // Ожидание перед следующим опросом

		resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s", serverAddr, taskID))
		if err != nil {
			log.Fatalf("Не удалось опросить статус задачи: %v", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Fatalf("Сервер вернул статус: %d", resp.StatusCode)
		}

		var statusResp TaskStatusResponse
		err = json.NewDecoder(resp.Body).Decode(&statusResp)
		resp.Body.Close()
		if err != nil {
			log.Fatalf("Не удалось декодировать ответ статуса: %v", err)
		}

		fmt.Printf("Статус задачи: %s\n", statusResp.Status)

		switch statusResp.Status {
		case "completed":
			fmt.Println("Задача выполнена успешно.")
			// Получение и вывод результата.
			resultResp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s/result", serverAddr, taskID))
			if err != nil {
				log.Fatalf("Не удалось получить результат: %v", err)
			}
			defer resultResp.Body.Close()

			if resultResp.StatusCode != http.StatusOK {
				log.Fatalf("Сервер вернул статус для результата: %d", resultResp.StatusCode)
			}

			resultData, err := io.ReadAll(resultResp.Body)
			if err != nil {
				log.Fatalf("Не удалось прочитать тело результата: %v", err)
			}

			fmt.Println("Результат задачи:")
			fmt.Println(string(resultData))
			return
		case "failed":
			fmt.Printf("Задача не выполнена: %s\n", statusResp.ErrorMessage)
			os.Exit(1)
		case "pending", "processing":
			// Продолжение опроса
			continue
		default:
			log.Fatalf("Неизвестный статус задачи: %s", statusResp.Status)
		}
	}
}
