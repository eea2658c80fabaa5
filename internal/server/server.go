package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"whatsapp-wrapped/internal/cache"
	"whatsapp-wrapped/internal/domain"
	"whatsapp-wrapped/internal/pkg/config"
)

// ChatProcessor определяет интерфейс для варианта использования, который обрабатывает экспорты.
type ChatProcessor interface {
	ProcessChat(ctx context.Context, data []byte, fileName string) (*domain.WrappedStats, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	itemStore  *ItemStore
	cacheStore *cache.CacheStore
	processor  ChatProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ChatProcessor, taskStore *TaskStore, itemStore *ItemStore, cacheStore *cache.CacheStore) (*Server, error) {
	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})

	maxUpload := int64(cfg.Server.MaxUploadSizeMB) << 20
	itemTTL := time.Duration(cfg.Sharing.ItemTTLHours) * time.Hour

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		// Конечная точка для запуска новой задачи обработки
		r.Post("/process", func(w http.ResponseWriter, r *http.Request) {
			// Разбор мультипарт-формы
			err := r.ParseMultipartForm(maxUpload)
			if err != nil {
				http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
				return
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
				return
			}
			defer file.Close()

			data, err := io.ReadAll(io.LimitReader(file, maxUpload))
			if err != nil {
				http.Error(w, "Не удалось прочитать загруженный файл", http.StatusInternalServerError)
				return
			}
			slog.Info("Экспорт получен сервером", "file_name", header.Filename, "content_length", len(data))

			// Генерация уникального идентификатора задачи
			taskID := uuid.NewString()

			// Создание задачи в хранилище
			taskStore.CreateTask(taskID, 24*time.Hour) // TTL для записи о задаче

			// Запуск обработки в горутине
			go func() {
				// Обновление статуса до "в обработке"
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				// Создание контекста для задачи с таймаутом из конфигурации.
				taskCtx := context.Background()
				if cfg.Processing.TaskTimeoutSeconds > 0 {
					var cancel context.CancelFunc
					taskCtx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Processing.TaskTimeoutSeconds)*time.Second)
					defer cancel()
				}

				result, err := processor.ProcessChat(taskCtx, data, header.Filename)
				if err != nil {
					taskStore.UpdateTaskError(taskID, err.Error())
					return
				}

				// Обновление задачи с результатом
				taskStore.UpdateTaskResult(taskID, result)
			}()

			// Возврат идентификатора задачи
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для запуска новой задачи обработки по хешу
		r.Post("/process-by-hash", func(w http.ResponseWriter, r *http.Request) {
			// Разбор тела запроса
			var req struct {
				Hash string `json:"hash"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Не удалось декодировать тело запроса", http.StatusBadRequest)
				return
			}

			if req.Hash == "" {
				http.Error(w, "Требуется хеш", http.StatusBadRequest)
				return
			}

			// Генерация уникального идентификатора задачи
			taskID := uuid.NewString()

			// Создание задачи в хранилище
			taskStore.CreateTask(taskID, 24*time.Hour) // TTL для записи о задаче

			// Запуск обработки в горутине
			go func() {
				// Обновление статуса до "в обработке"
				taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

				// Попытка получить результат из кеша
				if cachedItem, found := cacheStore.Get(req.Hash); found {
					// Если найдено в кеше, обновить задачу кешированным результатом
					taskStore.UpdateTaskResult(taskID, cachedItem.Stats)
					slog.Info("Попадание в кеш для хеша", "hash", req.Hash, "task_id", taskID)
					return
				}

				// Экспорт с таким хешем еще не обрабатывался: для обработки
				// нужен сам файл.
				taskStore.UpdateTaskError(taskID, "Экспорт не найден в кеше для данного хеша")
				slog.Info("Промах кеша для хеша", "hash", req.Hash, "task_id", taskID)
			}()

			// Возврат идентификатора задачи
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
		})

		// Конечная точка для проверки статуса задачи
		r.Get("/tasks/{taskID}", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"task_id":       task.ID,
				"status":        task.Status,
				"error_message": task.ErrorMessage,
			})
		})

		// Конечная точка для получения результата задачи
		r.Get("/tasks/{taskID}/result", func(w http.ResponseWriter, r *http.Request) {
			taskID := chi.URLParam(r, "taskID")

			task, err := taskStore.GetTask(taskID)
			if err != nil {
				http.Error(w, "Задача не найдена", http.StatusNotFound)
				return
			}

			if task.Status != TaskStatusCompleted {
				http.Error(w, "Задача не завершена", http.StatusBadRequest)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(task.Result)
		})

		// Конечная точка для публикации зашифрованного результата.
		// Сервер не интерпретирует значение: это непрозрачная строка.
		r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Value string `json:"value"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Не удалось декодировать тело запроса", http.StatusBadRequest)
				return
			}
			if req.Value == "" {
				http.Error(w, "Требуется значение", http.StatusBadRequest)
				return
			}

			key := itemStore.PutItem(req.Value, itemTTL)
			slog.Info("Результат опубликован", "key", key, "value_length", len(req.Value))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"key": key})
		})

		// Конечная точка для получения опубликованного результата.
		// Несуществующий и просроченный ключ дают одинаковый ответ.
		r.Get("/items/{key}", func(w http.ResponseWriter, r *http.Request) {
			key := chi.URLParam(r, "key")

			value, err := itemStore.GetItem(key)
			if err != nil {
				http.Error(w, "Ссылка недействительна или срок ее действия истек", http.StatusNotFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"key": key, "value": value})
		})
	})

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	s := &Server{
		HTTPServer: httpServer,
		cfg:        cfg,
		taskStore:  taskStore,
		itemStore:  itemStore,
		cacheStore: cacheStore,
		processor:  processor,
	}

	// Запуск тикеров для очистки просроченных задач, элементов и кеша
	ctx := context.Background()
	s.taskStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	s.itemStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	s.cacheStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)

	return s, nil
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Завершение работы HTTP-сервера")
	return s.HTTPServer.Shutdown(ctx)
}
