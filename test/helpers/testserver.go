package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"coursemate_backend/database"
	"coursemate_backend/internal/app"
	"coursemate_backend/internal/config"
	"coursemate_backend/internal/email"
	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services"
	"coursemate_backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - приложение целиком поверх MemoryStore и sqlite в памяти
type TestServer struct {
	Server   *httptest.Server
	Store    *repositories.MemoryStore
	DB       *gorm.DB
	Sender   *RecordingSender
	Services *services.ServiceContainer
	Config   *config.Config
}

var loggerOnce sync.Once

// Options меняют конфигурацию тестового сервера
type Options struct {
	Now               time.Time
	Mailer            email.Provider
	RequestsPerMinute int
	Burst             int
	RateLimitDisabled bool
}

// NewTestServer поднимает httptest-сервер. Закрывается через t.Cleanup.
func NewTestServer(t *testing.T, opts Options) *TestServer {
	t.Helper()
	loggerOnce.Do(func() { logger.InitWithWriter("test", io.Discard) })

	cfg := testConfig(t, opts)

	db, err := database.ConnectGorm(cfg)
	require.NoError(t, err, "Не удалось открыть sqlite журнал")
	require.NoError(t, database.AutoMigrate(db))

	store := repositories.NewMemoryStore()
	sender := &RecordingSender{}

	local, err := storage.NewLocalStorage(storage.Config{BasePath: cfg.Storage.BasePath, BaseURL: cfg.Storage.BaseURL})
	require.NoError(t, err)

	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.NoopProvider{}
	}

	deps := &app.Deps{
		Store:   store,
		Tickets: repositories.NewTicketRepository(db),
		Sender:  sender,
		Mailer:  mailer,
		Storage: local,
	}
	if !opts.Now.IsZero() {
		now := opts.Now
		deps.Now = func() time.Time { return now }
	}

	router, container := app.SetupRouter(cfg, deps)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &TestServer{
		Server:   server,
		Store:    store,
		DB:       db,
		Sender:   sender,
		Services: container,
		Config:   cfg,
	}
}

func testConfig(t *testing.T, opts Options) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Firebase.Backend = "memory"
	cfg.Schedule.Lookahead = time.Hour
	cfg.Schedule.Timezone = "UTC"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/uploads"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	cfg.Upload.ImageQuality = 80
	cfg.Upload.MaxDimension = 64
	cfg.RateLimit.RequestsPerMinute = opts.RequestsPerMinute
	cfg.RateLimit.Burst = opts.Burst
	enabled := !opts.RateLimitDisabled
	cfg.RateLimit.Enabled = &enabled
	return cfg
}

// SendRequest отправляет JSON-запрос и возвращает ответ и тело
func (ts *TestServer) SendRequest(t *testing.T, method, path string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.Do(t, req)
}

// Do выполняет уже собранный запрос (multipart и т.п.)
func (ts *TestServer) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")

	return res, string(resBodyBytes)
}

// DecodeJSON разбирает тело ответа в v
func DecodeJSON(t *testing.T, body string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), "Не удалось распарсить JSON: %s", body)
}
