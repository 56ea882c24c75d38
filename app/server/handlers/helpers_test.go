package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"io"
	"mangosteen-ledger/app/server/constants"
	"mangosteen-ledger/app/server/inits"
	"mangosteen-ledger/app/server/jwt"
	"mangosteen-ledger/app/server/mailer"
	"mangosteen-ledger/app/server/models"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const testPassword = "123456"

type testEnv struct {
	app   *App
	e     *echo.Echo
	db    *gorm.DB
	mr    *miniredis.Miniredis
	queue *mailer.Queue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// 每个连接都是独立的内存库，只能用一个
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err = inits.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	j, err := jwt.New("test-signature-key")
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	queue := mailer.NewQueue(rdb)
	app := NewApp(zap.NewNop(), db, rdb, j, queue, "0123456789abcdef0123456789abcdef", time.Hour)

	e := echo.New()
	app.RegisterHandlers(e)

	return &testEnv{app: app, e: e, db: db, mr: mr, queue: queue}
}

func (env *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, errs, err := env.app.registerUser(context.Background(), email, testPassword)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if errs != nil {
		t.Fatalf("register %s: validation failed: %v", email, errs)
	}
	return user
}

func (env *testEnv) signIn(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := env.app.openSession(context.Background(), user)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return token
}

func (env *testEnv) createRecord(t *testing.T, owner *models.User, amount int64) *models.Record {
	t.Helper()
	record := &models.Record{
		UserID:   owner.ID,
		Amount:   amount,
		Category: constants.RecordCategoryOutgoings,
	}
	if err := env.db.Create(record).Error; err != nil {
		t.Fatalf("create record: %v", err)
	}
	return record
}

func (env *testEnv) serve(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(t *testing.T, method string, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return env.serve(t, req, token)
}

func (env *testEnv) doForm(t *testing.T, method string, path string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return env.serve(t, req, token)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func resourceOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resource, ok := decodeBody(t, rec)["resource"].(map[string]any)
	if !ok {
		t.Fatalf("response has no resource: %s", rec.Body.String())
	}
	return resource
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, want, rec.Body.String())
	}
}
