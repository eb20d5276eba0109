package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"leadgen-backend/config"
	"leadgen-backend/internal/delivery/http/middleware"
	v1 "leadgen-backend/internal/delivery/http/v1"
	"leadgen-backend/internal/domain"
	"leadgen-backend/internal/usecase"
	"leadgen-backend/pkg/security"
	"leadgen-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-process SubmissionRepository
type memoryRepo struct {
	mu      sync.Mutex
	records map[domain.Kind][]domain.Record
	failErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[domain.Kind][]domain.Record)}
}

func (m *memoryRepo) add(rec domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.records[rec.SubmissionKind()] = append(m.records[rec.SubmissionKind()], rec)
	return nil
}

func (m *memoryRepo) CreateContact(_ context.Context, rec *domain.ContactRecord) error {
	return m.add(rec)
}

func (m *memoryRepo) CreateBookCall(_ context.Context, rec *domain.BookCallRecord) error {
	return m.add(rec)
}

func (m *memoryRepo) CreateOrder(_ context.Context, rec *domain.OrderRecord) error {
	return m.add(rec)
}

func (m *memoryRepo) Get(_ context.Context, kind domain.Kind, id string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records[kind] {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, kind domain.Kind, limit, offset int) ([]domain.Record, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append([]domain.Record(nil), m.records[kind]...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].SubmittedAt().After(all[j].SubmittedAt()) })
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.Record{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *memoryRepo) Ping(context.Context) error { return nil }

func (m *memoryRepo) first(kind domain.Kind) domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[kind][0]
}

func (m *memoryRepo) count(kind domain.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[kind])
}

// recordingNotifier counts deliveries and can be made to fail
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Kind
	err  error
}

func (n *recordingNotifier) record(kind domain.Kind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, kind)
	return n.err
}

func (n *recordingNotifier) NotifyContact(context.Context, domain.ContactRecord) error {
	return n.record(domain.KindContact)
}

func (n *recordingNotifier) NotifyBookCall(context.Context, domain.BookCallRecord) error {
	return n.record(domain.KindBookCall)
}

func (n *recordingNotifier) NotifyOrder(context.Context, domain.OrderRecord) error {
	return n.record(domain.KindOrder)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const adminSecret = "router-test-secret"

type testServer struct {
	router   *gin.Engine
	repo     *memoryRepo
	notifier *recordingNotifier
	intake   domain.IntakeUsecase
	clock    *clock
}

func newTestServer(t *testing.T, probes map[string]usecase.Probe) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:                gin.TestMode,
		FrontendURL:            "http://localhost:3000",
		RateLimitWindowSeconds: 600,
		RateLimitMaxRequests:   10,
		MaxBodyBytes:           1 << 10,
		AdminJWTSecret:         adminSecret,
	}
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	clk := &clock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	intake := usecase.NewIntakeUsecase(repo, notifier, validation.New(), usecase.IntakeOptions{
		NotifyTimeout: time.Second,
		Now:           clk.Now,
	})
	if probes == nil {
		probes = map[string]usecase.Probe{"store": repo.Ping}
	}

	router := v1.NewRouter(v1.RouterDeps{
		IntakeUC: intake,
		AdminUC:  usecase.NewAdminUsecase(repo),
		HealthUC: usecase.NewHealthUsecase(probes, time.Second),
		Limiter:  middleware.NewMemoryLimiterWithClock(clk.Now),
		SecLog:   security.NopSecurityLogger(),
		Config:   cfg,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = intake.Drain(ctx)
	})
	return &testServer{router: router, repo: repo, notifier: notifier, intake: intake, clock: clk}
}

func (s *testServer) do(method, path, body, ip string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":40000"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.intake.Drain(ctx))
}

const (
	validContact  = `{"name":"Jane Doe","email":"jane@acme.io","company":"Acme","message":"We need 500 leads in fintech","website":""}`
	validBookCall = `{"name":"Jane Doe","email":"jane@acme.io","preferredDate":"2024-06-03","preferredTime":"10:00"}`
	minimalOrder  = `{"industry":"Technology","geography":["US"],"companySizes":["1-10"],"roles":["CEO"],"techFilters":[],"volume":100,"contactName":"A","contactEmail":"a@b.com","consent":true}`
	validOrder    = `{"industry":"SaaS","geography":["EU"],"companySizes":["51-200"],"roles":["CTO"],"techFilters":[],"volume":500,"contactName":"Jane Doe","contactEmail":"jane@acme.io","consent":true}`
)

func TestIntakeEndpoints(t *testing.T) {
	t.Run("Should accept each form", func(t *testing.T) {
		s := newTestServer(t, nil)

		cases := []struct {
			path, body, message string
			kind                domain.Kind
		}{
			{"/api/contact", validContact, "Contact form submitted successfully", domain.KindContact},
			{"/api/book-call", validBookCall, "Call booking submitted successfully", domain.KindBookCall},
			{"/api/order", validOrder, "Order submitted successfully", domain.KindOrder},
		}
		for _, tc := range cases {
			w := s.do(http.MethodPost, tc.path, tc.body, "10.1.0.1")
			assert.Equal(t, http.StatusOK, w.Code, tc.path)
			assert.JSONEq(t, fmt.Sprintf(`{"success":true,"message":%q}`, tc.message), w.Body.String())
			assert.Equal(t, 1, s.repo.count(tc.kind))
		}

		s.drain(t)
		assert.Equal(t, 3, s.notifier.count())
	})

	t.Run("Should accept the minimal contact form", func(t *testing.T) {
		s := newTestServer(t, nil)

		w := s.do(http.MethodPost, "/api/contact", `{"name":"Jo","email":"jo@x.com","message":"Hello there, checking in."}`, "10.1.0.7")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		require.Equal(t, 1, s.repo.count(domain.KindContact))
		rec := s.repo.first(domain.KindContact).(*domain.ContactRecord)
		assert.Equal(t, "contact", rec.Source)
	})

	t.Run("Should accept an order with a one letter contact name", func(t *testing.T) {
		s := newTestServer(t, nil)

		w := s.do(http.MethodPost, "/api/order", minimalOrder, "10.1.0.8")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		require.Equal(t, 1, s.repo.count(domain.KindOrder))
		rec := s.repo.first(domain.KindOrder).(*domain.OrderRecord)
		assert.Equal(t, 100, rec.Volume)
		assert.Equal(t, "A", rec.ContactName)
	})

	t.Run("Should reject an order without consent", func(t *testing.T) {
		s := newTestServer(t, nil)
		body := strings.Replace(minimalOrder, `"consent":true`, `"consent":false`, 1)

		w := s.do(http.MethodPost, "/api/order", body, "10.1.0.9")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"errors":[{"field":"consent","message":"Consent is required"}]}`, w.Body.String())
		assert.Zero(t, s.repo.count(domain.KindOrder))
	})

	t.Run("Should list every invalid field", func(t *testing.T) {
		s := newTestServer(t, nil)

		w := s.do(http.MethodPost, "/api/contact", `{"name":"J","email":"not-an-email","message":"hi"}`, "10.1.0.2")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"errors":[
			{"field":"name","message":"Name must be at least 2 characters"},
			{"field":"email","message":"Invalid email address"},
			{"field":"message","message":"Message must be at least 10 characters"}
		]}`, w.Body.String())
		assert.Zero(t, s.repo.count(domain.KindContact))
	})

	t.Run("Should reject spam like a malformed body", func(t *testing.T) {
		s := newTestServer(t, nil)

		spam := s.do(http.MethodPost, "/api/book-call", `{"name":"Bot","email":"bot@spam.io","website":"http://x.example"}`, "10.1.0.3")
		malformed := s.do(http.MethodPost, "/api/book-call", `["not","an","object"]`, "10.1.0.3")

		assert.Equal(t, http.StatusBadRequest, spam.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid submission"}`, spam.Body.String())
		assert.Equal(t, malformed.Code, spam.Code)
		assert.Equal(t, malformed.Body.String(), spam.Body.String())
		assert.Zero(t, s.repo.count(domain.KindBookCall))
		s.drain(t)
		assert.Zero(t, s.notifier.count())
	})

	t.Run("Should hide store failures", func(t *testing.T) {
		s := newTestServer(t, nil)
		s.repo.failErr = errors.New("pq: relation \"orders\" does not exist")

		w := s.do(http.MethodPost, "/api/order", validOrder, "10.1.0.4")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
		s.drain(t)
		assert.Zero(t, s.notifier.count())
	})

	t.Run("Should succeed when notification fails", func(t *testing.T) {
		s := newTestServer(t, nil)
		s.notifier.err = errors.New("smtp: dial timeout")

		w := s.do(http.MethodPost, "/api/contact", validContact, "10.1.0.5")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, s.repo.count(domain.KindContact))
	})

	t.Run("Should reject oversized bodies", func(t *testing.T) {
		s := newTestServer(t, nil)
		big := `{"name":"Jane","email":"jane@acme.io","message":"` + strings.Repeat("a", 2048) + `"}`

		w := s.do(http.MethodPost, "/api/contact", big, "10.1.0.6")

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Zero(t, s.repo.count(domain.KindContact))
	})
}

func TestIntakeRateLimit(t *testing.T) {
	s := newTestServer(t, nil)
	paths := []string{"/api/contact", "/api/book-call", "/api/order"}

	// Invalid submissions count against the budget too
	for i := 0; i < 10; i++ {
		w := s.do(http.MethodPost, paths[i%3], `{}`, "10.2.0.1")
		require.Equal(t, http.StatusBadRequest, w.Code, "request %d", i+1)
	}

	w := s.do(http.MethodPost, "/api/order", validOrder, "10.2.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests, please try again later"}`, w.Body.String())
	assert.Zero(t, s.repo.count(domain.KindOrder))

	// Health is never limited
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/health", "", "10.2.0.1").Code)

	s.clock.Advance(10*time.Minute + time.Second)
	w = s.do(http.MethodPost, "/api/order", validOrder, "10.2.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("Should report liveness", func(t *testing.T) {
		s := newTestServer(t, nil)

		w := s.do(http.MethodGet, "/api/health", "", "10.3.0.1")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "OK", body["status"])
		_, err := time.Parse(time.RFC3339, body["timestamp"])
		assert.NoError(t, err)
	})

	t.Run("Should report an unavailable dependency", func(t *testing.T) {
		s := newTestServer(t, map[string]usecase.Probe{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})

		w := s.do(http.MethodGet, "/api/ready", "", "10.3.0.2")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"UNAVAILABLE"`)
	})
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/contact", validContact, "10.4.0.1").Code)

	t.Run("Should require a token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/contact", "", "10.4.0.2")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should require the admin role", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/contact", "", "10.4.0.2", "Authorization", adminToken(t, "viewer"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should list submissions", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/contact?limit=5", "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Records []domain.ContactRecord `json:"records"`
				Total   int64                  `json:"total"`
				Limit   int                    `json:"limit"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, int64(1), body.Data.Total)
		assert.Equal(t, 5, body.Data.Limit)
		require.Len(t, body.Data.Records, 1)
		assert.Equal(t, "jane@acme.io", body.Data.Records[0].Email)

		id := body.Data.Records[0].ID
		w = s.do(http.MethodGet, "/api/admin/submissions/contact/"+id, "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should return the same record on every read", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/contact?limit=1", "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Data struct {
				Records []domain.ContactRecord `json:"records"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Data.Records, 1)
		path := "/api/admin/submissions/contact/" + list.Data.Records[0].ID

		first := s.do(http.MethodGet, path, "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		second := s.do(http.MethodGet, path, "", "10.4.0.2", "Authorization", adminToken(t, "admin"))

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Contains(t, first.Body.String(), `"email":"jane@acme.io"`)
	})

	t.Run("Should 404 unknown kinds and ids", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/newsletter", "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(http.MethodGet, "/api/admin/submissions/order/nope", "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Should export a workbook", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/admin/submissions/contact/export", "", "10.4.0.2", "Authorization", adminToken(t, "admin"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "contacts_submissions_")
		assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
	})
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/nope", "", "10.5.0.1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Not found"}`, w.Body.String())
}
