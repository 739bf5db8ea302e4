package web

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second, ShutdownTimeout: time.Second},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
		Source:   config.SourceConfig{Kind: config.SourceFile, Path: "jobs.csv", Root: "."},
	}
}

var listings = []jobs.Record{
	{"title": "Dev", "industry": "Tech", "min_salary": "1000", "max_salary": "5000"},
	{"title": "Analyst", "industry": "Finance", "min_salary": "2000", "max_salary": "3000"},
	{"title": "Ops", "industry": "Tech", "min_salary": "", "max_salary": "4000"},
	{"title": "Intern", "industry": "Tech", "min_salary": "100", "max_salary": "invalid"},
	{"title": "<script>", "industry": "<b>Media</b>", "min_salary": "300", "max_salary": "900"},
}

// dataset serves listings for "jobs.csv" and a not-found error otherwise.
func dataset() jobs.Source {
	return jobs.SourceFunc(func(ctx context.Context, path string) ([]jobs.Record, error) {
		if path != "jobs.csv" {
			return nil, &fs.PathError{Op: "open", Path: path, Err: syscall.ENOENT}
		}
		return listings, nil
	})
}

func do(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, NewServer(dataset(), testConfig()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))
}

func TestIndustries(t *testing.T) {
	rec := do(t, NewServer(dataset(), testConfig()), "/api/industries")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[IndustriesResponse](t, rec)
	assert.Equal(t, "jobs.csv", got.Path)
	assert.Equal(t, []string{"<b>Media</b>", "Finance", "Tech"}, got.Industries)
	assert.Equal(t, 3, got.Count)
}

func TestSalaryExtremes(t *testing.T) {
	s := NewServer(dataset(), testConfig())

	rec := do(t, s, "/api/salary/max")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"jobs.csv","max_salary":5000}`, rec.Body.String())

	rec = do(t, s, "/api/salary/min")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"jobs.csv","min_salary":100}`, rec.Body.String())
}

func TestJobs(t *testing.T) {
	s := NewServer(dataset(), testConfig())

	t.Run("all", func(t *testing.T) {
		got := decode[JobsResponse](t, do(t, s, "/api/jobs"))
		assert.Equal(t, len(listings), got.Count)
		assert.Empty(t, got.Skipped)
	})

	t.Run("industry", func(t *testing.T) {
		got := decode[JobsResponse](t, do(t, s, "/api/jobs?industry=Tech"))
		assert.Equal(t, 3, got.Count)
		for _, j := range got.Jobs {
			assert.Equal(t, "Tech", j.Industry())
		}
	})

	t.Run("salary", func(t *testing.T) {
		got := decode[JobsResponse](t, do(t, s, "/api/jobs?salary=2500"))
		require.Equal(t, 2, got.Count)
		assert.Equal(t, "Dev", got.Jobs[0]["title"])
		assert.Equal(t, "Analyst", got.Jobs[1]["title"])

		require.Len(t, got.Skipped, 2)
		assert.Equal(t, 2, got.Skipped[0].Index)
		assert.Equal(t, 3, got.Skipped[1].Index)
		assert.Contains(t, got.Skipped[0].Error, "min_salary")
	})

	t.Run("industry and salary", func(t *testing.T) {
		got := decode[JobsResponse](t, do(t, s, "/api/jobs?industry=Tech&salary=1000"))
		require.Equal(t, 1, got.Count)
		assert.Equal(t, "Dev", got.Jobs[0]["title"])
		require.Len(t, got.Skipped, 2)
		assert.Equal(t, 1, got.Skipped[0].Index)
	})

	t.Run("bad salary", func(t *testing.T) {
		rec := do(t, s, "/api/jobs?salary=lots")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		got := decode[ErrorResponse](t, rec)
		assert.Equal(t, "VAL002", got.Code)
	})
}

func TestErrors(t *testing.T) {
	s := NewServer(dataset(), testConfig())

	rec := do(t, s, "/api/industries?path=missing.csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FILE001", decode[ErrorResponse](t, rec).Code)

	failing := jobs.SourceFunc(func(context.Context, string) ([]jobs.Record, error) {
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	})
	rec = do(t, NewServer(failing, testConfig()), "/api/salary/max")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SRC001", decode[ErrorResponse](t, rec).Code)
}

func TestDashboard(t *testing.T) {
	rec := do(t, NewServer(dataset(), testConfig()), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<h1>jobs.csv</h1>")
	assert.Contains(t, body, "<dd>5000</dd>")
	assert.Contains(t, body, "&lt;b&gt;Media&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Media</b>")
}

func TestDashboard_Error(t *testing.T) {
	rec := do(t, NewServer(dataset(), testConfig()), "/?path=missing.csv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "FILE001")
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := NewServer(dataset(), cfg)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, "/api/industries").Code)
	assert.Equal(t, http.StatusOK, do(t, s, "/api/industries", "X-API-Key", "secret").Code)
	assert.Equal(t, http.StatusOK, do(t, s, "/healthz").Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := NewServer(dataset(), cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, s, "/healthz").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, wantsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.True(t, wantsJSON(req))

	assert.True(t, wantsJSON(httptest.NewRequest(http.MethodGet, "/api/jobs", nil)))
}

func TestServe_DrainsInFlightRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := jobs.SourceFunc(func(context.Context, string) ([]jobs.Record, error) {
		close(entered)
		<-release
		return listings, nil
	})
	s := NewServer(slow, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- s.Serve(ln) }()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/salary/max")
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()
	<-entered

	shutdown := make(chan error, 1)
	go func() { shutdown <- s.Shutdown(context.Background()) }()

	select {
	case <-served:
		t.Fatal("Serve returned while a request was still in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	assert.Equal(t, http.StatusOK, <-status)
	require.NoError(t, <-shutdown)
	require.NoError(t, <-served)
}

func TestShutdown_BeforeServe(t *testing.T) {
	s := NewServer(dataset(), testConfig())
	require.NoError(t, s.Shutdown(context.Background()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.NoError(t, s.Serve(ln))
}

func TestDatasetAllowList(t *testing.T) {
	tables := map[string][]jobs.Record{
		"jobs":         listings,
		"archive.jobs": listings[:1],
		"users":        {{"email": "a@b.c", "password_hash": "x"}},
	}
	src := jobs.SourceFunc(func(ctx context.Context, path string) ([]jobs.Record, error) {
		return tables[path], nil
	})

	cfg := testConfig()
	cfg.Source = config.SourceConfig{Kind: config.SourcePostgres, Path: "jobs", AllowedPaths: []string{"archive.jobs"}}
	s := NewServer(src, cfg)

	rec := do(t, s, "/api/jobs?path=users")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SRC005", decode[ErrorResponse](t, rec).Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	rec = do(t, s, "/?path=users")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, len(listings), decode[JobsResponse](t, do(t, s, "/api/jobs")).Count)
	assert.Equal(t, 1, decode[JobsResponse](t, do(t, s, "/api/jobs?path=archive.jobs")).Count)
}

func TestJobsPage(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := NewServer(dataset(), cfg)

	dash := do(t, s, "/").Body.String()
	assert.Contains(t, dash, `action="/jobs"`)
	assert.Contains(t, dash, `href="/jobs?`)

	rec := do(t, s, "/jobs?salary=2500")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<p>2 job(s)</p>")
	assert.Contains(t, body, "<td>Analyst</td>")
	assert.Contains(t, body, "Skipped (2)")

	body = do(t, s, "/jobs?industry=%3Cb%3EMedia%3C%2Fb%3E").Body.String()
	assert.Contains(t, body, "<td>&lt;script&gt;</td>")
	assert.NotContains(t, body, "<script>")

	rec = do(t, s, "/jobs?salary=lots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL002")
}
