package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sbelyaev/blogsite/internal/blogservice"
	"github.com/sbelyaev/blogsite/internal/common"
	"github.com/sbelyaev/blogsite/internal/session"
	"github.com/sbelyaev/blogsite/internal/userservice"
)

// stubRenderer stands in for the external template layer: it answers with the
// view name so tests can assert which page would have been shown.
type stubRenderer struct{}

func (stubRenderer) Render(w http.ResponseWriter, status int, name string, data *templateData) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := fmt.Fprint(w, name)
	return err
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := &Config{
		Port:          ":0",
		Environment:   "test",
		SessionSecret: "test-secret-key-0123456789abcdef",
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		renderer:    stubRenderer{},
		sessions:    session.NewManager([]byte(cfg.SessionSecret), 24*time.Hour, false),
		userService: userservice.NewUserService(db),
		blogService: blogservice.NewBlogService(db, common.NewCache(5*time.Minute, 10*time.Minute)),
	}

	return app, db
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// testClient is one browser: it keeps its own cookie jar and does not follow
// redirects, so tests can assert on Location headers directly.
type testClient struct {
	client  *http.Client
	baseURL string
}

func (ts *testServer) newClient(t *testing.T) *testClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &testClient{
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: ts.URL,
	}
}

func (c *testClient) get(t *testing.T, path string) *http.Response {
	res, err := c.client.Get(c.baseURL + path)
	if err != nil {
		t.Fatal(err)
	}

	return res
}

func (c *testClient) postForm(t *testing.T, path string, form url.Values) *http.Response {
	res, err := c.client.Post(c.baseURL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}

	return res
}

func readBody(t *testing.T, res *http.Response) string {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return strings.TrimSpace(string(body))
}

func registerForm(email, password, name string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	}
}

func postForm(title, subtitle, body, imgURL string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {subtitle},
		"body":     {body},
		"img_url":  {imgURL},
	}
}
