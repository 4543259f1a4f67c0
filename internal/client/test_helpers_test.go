package client_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/superfaktura-client/internal/client"
	sfhttp "github.com/fivetwenty-io/superfaktura-client/internal/http"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

const (
	testEmail     = "jan@firma.sk"
	testAPIKey    = "s3cr3t-key"
	testCompanyID = "42"
)

// rewriteTransport sends every request to target while keeping the path,
// so clients configured for the allow-listed hosts can talk to httptest.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = t.target.Scheme
	clone.URL.Host = t.target.Host
	clone.Host = t.target.Host

	return http.DefaultTransport.RoundTrip(clone)
}

// recordedRequest is a captured inbound request.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
	Form   url.Values
}

// testServer answers with a fixed status and body and records requests.
type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, status int, body string) *testServer {
	t.Helper()

	return newTestServerFunc(t, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	})
}

func newTestServerFunc(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()

	server := &testServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorded := recordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Header: request.Header.Clone(),
		}

		if request.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			_ = request.ParseForm()
			recorded.Form = request.PostForm
		} else {
			body, _ := io.ReadAll(request.Body)
			recorded.Body = string(body)
		}

		server.mu.Lock()
		server.requests = append(server.requests, recorded)
		server.mu.Unlock()

		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	return server
}

func (s *testServer) lastRequest(t *testing.T) recordedRequest {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	require.NotEmpty(t, s.requests)

	return s.requests[len(s.requests)-1]
}

func (s *testServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// MockLogger records events.
type MockLogger struct {
	mu     sync.Mutex
	events []loggedEvent
}

type loggedEvent struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, loggedEvent{Level: level, Msg: msg, Fields: fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func (l *MockLogger) infos() []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []loggedEvent

	for _, event := range l.events {
		if event.Level == "info" {
			out = append(out, event)
		}
	}

	return out
}

// NewTestClient builds a client whose requests land on server.
func NewTestClient(t *testing.T, server *testServer, opts ...sfhttp.Option) (*client.Client, *MockLogger) {
	t.Helper()

	config, err := superfaktura.NewConfig(testEmail, testAPIKey, testCompanyID)
	require.NoError(t, err)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	policy := sfhttp.NewRetryPolicy(config.MaxRetries())
	policy.BaseDelay = time.Millisecond

	logger := &MockLogger{}

	allOpts := []sfhttp.Option{
		sfhttp.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}),
		sfhttp.WithRetryPolicy(policy),
		sfhttp.WithLogger(logger),
	}
	allOpts = append(allOpts, opts...)

	sfClient, err := client.New(config, allOpts...)
	require.NoError(t, err)

	return sfClient, logger
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)

	return parsed
}
