package feed_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/livefeed/app/feed"
	"github.com/dmitrymomot/livefeed/core/generator"
	"github.com/dmitrymomot/livefeed/core/logger"
)

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func testConfig() feed.Config {
	cfg := feed.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Broadcast.Capacity = 5
	cfg.Generator.Interval = 20 * time.Millisecond
	cfg.Generator.AutoStart = false
	cfg.Stream.Backlog = 2
	cfg.Stream.KeepAlive = 0
	return cfg
}

func newApp(t *testing.T, cfg feed.Config) (*feed.App, *httptest.Server) {
	t.Helper()

	app, err := feed.New(cfg,
		feed.WithLogger(logger.Discard()),
		feed.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(app.Generator().Stop)
	return app, srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Broadcast.Capacity = 0
	_, err := feed.New(cfg, feed.WithLogger(logger.Discard()))
	assert.Error(t, err)

	_, err = feed.New(testConfig(), feed.WithLogger(nil))
	assert.Error(t, err)
}

func TestNew_Accessors(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	app, err := feed.New(testConfig(), feed.WithLogger(log))
	require.NoError(t, err)

	assert.Same(t, log, app.Logger())
	assert.NotNil(t, app.Queue())
	assert.NotNil(t, app.Generator())
	assert.NotNil(t, app.Handler())
}

func TestStaticEndpoints(t *testing.T) {
	t.Parallel()

	_, srv := newApp(t, testConfig())

	t.Run("docs", func(t *testing.T) {
		t.Parallel()

		var docs struct {
			Name      string                    `json:"name"`
			Version   string                    `json:"version"`
			Endpoints map[string]map[string]any `json:"endpoints"`
			Server    struct {
				Environment string    `json:"environment"`
				Timestamp   time.Time `json:"timestamp"`
			} `json:"server"`
		}
		resp := getJSON(t, srv.URL+"/", &docs)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "livefeed", docs.Name)
		assert.Equal(t, "1.0.0", docs.Version)
		assert.Contains(t, docs.Endpoints, "GET /api/sse")
		assert.Contains(t, docs.Endpoints, "GET /metrics")
		assert.Equal(t, "development", docs.Server.Environment)
		assert.True(t, fixedNow.Equal(docs.Server.Timestamp))
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		var body map[string]string
		resp := getJSON(t, srv.URL+"/health", &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "2024-03-01T10:30:00Z", body["timestamp"])
	})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		resp := getJSON(t, srv.URL+"/health/live", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness_before_listen", func(t *testing.T) {
		t.Parallel()

		resp := getJSON(t, srv.URL+"/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("hello", func(t *testing.T) {
		t.Parallel()

		var body map[string]string
		getJSON(t, srv.URL+"/api/hello", &body)
		assert.Equal(t, "Hello from livefeed server!", body["message"])
	})

	t.Run("time", func(t *testing.T) {
		t.Parallel()

		var body map[string]string
		getJSON(t, srv.URL+"/api/time", &body)
		assert.Equal(t, "2024-03-01T10:30:00Z", body["timestamp"])
		assert.NotEmpty(t, body["timezone"])
	})

	t.Run("cors", func(t *testing.T) {
		t.Parallel()

		resp := getJSON(t, srv.URL+"/api/hello", nil)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		var body map[string]map[string]any
		resp := getJSON(t, srv.URL+"/nope", &body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", body["error"]["code"])
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(data), "livefeed_queue_capacity 5")
	})
}

func TestMetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MetricsEnabled = false
	_, srv := newApp(t, cfg)

	resp := getJSON(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishMessage(t *testing.T) {
	t.Parallel()

	app, srv := newApp(t, testConfig())

	t.Run("created", func(t *testing.T) {
		resp, body := post(t, srv.URL+"/api/messages", `{"message":"hello world"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)

		var msg struct {
			ID   string            `json:"id"`
			Data generator.Payload `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &msg))
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "hello world", msg.Data.Message)
		assert.Equal(t, 1, app.Queue().Stats().QueueSize)
	})

	t.Run("empty_message", func(t *testing.T) {
		resp, body := post(t, srv.URL+"/api/messages", `{"message":"   "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "message is required")
	})

	t.Run("malformed_json", func(t *testing.T) {
		resp, _ := post(t, srv.URL+"/api/messages", `{"message":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPublishMessage_TooLarge(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxMessageBytes = 32
	_, srv := newApp(t, cfg)

	resp, _ := post(t, srv.URL+"/api/messages", `{"message":"`+strings.Repeat("x", 100)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestGeneratorControl(t *testing.T) {
	t.Parallel()

	app, srv := newApp(t, testConfig())

	var status generator.Status
	resp, body := post(t, srv.URL+"/api/generator/start", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, generator.Status{Running: true, IntervalMs: 20}, status)

	require.Eventually(t, func() bool {
		return app.Queue().Stats().Published >= 2
	}, 2*time.Second, 10*time.Millisecond)

	var stats struct {
		Generator generator.Status `json:"generator"`
		Queue     map[string]any   `json:"queue"`
	}
	getJSON(t, srv.URL+"/api/queue/stats", &stats)
	assert.True(t, stats.Generator.Running)
	assert.Equal(t, float64(5), stats.Queue["maxSize"])
	assert.Contains(t, stats.Queue, "queueSize")
	assert.Contains(t, stats.Queue, "subscriberCount")

	resp, body = post(t, srv.URL+"/api/generator/stop", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, generator.Status{}, status)

	for _, invalid := range []string{
		`{"intervalMs":-5}`,
		`{"intervalMs":0}`,
		`{"intervalMs":18446744073710}`,
	} {
		resp, body = post(t, srv.URL+"/api/generator/start", invalid)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, invalid+": "+body)
		assert.False(t, app.Generator().Status().Running, invalid)
	}

	resp, body = post(t, srv.URL+"/api/generator/start", `{"intervalMs":50}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, int64(50), status.IntervalMs)
}

func TestSSEEndpoint(t *testing.T) {
	t.Parallel()

	app, srv := newApp(t, testConfig())
	for _, m := range []string{"A", "B", "C"} {
		post(t, srv.URL+"/api/messages", `{"message":"`+m+`"}`)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	reader := bufio.NewReader(resp.Body)
	readData := func() generator.Payload {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: "); ok {
				var p generator.Payload
				require.NoError(t, json.Unmarshal([]byte(data), &p))
				return p
			}
		}
	}

	assert.Equal(t, "B", readData().Message)
	assert.Equal(t, "C", readData().Message)

	post(t, srv.URL+"/api/messages", `{"message":"D"}`)
	assert.Equal(t, "D", readData().Message)
	assert.Equal(t, 1, app.Queue().Stats().SubscriberCount)
}

func TestWebSocketEndpoint(t *testing.T) {
	t.Parallel()

	_, srv := newApp(t, testConfig())
	post(t, srv.URL+"/api/messages", `{"message":"first"}`)

	header := http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", header)
	require.NoError(t, err)
	defer conn.Close()

	read := func() generator.Payload {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var p generator.Payload
		require.NoError(t, json.Unmarshal(data, &p))
		return p
	}

	assert.Equal(t, "first", read().Message)

	post(t, srv.URL+"/api/messages", `{"message":"second"}`)
	assert.Equal(t, "second", read().Message)
}

func TestRun(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Generator.AutoStart = true

	app, err := feed.New(cfg, feed.WithLogger(logger.Discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	select {
	case <-app.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("app did not start")
	}
	base := "http://" + app.Addr()

	resp := getJSON(t, base+"/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		return app.Queue().Stats().Published >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, app.Generator().Status().Running)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, app.Generator().Status().Running)
}
