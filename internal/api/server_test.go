package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/motion"
)

func newTestServer(t *testing.T, adminKey string) (*Server, *httptest.Server) {
	t.Helper()
	hub := NewHub(2, nil)
	s := &Server{
		Session: engine.NewSession(engine.Options{
			Seed:     7,
			Settings: config.DefaultSettings(),
			Renderer: hub,
		}),
		Hub:      hub,
		Motion:   motion.NewStepper(7),
		AdminKey: adminKey,
		Limiter:  NewRateLimiter(1000, time.Second, 1000),
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, body string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func stateOf(s *Server) engine.GlobalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Session.State
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestStatusAndPosts(t *testing.T) {
	_, ts := newTestServer(t, "")

	var status map[string]any
	getJSON(t, ts.URL+"/api/v1/status", &status)
	if status["day"].(float64) != 1 || status["engagement"].(float64) != 50 {
		t.Fatalf("status = %v", status)
	}

	var posts []engine.PostView
	getJSON(t, ts.URL+"/api/v1/posts", &posts)
	if len(posts) != 3 || posts[0].ID != "post-0" || posts[0].Tone == "" {
		t.Fatalf("posts = %+v", posts)
	}

	var cs []engine.CitizenView
	getJSON(t, ts.URL+"/api/v1/citizens", &cs)
	if len(cs) != 10 {
		t.Fatalf("citizens = %d", len(cs))
	}
}

func TestDecide_AdvancesDay(t *testing.T) {
	s, ts := newTestServer(t, "")

	resp := post(t, ts.URL+"/api/v1/ignore", `{"post_id":"post-1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ignore: status %d", resp.StatusCode)
	}
	if st := stateOf(s); st.Day != 2 || st.Engagement != 47 {
		t.Fatalf("state = %+v", st)
	}

	var log []engine.Decision
	getJSON(t, ts.URL+"/api/v1/decisions", &log)
	if len(log) != 1 || log[0].Day != 1 {
		t.Fatalf("decisions = %+v", log)
	}
}

func TestDecide_Errors(t *testing.T) {
	s, ts := newTestServer(t, "")

	cases := []struct {
		path, body string
		want       int
	}{
		{"/api/v1/boost", `{"post_id":"post-7"}`, http.StatusNotFound},
		{"/api/v1/boost", `{}`, http.StatusBadRequest},
		{"/api/v1/boost", `not json`, http.StatusBadRequest},
	}
	for _, c := range cases {
		if resp := post(t, ts.URL+c.path, c.body); resp.StatusCode != c.want {
			t.Fatalf("%s %s: status %d, want %d", c.path, c.body, resp.StatusCode, c.want)
		}
	}

	resp, err := http.Get(ts.URL + "/api/v1/boost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET boost: status %d", resp.StatusCode)
	}

	// Pending decision blocks a second one.
	s.mu.Lock()
	s.Pacing = time.Hour
	s.mu.Unlock()
	if resp := post(t, ts.URL+"/api/v1/hide", `{"post_id":"post-0"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("hide: status %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/api/v1/boost", `{"post_id":"post-0"}`); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second decision: status %d", resp.StatusCode)
	}
}

func TestPacedAdvance(t *testing.T) {
	s, ts := newTestServer(t, "")
	s.mu.Lock()
	s.Pacing = 10 * time.Millisecond
	s.mu.Unlock()

	post(t, ts.URL+"/api/v1/boost", `{"post_id":"post-2"}`)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if stateOf(s).Day == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("day never advanced")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRestart_AdminGuarded(t *testing.T) {
	s, ts := newTestServer(t, "secret")
	post(t, ts.URL+"/api/v1/ignore", `{"post_id":"post-0"}`)

	if resp := post(t, ts.URL+"/api/v1/restart", ``); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("restart without token: status %d", resp.StatusCode)
	}
	resp := post(t, ts.URL+"/api/v1/restart", ``, "Authorization", "Bearer secret")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart: status %d", resp.StatusCode)
	}
	if st := stateOf(s); st != engine.NewGlobalState() {
		t.Fatalf("state after restart = %+v", st)
	}
}

func TestSettings(t *testing.T) {
	_, ts := newTestServer(t, "")

	if resp := post(t, ts.URL+"/api/v1/settings", `{"showTone": "yes"}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad settings: status %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/api/v1/settings", `{"showTone": false}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("settings: status %d", resp.StatusCode)
	}

	var set config.Settings
	getJSON(t, ts.URL+"/api/v1/settings", &set)
	if set.ShowTone || !set.ShowIntensity {
		t.Fatalf("settings = %+v", set)
	}

	var posts []engine.PostView
	getJSON(t, ts.URL+"/api/v1/posts", &posts)
	if posts[0].Tone != "" {
		t.Fatalf("tone shown with ShowTone off: %+v", posts[0])
	}
}

func TestCitizenDetail(t *testing.T) {
	_, ts := newTestServer(t, "")

	var detail map[string]any
	getJSON(t, ts.URL+"/api/v1/citizen/3", &detail)
	if detail["trust"].(float64) != 0.5 {
		t.Fatalf("detail = %v", detail)
	}

	for path, want := range map[string]int{
		"/api/v1/citizen/99":  http.StatusNotFound,
		"/api/v1/citizen/abc": http.StatusBadRequest,
		"/api/v1/citizen/":    http.StatusBadRequest,
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("GET %s: status %d, want %d", path, resp.StatusCode, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, "")
	s.Limiter = NewRateLimiter(1, time.Hour, 2)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	post(t, ts.URL+"/api/v1/ignore", `{"post_id":"post-0"}`)
	post(t, ts.URL+"/api/v1/ignore", `{"post_id":"post-0"}`)
	resp := post(t, ts.URL+"/api/v1/ignore", `{"post_id":"post-0"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, "")
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/boost", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight: %d %v", resp.StatusCode, resp.Header)
	}
}

func TestStream_PushesViews(t *testing.T) {
	s, ts := newTestServer(t, "")

	// Prime the hub with an initial view.
	s.mu.Lock()
	s.Session.Render()
	s.mu.Unlock()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	readView := func() engine.View {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var v engine.View
		if err := conn.ReadJSON(&v); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return v
	}

	if v := readView(); v.Day != 1 {
		t.Fatalf("first view day = %d", v.Day)
	}

	post(t, ts.URL+"/api/v1/hide", `{"post_id":"post-0"}`)
	// Decide then the inline advance each push a view.
	if v := readView(); !v.Pending {
		t.Fatalf("decision view not pending: %+v", v)
	}
	if v := readView(); v.Day != 2 {
		t.Fatalf("advance view day = %d", v.Day)
	}
}

func TestFrame_MovesCitizens(t *testing.T) {
	s, _ := newTestServer(t, "")
	before := s.Session.Citizens[0].Position
	for i := uint64(1); i <= 20; i++ {
		s.Frame(i)
	}
	if s.Session.Citizens[0].Position == before {
		t.Fatalf("citizen did not move")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(r); got != "10.0.0.1" {
		t.Fatalf("clientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	if got := clientIP(r); got != "1.2.3.4" {
		t.Fatalf("clientIP xff = %q", got)
	}
}
