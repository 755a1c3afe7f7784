package scanner

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/medshield/src/api/types"
	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/logging"
	"github.com/stake-plus/medshield/src/sidebar"
)

const article = `<html><head><title>Health</title></head><body><p>Drinking bleach cures autism, readers claim.</p></body></html>`

const relayReply = `{"cached":false,"results":[{"claim":"Drinking bleach cures autism","verdict":"MISINFORMATION","explanation":"Toxic.","danger":"Critical","sources":["https://www.fda.gov","https://www.cdc.gov"]}]}`

type relay struct {
	mu     sync.Mutex
	got    []types.ScanRequest
	status int
	body   string
	delay  time.Duration
}

func (r *relay) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		var sr types.ScanRequest
		_ = json.Unmarshal(raw, &sr)
		r.mu.Lock()
		r.got = append(r.got, sr)
		r.mu.Unlock()
		if r.delay > 0 {
			time.Sleep(r.delay)
		}
		if r.status != 0 {
			w.WriteHeader(r.status)
		}
		_, _ = io.WriteString(w, r.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newScanner(poster Poster) *Scanner {
	return New(poster, sidebar.New(sidebar.WithLogger(logging.Discard())), logging.Discard())
}

func TestScanPostsTextAndRendersResults(t *testing.T) {
	r := &relay{body: relayReply}
	srv := r.server(t)
	doc := parse(t, article)

	got := newScanner(NewClient(srv.URL, time.Second)).Scan(context.Background(), doc, "https://news.example/a")

	require.Len(t, got, 1)
	require.Len(t, r.got, 1)
	assert.Equal(t, "https://news.example/a", r.got[0].URL)
	assert.Contains(t, r.got[0].Text, "Drinking bleach cures autism")
	assert.Equal(t, 1, doc.Find("#"+sidebar.SidebarID).Length())
	assert.Equal(t, "Drinking bleach cures autism", doc.Find("body p mark").Text())
}

func TestScanRendersEmptyPanelOnFailure(t *testing.T) {
	cases := map[string]*relay{
		"http error":     {status: http.StatusBadGateway, body: `{"error":"upstream_error","status":503}`},
		"not json":       {body: `<html>oops</html>`},
		"results object": {body: `{"results":{"claim":"x"}}`},
		"timeout":        {body: relayReply, delay: 300 * time.Millisecond},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			srv := r.server(t)
			doc := parse(t, article)

			got := newScanner(NewClient(srv.URL, 100*time.Millisecond)).Scan(context.Background(), doc, "")

			assert.Empty(t, got)
			assert.Contains(t, doc.Find("#"+sidebar.SidebarID).Text(), "No health misinformation detected")
			assert.Equal(t, 0, doc.Find("mark").Length())
		})
	}
}

func TestClientPostNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewClient(url, time.Second).Post(context.Background(), types.ScanRequest{Text: "x"})

	assert.False(t, res.OK)
	assert.Equal(t, 0, res.Status)
	var data types.ErrorResponse
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.NotEmpty(t, data.Error)
}

func TestClientPostKeepsStatusAndBody(t *testing.T) {
	r := &relay{status: http.StatusBadRequest, body: `{"error":"No text supplied"}`}
	srv := r.server(t)

	res := NewClient(srv.URL, time.Second).Post(context.Background(), types.ScanRequest{})

	assert.False(t, res.OK)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.JSONEq(t, `{"error":"No text supplied"}`, string(res.Data))
}

type stubPoster struct {
	result Result
	calls  []types.ScanRequest
}

func (s *stubPoster) Post(_ context.Context, req types.ScanRequest) Result {
	s.calls = append(s.calls, req)
	return s.result
}

func TestDispatcherShowResults(t *testing.T) {
	doc := parse(t, article)
	poster := &stubPoster{}
	d := NewDispatcher(newScanner(poster), poster, doc, "https://news.example/a")

	results, _ := json.Marshal([]claims.Record{{Claim: "Drinking bleach cures autism", Verdict: "MISINFORMATION", Danger: "Critical"}})
	reply, ok := d.Handle(context.Background(), Message{Action: ActionShowResults, Results: results})

	require.True(t, ok)
	assert.Equal(t, Reply{Success: true}, reply)
	assert.Empty(t, poster.calls)
	assert.Equal(t, 1, doc.Find("mark").Length())
}

func TestDispatcherShowResultsRequiresArray(t *testing.T) {
	doc := parse(t, article)
	poster := &stubPoster{}
	d := NewDispatcher(newScanner(poster), poster, doc, "")

	_, ok := d.Handle(context.Background(), Message{Action: ActionShowResults, Results: json.RawMessage(`{"a":1}`)})
	assert.False(t, ok)
	assert.Equal(t, 0, doc.Find("#"+sidebar.SidebarID).Length())

	reply, ok := d.Handle(context.Background(), Message{Action: ActionShowResults, Results: json.RawMessage(`[{"claim":1}]`)})
	require.True(t, ok)
	assert.False(t, reply.(Reply).Success)
	assert.NotEmpty(t, reply.(Reply).Error)
}

func TestDispatcherTriggerScan(t *testing.T) {
	doc := parse(t, article)
	poster := &stubPoster{result: Result{OK: true, Status: 200, Data: json.RawMessage(relayReply)}}
	d := NewDispatcher(newScanner(poster), poster, doc, "https://news.example/a")

	reply, ok := d.Handle(context.Background(), Message{Action: ActionTriggerScan})

	require.True(t, ok)
	assert.Equal(t, Reply{Success: true}, reply)
	require.Len(t, poster.calls, 1)
	assert.Equal(t, "https://news.example/a", poster.calls[0].URL)
	assert.Equal(t, 1, doc.Find("mark").Length())
}

func TestDispatcherBackgroundScan(t *testing.T) {
	doc := parse(t, article)
	want := Result{OK: true, Status: 200, Data: json.RawMessage(relayReply)}
	poster := &stubPoster{result: want}
	d := NewDispatcher(newScanner(poster), poster, doc, "")

	reply, ok := d.Handle(context.Background(), Message{Type: TypeScan, Text: "some text", URL: "https://x.example"})

	require.True(t, ok)
	assert.Equal(t, want, reply)
	assert.Equal(t, []types.ScanRequest{{Text: "some text", URL: "https://x.example"}}, poster.calls)
	assert.Equal(t, 0, doc.Find("#"+sidebar.SidebarID).Length())
}

func TestDispatcherIgnoresUnknown(t *testing.T) {
	poster := &stubPoster{}
	d := NewDispatcher(newScanner(poster), poster, parse(t, article), "")
	_, ok := d.Handle(context.Background(), Message{Action: "ping"})
	assert.False(t, ok)
}

func TestResultResponse(t *testing.T) {
	resp := Result{OK: true, Data: json.RawMessage(`{"cached":true,"results":[{"claim":"a","verdict":"TRUE","danger":"Low","sources":[]}],"warning":"w"}`)}.Response()
	assert.True(t, resp.Cached)
	assert.Equal(t, "w", resp.Warning)
	require.Len(t, resp.Results, 1)

	empty := Result{Data: json.RawMessage(`{"results":null}`)}.Response()
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)
}
