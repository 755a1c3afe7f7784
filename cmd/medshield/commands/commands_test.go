package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MEDSHIELD_CONFIG", "")
	var out, errOut bytes.Buffer
	cli := New(&out, &errOut)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "medshield version dev\n", out)
}

func TestScanRequiresSource(t *testing.T) {
	_, _, err := run(t, "scan")
	assert.ErrorContains(t, err, "--url or --file")
}

func TestScanFileThroughRelay(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Apple cider vinegar melts tumors")
		_, _ = io.WriteString(w, `{"cached":false,"results":[{"claim":"Apple cider vinegar melts tumors","verdict":"MISINFORMATION","danger":"High","sources":["https://www.cancer.org"]}]}`)
	}))
	defer relay.Close()

	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><head><title>T</title></head><body><p>Apple cider vinegar melts tumors.</p></body></html>`), 0o600))
	dest := filepath.Join(dir, "out.html")

	_, _, err := run(t, "scan", "--file", page, "--url", "https://blog.example/p", "--relay", relay.URL, "--out", dest)
	require.NoError(t, err)

	rendered, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), `<mark class="medshield-mark">Apple cider vinegar melts tumors</mark>`)
	assert.Contains(t, string(rendered), `id="medshield-sidebar"`)
}

func TestScanFetchesURL(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><p>Nothing medical here.</p></body></html>`)
	}))
	defer site.Close()
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"cached":false,"results":[]}`)
	}))
	defer relay.Close()

	out, _, err := run(t, "scan", "--url", site.URL, "--relay", relay.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No health misinformation detected")
}
