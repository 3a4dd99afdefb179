package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dangunter/alsdata/config"
	"github.com/dangunter/alsdata/integrations/shapeserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{MaxDepth: 16, IDKey: "_id", CacheSize: 8}
}

func writeFiles(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var names []string
	for _, name := range []string{"a.json", "b.json", "c.yaml", "d.json"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		names = append(names, p)
	}
	return names
}

func TestGroupLocally(t *testing.T) {
	names := writeFiles(t, map[string]string{
		"a.json": `{"_id":"A","date":"2024-01-02","x":1}`,
		"b.json": `{"x":2,"date":"2024-01-01"}`,
		"c.yaml": "y: s\n",
	})

	var buf bytes.Buffer
	require.NoError(t, run(testConfig(), names, &buf))

	want := "# group 1: 1 documents, 1970-01-01T00:00:00Z to 1970-01-01T00:00:00Z\n" +
		"# ids: c.yaml\n" +
		"---\n- y: str\n" +
		"# group 2: 2 documents, 2024-01-01T00:00:00Z to 2024-01-02T00:00:00Z\n" +
		"# ids: A, b.json\n" +
		"---\n- date: str\n- x: int\n"
	assert.Equal(t, want, buf.String())
}

func TestGroupLocallyOpenAPI(t *testing.T) {
	names := writeFiles(t, map[string]string{"a.json": `{"x":[1,2.5]}`})

	var buf bytes.Buffer
	require.NoError(t, run(testConfig(), append([]string{"-format", "openapi"}, names...), &buf))
	assert.Contains(t, buf.String(), `"oneOf"`)
	assert.Contains(t, buf.String(), `"type": "array"`)
}

func TestGroupLocallySkipsBadFiles(t *testing.T) {
	names := writeFiles(t, map[string]string{
		"a.json": `{"x":1}`,
		"b.json": `{"x":true}`,
		"d.json": `not json`,
	})

	var buf bytes.Buffer
	err := run(testConfig(), names, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errSomeFailed))
	assert.Contains(t, err.Error(), "2 of 3")
	assert.Contains(t, buf.String(), "# ids: a.json")
}

func TestParseFlags(t *testing.T) {
	_, err := parseFlags(testConfig(), nil)
	assert.NotNil(t, err)

	_, err = parseFlags(testConfig(), []string{"-format", "xml", "a.json"})
	assert.NotNil(t, err)

	_, err = parseFlags(testConfig(), []string{"-max-depth", "0", "a.json"})
	assert.NotNil(t, err)

	o, err := parseFlags(testConfig(), []string{"-id-key", "uid", "-max-depth", "3", "a.json", "b.json"})
	require.NoError(t, err)
	assert.Equal(t, "uid", o.idKey)
	assert.Equal(t, 3, o.maxDepth)
	assert.Equal(t, []string{"a.json", "b.json"}, o.files)
}

func TestSubmitToServer(t *testing.T) {
	names := writeFiles(t, map[string]string{
		"a.json": `{"_id":"A","x":1}`,
		"c.yaml": "y: s\n",
	})

	var submitted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents":
			body, _ := io.ReadAll(r.Body)
			submitted = append(submitted, r.URL.Query().Get("id")+" "+r.Header.Get("Content-Type")+" "+string(body))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(shapeserver.SubmitResult{ID: r.URL.Query().Get("id"), Hash: "01", New: true})
		case "/schemas":
			_ = json.NewEncoder(w).Encode([]shapeserver.SchemaSummary{{Hash: "01", IDs: []string{"A", "c.yaml"}, Rows: 1}})
		}
	}))
	defer srv.Close()

	var buf bytes.Buffer
	require.NoError(t, run(testConfig(), append([]string{"-server", srv.URL}, names...), &buf))
	assert.Equal(t, []string{
		`A application/json {"_id":"A","x":1}`,
		"c.yaml application/yaml y: s\n",
	}, submitted)
	assert.Equal(t, "01 1 rows, 2 documents: A, c.yaml\n", buf.String())
}
