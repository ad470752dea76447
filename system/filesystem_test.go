package system

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystem_Open_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "money.json")
	testContent := []byte(`{"type": "number"}`)
	err := os.WriteFile(testFile, testContent, 0o644)
	require.NoError(t, err, "should create test file")

	fsys := &FileSystem{}
	file, err := fsys.Open(testFile)
	require.NoError(t, err, "should open file successfully")
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err, "should read file content")
	assert.Equal(t, testContent, content, "should read correct content")
}

func TestFileSystem_Open_Error(t *testing.T) {
	t.Parallel()

	fsys := &FileSystem{}
	file, err := fsys.Open("nonexistent-file.json")

	require.Error(t, err, "should return error for nonexistent file")
	assert.Nil(t, file, "should return nil file on error")
}

func TestNewHTTPClient_Success(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultFetchTimeout, NewHTTPClient(0).Timeout)
	assert.Equal(t, 5*time.Second, NewHTTPClient(5*time.Second).Timeout)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"enum": ["EUR", "USD"]}`))
	}))
	defer server.Close()

	var client Client = NewHTTPClient(time.Second)
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enum": ["EUR", "USD"]}`, string(body))
}
