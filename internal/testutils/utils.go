// Package testutils holds in-memory stand-ins for the filesystem and HTTP seams of the
// system package, plus yaml.v3 node constructors, shared by the package tests.
package testutils

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/christophevg/schema-tools/system"
	"gopkg.in/yaml.v3"
)

func CreateStringYamlNode(value string, line, column int) *yaml.Node {
	return &yaml.Node{
		Value:  value,
		Kind:   yaml.ScalarNode,
		Tag:    "!!str",
		Line:   line,
		Column: column,
	}
}

func CreateIntYamlNode(value int, line, column int) *yaml.Node {
	return &yaml.Node{
		Value:  fmt.Sprintf("%d", value),
		Kind:   yaml.ScalarNode,
		Tag:    "!!int",
		Line:   line,
		Column: column,
	}
}

func CreateMapYamlNode(contents []*yaml.Node, line, column int) *yaml.Node {
	return &yaml.Node{
		Content: contents,
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Line:    line,
		Column:  column,
	}
}

// MockVirtualFS implements system.VirtualFS over an in-memory set of files keyed by path.
type MockVirtualFS struct {
	mu    sync.Mutex
	files map[string]string
	opens map[string]int
}

var _ system.VirtualFS = (*MockVirtualFS)(nil)

func NewMockVirtualFS() *MockVirtualFS {
	return &MockVirtualFS{
		files: make(map[string]string),
		opens: make(map[string]int),
	}
}

func (m *MockVirtualFS) AddFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.ToSlash(path)] = content
}

func (m *MockVirtualFS) Open(name string) (fs.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalizedName := filepath.ToSlash(name)
	m.opens[normalizedName]++

	content, exists := m.files[normalizedName]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &MockFile{content: content}, nil
}

// Opens returns how often the file at path was opened.
func (m *MockVirtualFS) Opens(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[filepath.ToSlash(path)]
}

// MockFile implements fs.File for testing
type MockFile struct {
	content string
	pos     int
}

func (m *MockFile) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.content) {
		return 0, io.EOF
	}
	n = copy(p, m.content[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MockFile) Close() error {
	return nil
}

func (m *MockFile) Stat() (fs.FileInfo, error) {
	return nil, fmt.Errorf("not implemented")
}

// MockHTTPClient implements system.Client for testing
type MockHTTPClient struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	errors    map[string]error
	requests  []string
}

type mockResponse struct {
	body       string
	statusCode int
}

var _ system.Client = (*MockHTTPClient)(nil)

func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
	}
}

func (m *MockHTTPClient) AddResponse(url, body string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = mockResponse{body: body, statusCode: statusCode}
}

func (m *MockHTTPClient) AddError(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[url] = err
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	url := req.URL.String()
	m.requests = append(m.requests, url)

	if err, exists := m.errors[url]; exists {
		return nil, err
	}
	resp, exists := m.responses[url]
	if !exists {
		resp = mockResponse{body: "not found", statusCode: http.StatusNotFound}
	}

	return &http.Response{
		StatusCode: resp.statusCode,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Requests returns the URLs requested so far, in order.
func (m *MockHTTPClient) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
