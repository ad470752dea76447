// Package system holds the seams through which referenced documents are read: a virtual filesystem for
// local files and an HTTP client for remote ones.
package system

import (
	"io/fs"
	"net/http"
	"os"
	"time"
)

type VirtualFS interface {
	fs.FS
}

type FileSystem struct{}

var _ VirtualFS = (*FileSystem)(nil)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// Client is the subset of *http.Client used to fetch remote documents.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Client = (*http.Client)(nil)

// DefaultFetchTimeout bounds a single remote fetch when no other timeout is configured.
const DefaultFetchTimeout = 30 * time.Second

// NewHTTPClient returns an HTTP client whose requests time out after the provided duration.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}
