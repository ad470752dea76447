package references

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/christophevg/schema-tools/errors"
	"github.com/christophevg/schema-tools/internal/ctxlog"
	"github.com/christophevg/schema-tools/system"
)

// ErrFetch is returned when a referenced document cannot be read from disk or retrieved over HTTP.
const ErrFetch = errors.Error("fetch failed")

// AbsoluteReferenceResult contains the result of resolving an absolute reference
type AbsoluteReferenceResult struct {
	// AbsoluteReference is the absolute location of the referenced document, a file path or an http(s) URL.
	AbsoluteReference string
	// Classification contains the reference type classification
	Classification *ReferenceClassification
}

// ResolveAbsoluteReference resolves the document part of a reference to an absolute location based on the
// origin of the referring document. An empty document part resolves to the origin itself.
//
// Relative file paths and relative file: URLs are taken relative to the directory of the origin, or to the
// current working directory when the referring document has no file origin.
func ResolveAbsoluteReference(ref Reference, origin string) (*AbsoluteReferenceResult, error) {
	uri := ref.GetURI()
	if uri == "" {
		if origin == "" {
			return &AbsoluteReferenceResult{}, nil
		}
		classification, err := ClassifyReference(origin)
		if err != nil {
			return nil, err
		}
		return &AbsoluteReferenceResult{AbsoluteReference: origin, Classification: classification}, nil
	}

	classification, err := ClassifyReference(uri)
	if err != nil {
		return nil, err
	}

	switch {
	case classification.IsFileURL():
		path := classification.ParsedURL.Path
		if classification.ParsedURL.Opaque != "" {
			path = classification.ParsedURL.Opaque
		}
		return resolveFilePath(path, origin)
	case classification.IsURL:
		return &AbsoluteReferenceResult{AbsoluteReference: uri, Classification: classification}, nil
	}

	if origin != "" && !filepath.IsAbs(uri) {
		originClassification, err := ClassifyReference(origin)
		if err != nil {
			return nil, err
		}
		if originClassification.IsHTTP() {
			joined, err := originClassification.JoinWith(uri)
			if err != nil {
				return nil, err
			}
			return ResolveAbsoluteReference(Reference(joined), "")
		}
	}

	return resolveFilePath(uri, origin)
}

func resolveFilePath(path, origin string) (*AbsoluteReferenceResult, error) {
	if !filepath.IsAbs(path) {
		base, err := originDir(origin)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(base, path)
	}

	path = filepath.Clean(path)

	return &AbsoluteReferenceResult{
		AbsoluteReference: path,
		Classification: &ReferenceClassification{
			Type:     ReferenceTypeFilePath,
			IsFile:   true,
			Original: path,
		},
	}, nil
}

func originDir(origin string) (string, error) {
	if origin != "" {
		classification, err := ClassifyReference(origin)
		if err == nil {
			switch {
			case classification.IsFile:
				return filepath.Dir(origin), nil
			case classification.IsFileURL() && classification.ParsedURL.Path != "":
				return filepath.Dir(classification.ParsedURL.Path), nil
			}
		}
	}

	return os.Getwd()
}

// FetchOptions represent the options available when fetching a referenced document.
type FetchOptions struct {
	// VirtualFS is used for file based references. If not provided normal file system operations will be used.
	VirtualFS system.VirtualFS
	// HTTPClient is used for http(s) references. If not provided a client with system.DefaultFetchTimeout is used.
	HTTPClient system.Client
	// Timeout bounds a single remote fetch. Zero means system.DefaultFetchTimeout.
	Timeout time.Duration
}

// Fetch reads the raw document at the absolute location produced by ResolveAbsoluteReference.
func Fetch(ctx context.Context, location string, opts FetchOptions) ([]byte, error) {
	if opts.VirtualFS == nil {
		opts.VirtualFS = &system.FileSystem{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = system.NewHTTPClient(opts.Timeout)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = system.DefaultFetchTimeout
	}

	classification, err := ClassifyReference(location)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}

	ctxlog.FromContext(ctx).Debug("fetching document", "location", location)

	switch {
	case classification.IsHTTP():
		return fetchURL(ctx, location, opts)
	case classification.IsFile:
		return fetchFile(location, opts)
	default:
		return nil, ErrFetch.Wrapf("unsupported reference location: %s", location)
	}
}

func fetchURL(ctx context.Context, location string, opts FetchOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}

	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrFetch.Wrap(fmt.Errorf("HTTP request for %s failed with status %d", location, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}

	return data, nil
}

func fetchFile(location string, opts FetchOptions) ([]byte, error) {
	f, err := opts.VirtualFS.Open(location)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}

	return data, nil
}
