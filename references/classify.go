package references

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ReferenceType represents the type of reference string
type ReferenceType int

const (
	ReferenceTypeUnknown ReferenceType = iota
	ReferenceTypeURL
	ReferenceTypeFilePath
	ReferenceTypeFragment
)

// ReferenceClassification holds the result of classifying a reference string
type ReferenceClassification struct {
	Type       ReferenceType
	IsURL      bool
	IsFile     bool
	IsFragment bool
	Original   string
	ParsedURL  *url.URL
}

// IsHTTP reports whether the classified reference is an http(s) URL.
func (rc *ReferenceClassification) IsHTTP() bool {
	if !rc.IsURL || rc.ParsedURL == nil {
		return false
	}
	scheme := strings.ToLower(rc.ParsedURL.Scheme)
	return scheme == "http" || scheme == "https"
}

// IsFileURL reports whether the classified reference is a file: URL.
func (rc *ReferenceClassification) IsFileURL() bool {
	return rc.IsURL && rc.ParsedURL != nil && strings.EqualFold(rc.ParsedURL.Scheme, "file")
}

// ClassifyReference determines if a string represents a URL, file path, or JSON Pointer fragment.
func ClassifyReference(ref string) (*ReferenceClassification, error) {
	if ref == "" {
		return nil, errors.New("empty reference")
	}

	result := &ReferenceClassification{
		Original: ref,
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid reference format: %w", err)
	}

	if u.Scheme != "" {
		result.Type = ReferenceTypeURL
		result.IsURL = true
		result.ParsedURL = u
		return result, nil
	}

	// Check for fragment-only reference (#/definitions/money)
	if strings.HasPrefix(ref, "#") {
		result.Type = ReferenceTypeFragment
		result.IsFragment = true
		return result, nil
	}

	// Everything else, including bare names like "money.json", is a file path
	result.Type = ReferenceTypeFilePath
	result.IsFile = true
	return result, nil
}

// JoinWith joins this classified reference with a relative reference.
// For URLs it uses ResolveReference, for file paths the directory of the original path.
// Fragments can be combined with both URLs and file paths.
func (rc *ReferenceClassification) JoinWith(relative string) (string, error) {
	if relative == "" {
		return rc.Original, nil
	}

	if strings.HasPrefix(relative, "#") {
		base, _, _ := strings.Cut(rc.Original, "#")
		return base + relative, nil
	}

	switch {
	case rc.IsURL:
		return rc.joinURL(relative)
	case rc.IsFragment:
		return relative, nil
	default:
		return rc.joinFilePath(relative), nil
	}
}

func (rc *ReferenceClassification) joinURL(relative string) (string, error) {
	relativeURL, err := url.Parse(relative)
	if err != nil {
		return "", fmt.Errorf("invalid relative URL: %w", err)
	}

	return rc.ParsedURL.ResolveReference(relativeURL).String(), nil
}

func (rc *ReferenceClassification) joinFilePath(relative string) string {
	if filepath.IsAbs(relative) || strings.HasPrefix(relative, "/") {
		return relative
	}

	return filepath.ToSlash(filepath.Join(filepath.Dir(rc.Original), relative))
}

