// Package references models `$ref` strings: splitting them into a document part and a JSON pointer fragment,
// resolving the document part against the origin of the referring document, and fetching the referenced
// document from the filesystem or over HTTP.
package references

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/christophevg/schema-tools/jsonpointer"
)

type Reference string

var _ fmt.Stringer = (*Reference)(nil)

// GetURI returns the document part of the reference, empty for same-document references.
func (r Reference) GetURI() string {
	uri, _, _ := strings.Cut(string(r), "#")
	return strings.TrimSpace(uri)
}

// GetJSONPointer returns the fragment of the reference. A bare "#" addresses the whole document and
// returns the root pointer.
func (r Reference) GetJSONPointer() jsonpointer.JSONPointer {
	_, pointer, found := strings.Cut(string(r), "#")
	if !found {
		return jsonpointer.Root
	}

	pointer = strings.TrimSpace(pointer)

	// URL decode the JSON pointer to handle percent-encoded characters
	// like %25 (which represents %)
	if decoded, err := url.QueryUnescape(pointer); err == nil {
		pointer = decoded
	}

	return jsonpointer.JSONPointer(pointer)
}

// IsRemote reports whether the reference crosses a document boundary, ie. does not start with "#".
func (r Reference) IsRemote() bool {
	return !strings.HasPrefix(strings.TrimSpace(string(r)), "#")
}

// Validate checks that the document part parses as a URI and the fragment is a valid JSON pointer.
func (r Reference) Validate() error {
	if r == "" {
		return fmt.Errorf("invalid reference: empty")
	}

	uri := r.GetURI()

	if uri != "" {
		if _, err := url.Parse(uri); err != nil {
			return fmt.Errorf("invalid reference URI: %w", err)
		}
	}

	if err := r.GetJSONPointer().Validate(); err != nil {
		return fmt.Errorf("invalid reference JSON pointer: %w", err)
	}

	return nil
}

func (r Reference) String() string {
	return string(r)
}
