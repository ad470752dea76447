// Package json encodes plain value trees, such as the mapping produced by serializing a schema, as JSON.
package json

import (
	"context"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/christophevg/schema-tools/yml"
)

// Encode writes v as JSON with sorted mapping keys, indented according to the yml.Config carried in ctx.
// An indentation of zero produces compact output.
func Encode(ctx context.Context, v any, w io.Writer) error {
	cfg := yml.GetConfigFromContext(ctx)

	e := gojson.NewEncoder(w)
	e.SetEscapeHTML(false)
	if cfg.Indentation > 0 {
		e.SetIndent("", cfg.Indent())
	}

	return e.Encode(v)
}

// Marshal returns the compact JSON encoding of v with sorted mapping keys.
func Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}
