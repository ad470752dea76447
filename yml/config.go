package yml

import (
	"bytes"
	"context"
	"strings"
)

type contextKey string

func (c contextKey) String() string {
	return "yml-context-key-" + string(c)
}

const configContextKey = contextKey("config")

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

type IndentationStyle string

const (
	IndentationStyleSpace IndentationStyle = "space"
	IndentationStyleTab   IndentationStyle = "tab"
)

func (i IndentationStyle) ToIndent() string {
	switch i {
	case IndentationStyleSpace:
		return " "
	case IndentationStyleTab:
		return "\t"
	default:
		return ""
	}
}

// Indent returns the string used for one level of indentation.
func (c *Config) Indent() string {
	return strings.Repeat(c.IndentationStyle.ToIndent(), c.Indentation)
}

type Config struct {
	Indentation      int              // The indentation level of the document
	IndentationStyle IndentationStyle // The indentation style of the document valid for JSON only
	OutputFormat     OutputFormat     // The output format to use when marshalling
}

var defaultConfig = &Config{
	Indentation:      2,
	IndentationStyle: IndentationStyleSpace,
	OutputFormat:     OutputFormatJSON,
}

func GetDefaultConfig() *Config {
	def := *defaultConfig
	return &def
}

func ContextWithConfig(ctx context.Context, config *Config) context.Context {
	if config == nil {
		return ctx
	}

	return context.WithValue(ctx, configContextKey, config)
}

func GetConfigFromContext(ctx context.Context) *Config {
	val := ctx.Value(configContextKey)
	if val == nil {
		return GetDefaultConfig()
	}

	cfg, ok := val.(*Config)
	if !ok {
		return GetDefaultConfig()
	}

	return cfg
}

// GetConfigFromData derives an output configuration matching the format and indentation of the
// provided source document.
func GetConfigFromData(data []byte) *Config {
	cfg := GetDefaultConfig()
	cfg.OutputFormat, cfg.Indentation, cfg.IndentationStyle = inspectData(data)
	return cfg
}

func inspectData(data []byte) (OutputFormat, int, IndentationStyle) {
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))

	foundIndentation := false
	foundDocFormat := false

	indentation := 2
	indentationStyle := IndentationStyleSpace
	docFormat := OutputFormatYAML

	// Track the minimum leading whitespace to establish baseline
	minLeadingWhitespace := -1

	for i, line := range lines {
		trimLine := bytes.TrimSpace(line)

		if len(trimLine) == 0 {
			continue
		}

		switch trimLine[0] {
		case '#':
			continue
		case '{', '[':
			if !foundDocFormat {
				docFormat = OutputFormatJSON
				foundDocFormat = true
			}
		default:
			foundDocFormat = true

			currentLeading := 0
			for currentLeading < len(line) && (line[currentLeading] == ' ' || line[currentLeading] == '\t') {
				currentLeading++
			}

			if minLeadingWhitespace == -1 || currentLeading < minLeadingWhitespace {
				minLeadingWhitespace = currentLeading
			}

			if currentLeading > minLeadingWhitespace && !foundIndentation {
				leadingWhitespace := line[minLeadingWhitespace:currentLeading]

				indentationStyle = IndentationStyleSpace
				if leadingWhitespace[0] == '\t' {
					indentationStyle = IndentationStyleTab
				}

				indentation = 0
				for _, ch := range leadingWhitespace {
					if ch != leadingWhitespace[0] {
						break
					}
					indentation++
				}
				foundIndentation = true
			}
		}

		// If we have found everything we need or have iterated too long we can stop
		if foundIndentation && (foundDocFormat || i > 10) {
			break
		}
	}
	return docFormat, indentation, indentationStyle
}
