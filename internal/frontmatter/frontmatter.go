// Package frontmatter splits the metadata block at the top of a Markdown file
// from its body and serializes metadata back into a block.
package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound      = errors.New("front matter block not found")
	ErrMalformed     = errors.New("front matter block malformed")
	ErrUnknownFormat = errors.New("front matter format unknown")
)

// Format names a supported front matter flavour.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const (
	tomlDelimiter = "+++"
	yamlDelimiter = "---"
)

// Values holds decoded front matter keys.
type Values map[string]any

// Parse extracts a `+++` delimited TOML block from source. The returned body is
// everything after the closing delimiter line, byte for byte.
func Parse(source []byte) (Values, []byte, error) {
	return ParseWithFormats(source, FormatTOML)
}

// ParseWithFormats behaves like Parse but accepts any of the supplied formats.
// An empty list falls back to TOML.
func ParseWithFormats(source []byte, formats ...Format) (Values, []byte, error) {
	resolved, err := resolveFormats(formats)
	if err != nil {
		return nil, nil, err
	}

	values := map[string]any{}
	body, err := frontmatter.MustParse(bytes.NewReader(source), &values, resolved...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			if delim := openingDelimiter(source, formats); delim != "" {
				return nil, nil, fmt.Errorf("%w: missing closing %q", ErrMalformed, delim)
			}
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Values(values), body, nil
}

// Marshal serializes values as a `+++` delimited TOML block with keys sorted.
func Marshal(values Values) ([]byte, error) {
	return MarshalFormat(values, FormatTOML)
}

// MarshalFormat serializes values as a delimited block in the given format.
func MarshalFormat(values Values, format Format) ([]byte, error) {
	var buf bytes.Buffer

	switch normalizeFormat(format) {
	case FormatTOML:
		buf.WriteString(tomlDelimiter + "\n")
		if len(values) > 0 {
			if err := toml.NewEncoder(&buf).Encode(map[string]any(values)); err != nil {
				return nil, fmt.Errorf("frontmatter: encode toml: %w", err)
			}
		}
		buf.WriteString(tomlDelimiter + "\n")
	case FormatYAML:
		buf.WriteString(yamlDelimiter + "\n")
		if len(values) > 0 {
			encoded, err := yaml.Marshal(map[string]any(values))
			if err != nil {
				return nil, fmt.Errorf("frontmatter: encode yaml: %w", err)
			}
			buf.Write(encoded)
		}
		buf.WriteString(yamlDelimiter + "\n")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return buf.Bytes(), nil
}

// Keys returns the decoded keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// ParseFormats converts configuration strings into formats, rejecting unknown names.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, name := range names {
		format := normalizeFormat(Format(name))
		if format == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
		}
		out = append(out, format)
	}
	return out, nil
}

func resolveFormats(formats []Format) ([]*frontmatter.Format, error) {
	if len(formats) == 0 {
		formats = []Format{FormatTOML}
	}

	out := make([]*frontmatter.Format, 0, len(formats))
	seen := map[Format]struct{}{}
	for _, format := range formats {
		normalized := normalizeFormat(format)
		if normalized == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}

		switch normalized {
		case FormatTOML:
			out = append(out, frontmatter.NewFormat(tomlDelimiter, tomlDelimiter, toml.Unmarshal))
		case FormatYAML:
			out = append(out, frontmatter.NewFormat(yamlDelimiter, yamlDelimiter, yaml.Unmarshal))
		}
	}
	return out, nil
}

func normalizeFormat(format Format) Format {
	switch Format(strings.ToLower(strings.TrimSpace(string(format)))) {
	case FormatTOML:
		return FormatTOML
	case FormatYAML:
		return FormatYAML
	default:
		return ""
	}
}

// openingDelimiter reports the delimiter on the first non-blank line when it
// belongs to one of the enabled formats.
func openingDelimiter(source []byte, formats []Format) string {
	if len(formats) == 0 {
		formats = []Format{FormatTOML}
	}
	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, format := range formats {
			switch normalizeFormat(format) {
			case FormatTOML:
				if line == tomlDelimiter {
					return tomlDelimiter
				}
			case FormatYAML:
				if line == yamlDelimiter {
					return yamlDelimiter
				}
			}
		}
		return ""
	}
	return ""
}
