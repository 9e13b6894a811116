package frontmatter

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseExtractsKeysAndBody(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	values, body, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantKeys := []string{"date", "draft", "featured_image", "series", "tags", "title"}
	if got := values.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, got)
	}
	if values["title"] != "PostgreSQL identifiers are truncated at 63 bytes" {
		t.Fatalf("unexpected title %#v", values["title"])
	}
	if values["draft"] != false {
		t.Fatalf("unexpected draft %#v", values["draft"])
	}
	date, ok := values["date"].(time.Time)
	if !ok {
		t.Fatalf("expected date to decode as time.Time, got %T", values["date"])
	}
	if date.Year() != 2024 || date.Month() != time.September || date.Day() != 14 {
		t.Fatalf("unexpected date %v", date)
	}

	closing := "+++\n"
	idx := strings.Index(string(data[3:]), closing) + 3 + len(closing)
	if string(body) != string(data[idx:]) {
		t.Fatalf("body mismatch:\nwant %q\ngot  %q", string(data[idx:]), string(body))
	}
}

func TestParseBodyIsContentMinusBlock(t *testing.T) {
	source := "+++\ntitle = \"Pooling\"\n+++\nFirst line\n\nSecond line\n"

	_, body, err := Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(body) != "First line\n\nSecond line\n" {
		t.Fatalf("unexpected body %q", string(body))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{name: "no block", source: "# Just markdown\n", want: ErrNotFound},
		{name: "unterminated", source: "+++\ntitle = \"x\"\n\nbody\n", want: ErrMalformed},
		{name: "invalid toml", source: "+++\ntitle = \n+++\nbody\n", want: ErrMalformed},
		{name: "yaml not enabled", source: "---\ntitle: x\n---\nbody\n", want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.source))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseWithFormatsAcceptsYAML(t *testing.T) {
	source := "---\ntitle: Swagger middleware\ndraft: true\n---\nbody\n"

	values, body, err := ParseWithFormats([]byte(source), FormatTOML, FormatYAML)
	if err != nil {
		t.Fatalf("ParseWithFormats: %v", err)
	}
	if values["title"] != "Swagger middleware" || values["draft"] != true {
		t.Fatalf("unexpected values %#v", values)
	}
	if string(body) != "body\n" {
		t.Fatalf("unexpected body %q", string(body))
	}
}

func TestParseFormatsRejectsUnknown(t *testing.T) {
	if _, err := ParseFormats([]string{"toml", "json"}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	formats, err := ParseFormats([]string{" TOML ", "yaml"})
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	if len(formats) != 2 || formats[0] != FormatTOML || formats[1] != FormatYAML {
		t.Fatalf("unexpected formats %#v", formats)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	values, _, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	encoded, err := Marshal(values)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(encoded), "+++\n") || !strings.HasSuffix(string(encoded), "+++\n") {
		t.Fatalf("expected delimited block, got %q", string(encoded))
	}

	again, body, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse re-encoded: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty body, got %q", string(body))
	}
	if !reflect.DeepEqual(values, again) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", values, again)
	}
}

func TestMarshalEmptyValues(t *testing.T) {
	encoded, err := Marshal(Values{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != "+++\n+++\n" {
		t.Fatalf("unexpected encoding %q", string(encoded))
	}
}

func TestValuesCloneIsIndependent(t *testing.T) {
	original := Values{"title": "a"}
	clone := original.Clone()
	clone["title"] = "b"
	if original["title"] != "a" {
		t.Fatalf("expected original to stay untouched, got %v", original["title"])
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
