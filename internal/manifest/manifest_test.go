package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-posts/pkg/interfaces"
	"github.com/goliatone/go-posts/pkg/testsupport"
)

func sampleResult() *interfaces.LoadResult {
	return &interfaces.LoadResult{
		Posts: []*interfaces.Post{
			{
				ID:            uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999"),
				Slug:          "postgres-identifiers",
				Title:         "PostgreSQL identifiers are limited to 63 bytes",
				Date:          time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC),
				FeaturedImage: "/images/postgres-identifiers.png",
				Permalink:     "https://blog.example.com/posts/postgres-identifiers",
				SourcePath:    "postgres-identifiers.md",
				Body:          "PostgreSQL truncates <long> identifiers.\n<!--more-->\nMore.\n",
				Excerpt:       "PostgreSQL truncates <long> identifiers.",
				Truncated:     true,
				FrontMatter: interfaces.FrontMatter{
					Params: map[string]any{"series": "databases"},
				},
				Checksum: []byte{0xde, 0xad},
			},
			{
				Slug:       "swagger-middleware",
				Title:      "Serving Swagger docs from a middleware",
				Date:       time.Date(2024, 8, 10, 9, 30, 0, 0, time.UTC),
				SourcePath: "swagger-middleware.md",
			},
		},
		Errors: []*interfaces.FileError{
			{Path: "untitled.md", Reason: "missing required field title"},
		},
		DraftsSkipped: 1,
	}
}

func fixedOptions() Options {
	return Options{
		GeneratedAt: time.Date(2024, 9, 15, 8, 0, 0, 0, time.UTC),
		BuildID:     uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	}
}

func TestNewKeepsOrderAndErrors(t *testing.T) {
	m := New(sampleResult(), fixedOptions())

	if len(m.Posts) != 2 || m.Posts[0].Slug != "postgres-identifiers" || m.Posts[1].Slug != "swagger-middleware" {
		t.Fatalf("unexpected posts %+v", m.Posts)
	}
	if m.Posts[0].Date != "2024-09-14" {
		t.Fatalf("expected calendar date, got %s", m.Posts[0].Date)
	}
	if m.Posts[1].Date != "2024-08-10T09:30:00Z" {
		t.Fatalf("expected RFC3339 date, got %s", m.Posts[1].Date)
	}
	if m.Posts[0].Checksum != "dead" {
		t.Fatalf("expected hex checksum, got %s", m.Posts[0].Checksum)
	}
	if len(m.Errors) != 1 || m.Errors[0].Path != "untitled.md" {
		t.Fatalf("unexpected errors %+v", m.Errors)
	}
	if m.DraftsSkipped != 1 || m.BuildID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("unexpected metadata %+v", m)
	}
}

func TestNewWithNilResult(t *testing.T) {
	m := New(nil, Options{})
	if m.Posts == nil || m.Errors == nil {
		t.Fatal("expected empty, non-nil slices")
	}
	if m.BuildID == "" || m.GeneratedAt.IsZero() {
		t.Fatal("expected generated metadata")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, New(sampleResult(), fixedOptions()), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !strings.Contains(buf.String(), "<long>") {
		t.Fatalf("expected HTML to stay unescaped, got %s", buf.String())
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	posts, ok := decoded["posts"].([]any)
	if !ok || len(posts) != 2 {
		t.Fatalf("unexpected posts %#v", decoded["posts"])
	}
	first := posts[0].(map[string]any)
	if first["featured_image"] != "/images/postgres-identifiers.png" {
		t.Fatalf("unexpected entry %#v", first)
	}
	second := posts[1].(map[string]any)
	if _, ok := second["featured_image"]; ok {
		t.Fatalf("expected empty featured image to be omitted")
	}
	if decoded["generated_at"] != "2024-09-15T08:00:00Z" {
		t.Fatalf("unexpected generated_at %v", decoded["generated_at"])
	}
}

func TestWriteJSONMatchesGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, New(sampleResult(), fixedOptions()), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := testsupport.LoadGolden("testdata/manifest.golden.json", &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("manifest mismatch\n got: %s", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, New(sampleResult(), fixedOptions()), FormatYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded struct {
		Posts []struct {
			Slug   string         `yaml:"slug"`
			Params map[string]any `yaml:"params"`
		} `yaml:"posts"`
		Errors []Failure `yaml:"errors"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Posts) != 2 || decoded.Posts[0].Params["series"] != "databases" {
		t.Fatalf("unexpected posts %+v", decoded.Posts)
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].Reason != "missing required field title" {
		t.Fatalf("unexpected errors %+v", decoded.Errors)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatJSON,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
	}
	for input, want := range tests {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q): expected %s, got %s (%v)", input, want, got, err)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if err := Write(&bytes.Buffer{}, New(nil, Options{}), Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat from Write, got %v", err)
	}
}
