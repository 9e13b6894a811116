package excerpt

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// DefaultMarker separates the list-view preview from the rest of a post.
const DefaultMarker = "<!--more-->"

const ellipsis = "…"

// Options configures a Builder.
type Options struct {
	// Marker overrides DefaultMarker.
	Marker string
	// MaxChars limits the plain-text excerpt used when the body has no marker.
	// Zero or negative keeps the full body.
	MaxChars int
}

// Result is the computed excerpt for a body.
type Result struct {
	Text      string
	Truncated bool
	// FromMarker reports whether Text was cut at the marker.
	FromMarker bool
}

// Builder computes excerpts. It is stateless after construction and safe to reuse.
type Builder struct {
	marker   string
	maxChars int
	md       goldmark.Markdown
}

// New constructs a Builder with the supplied options.
func New(opts Options) *Builder {
	marker := opts.Marker
	if strings.TrimSpace(marker) == "" {
		marker = DefaultMarker
	}
	return &Builder{
		marker:   marker,
		maxChars: opts.MaxChars,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Build returns the excerpt for body. The text before the first marker wins;
// without a marker the full body is returned unless a character budget is set.
func (b *Builder) Build(body string) Result {
	if before, rest, ok := cut(body, b.marker); ok {
		return Result{
			Text:       before,
			Truncated:  strings.TrimSpace(rest) != "",
			FromMarker: true,
		}
	}

	if b.maxChars <= 0 {
		return Result{Text: body}
	}

	plain := b.PlainText([]byte(body))
	truncated, wasCut := truncate(plain, b.maxChars)
	return Result{
		Text:      truncated,
		Truncated: wasCut,
	}
}

// Split returns the text before the first marker occurrence with trailing
// whitespace removed. When the marker is absent the body is returned as is.
func Split(body, marker string) (string, bool) {
	if strings.TrimSpace(marker) == "" {
		marker = DefaultMarker
	}
	before, _, ok := cut(body, marker)
	if !ok {
		return body, false
	}
	return before, true
}

// PlainText renders Markdown into whitespace-normalised plain text by walking
// the goldmark AST. Code blocks and raw HTML are dropped.
func (b *Builder) PlainText(source []byte) string {
	doc := b.md.Parser().Parse(text.NewReader(source))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

func cut(body, marker string) (string, string, bool) {
	idx := strings.Index(body, marker)
	if idx < 0 {
		return body, "", false
	}
	return strings.TrimRightFunc(body[:idx], unicode.IsSpace), body[idx+len(marker):], true
}

func truncate(value string, maxChars int) (string, bool) {
	runes := []rune(value)
	if len(runes) <= maxChars {
		return value, false
	}

	head := string(runes[:maxChars])
	if !unicode.IsSpace(runes[maxChars]) {
		if idx := strings.LastIndexFunc(head, unicode.IsSpace); idx > 0 {
			head = head[:idx]
		}
	}
	head = strings.TrimRightFunc(head, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return head + ellipsis, true
}
