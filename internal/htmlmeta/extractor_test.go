package htmlmeta

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <TITLE>  Example &amp; Co  </TITLE>
  <meta content="A short description" name="Description">
  <meta property="og:image" content="/img/preview.png">
  <meta name="twitter:image" content="https://cdn.example.com/tw.png">
  <link href="/favicon.ico" rel="Shortcut  Icon">
  <link rel="stylesheet" href="/style.css">
</head>
<body><h1>Hello</h1><img src="a.png"/></body>
</html>`

func mustParse(t *testing.T, doc string) *Extractor {
	t.Helper()

	e, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	return e
}

func TestExtractorFirstAttr(t *testing.T) {
	t.Parallel()

	e := mustParse(t, samplePage)

	tests := []struct {
		name   string
		query  Query
		want   string
		wantOK bool
	}{
		{
			name:   "attribute order does not matter",
			query:  Query{Tag: "meta", MatchAttr: "name", MatchValues: []string{"description"}, ReturnAttr: "content"},
			want:   "A short description",
			wantOK: true,
		},
		{
			name:   "property match returns content",
			query:  Query{Tag: "meta", MatchAttr: "property", MatchValues: []string{"og:image"}, ReturnAttr: "content"},
			want:   "/img/preview.png",
			wantOK: true,
		},
		{
			name:   "rel whitespace and case are normalized",
			query:  Query{Tag: "link", MatchAttr: "rel", MatchValues: []string{"icon", "shortcut icon"}, ReturnAttr: "href"},
			want:   "/favicon.ico",
			wantOK: true,
		},
		{
			name:   "tag name compares case-insensitively",
			query:  Query{Tag: "META", MatchAttr: "NAME", MatchValues: []string{"twitter:image"}, ReturnAttr: "CONTENT"},
			want:   "https://cdn.example.com/tw.png",
			wantOK: true,
		},
		{
			name:   "empty match attribute returns first element",
			query:  Query{Tag: "img", ReturnAttr: "src"},
			want:   "a.png",
			wantOK: true,
		},
		{
			name:   "missing element reports not found",
			query:  Query{Tag: "meta", MatchAttr: "name", MatchValues: []string{"keywords"}, ReturnAttr: "content"},
			wantOK: false,
		},
		{
			name:   "missing return attribute reports not found",
			query:  Query{Tag: "link", MatchAttr: "rel", MatchValues: []string{"stylesheet"}, ReturnAttr: "media"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := e.FirstAttr(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("FirstAttr() ok = %v, expected %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FirstAttr() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestExtractorText(t *testing.T) {
	t.Parallel()

	t.Run("title text is unescaped", func(t *testing.T) {
		t.Parallel()

		e := mustParse(t, samplePage)
		got, ok := e.Text("title")
		if !ok {
			t.Fatal("expected title to be found")
		}
		if strings.TrimSpace(got) != "Example & Co" {
			t.Errorf("Text(title) = %q", got)
		}
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		t.Parallel()

		e := mustParse(t, "<title>one</title><title>two</title>")
		if got, _ := e.Text("title"); got != "one" {
			t.Errorf("Text(title) = %q, expected %q", got, "one")
		}
	})

	t.Run("markup inside title is kept as text", func(t *testing.T) {
		t.Parallel()

		e := mustParse(t, "<title>a <b>bold</b> move</title>")
		if got, _ := e.Text("title"); got != "a <b>bold</b> move" {
			t.Errorf("Text(title) = %q", got)
		}
	})

	t.Run("missing tag reports not found", func(t *testing.T) {
		t.Parallel()

		e := mustParse(t, "<p>no title here</p>")
		if _, ok := e.Text("title"); ok {
			t.Error("expected title to be missing")
		}
	})

	t.Run("unterminated title at end of document", func(t *testing.T) {
		t.Parallel()

		e := mustParse(t, "<title>cut off")
		if got, ok := e.Text("title"); !ok || got != "cut off" {
			t.Errorf("Text(title) = %q, %v", got, ok)
		}
	})
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		ref    string
		want   string
		wantOK bool
	}{
		{"root-relative path", "https://example.com/a/b", "/img/p.png", "https://example.com/img/p.png", true},
		{"document-relative path", "https://example.com/a/b", "p.png", "https://example.com/a/p.png", true},
		{"protocol-relative URL", "https://example.com/", "//cdn.example.net/x.png", "https://cdn.example.net/x.png", true},
		{"absolute URL is unchanged", "https://example.com/", "http://other.org/i.png", "http://other.org/i.png", true},
		{"surrounding whitespace is trimmed", "https://example.com/", "  /x.png ", "https://example.com/x.png", true},
		{"javascript URL is rejected", "https://example.com/", "javascript:alert(1)", "", false},
		{"bare fragment is rejected", "https://example.com/", "#", "", false},
		{"empty reference is rejected", "https://example.com/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ResolveURL(tt.base, tt.ref)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, %v; expected %q, %v", tt.base, tt.ref, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
