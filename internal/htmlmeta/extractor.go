package htmlmeta

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Query selects the first element with the given tag whose MatchAttr equals
// one of MatchValues, and returns its ReturnAttr.
//
// An empty MatchAttr matches every element with the tag.
type Query struct {
	Tag         string
	MatchAttr   string
	MatchValues []string
	ReturnAttr  string
}

// element is a start tag seen during tokenization.
type element struct {
	tag   string
	attrs map[string]string
}

// Extractor answers queries against a tokenized document.
type Extractor struct {
	elements []element

	// texts holds the text directly inside the first occurrence of each tag.
	texts map[string]string
}

// Parse tokenizes r. Malformed markup is tolerated the way browsers do;
// only read errors are returned.
func Parse(r io.Reader) (*Extractor, error) {
	e := &Extractor{texts: make(map[string]string)}
	z := html.NewTokenizer(r)

	// capturing is the tag whose text is being collected, if any.
	capturing := ""
	var text strings.Builder

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			if capturing != "" {
				e.texts[capturing] = text.String()
			}
			return e, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if capturing != "" {
				e.texts[capturing] = text.String()
				capturing = ""
			}
			el := element{tag: strings.ToLower(tok.Data), attrs: make(map[string]string, len(tok.Attr))}
			for _, a := range tok.Attr {
				key := strings.ToLower(a.Key)
				if _, dup := el.attrs[key]; !dup {
					el.attrs[key] = a.Val
				}
			}
			e.elements = append(e.elements, el)
			if _, seen := e.texts[el.tag]; !seen && tt == html.StartTagToken {
				capturing = el.tag
				text.Reset()
			}

		case html.EndTagToken:
			if capturing != "" {
				e.texts[capturing] = text.String()
				capturing = ""
			}

		case html.TextToken:
			if capturing != "" {
				text.Write(z.Text())
			}
		}
	}
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Extractor, error) {
	return Parse(strings.NewReader(s))
}

// FirstAttr returns the ReturnAttr value of the first element matching q.
// The second result is false when no element matches or the matching
// element lacks ReturnAttr.
func (e *Extractor) FirstAttr(q Query) (string, bool) {
	tag := strings.ToLower(q.Tag)
	matchAttr := strings.ToLower(q.MatchAttr)
	returnAttr := strings.ToLower(q.ReturnAttr)

	for _, el := range e.elements {
		if el.tag != tag {
			continue
		}
		if matchAttr != "" {
			v, ok := el.attrs[matchAttr]
			if !ok || !matchesAny(v, q.MatchValues) {
				continue
			}
		}
		if v, ok := el.attrs[returnAttr]; ok {
			return v, true
		}
	}
	return "", false
}

// Text returns the text directly inside the first element named tag, up to
// the next tag boundary. It suits text-only elements like <title>.
func (e *Extractor) Text(tag string) (string, bool) {
	v, ok := e.texts[strings.ToLower(tag)]
	return v, ok
}

func matchesAny(v string, values []string) bool {
	v = normalize(v)
	for _, want := range values {
		if v == normalize(want) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ResolveURL resolves ref against base and returns an absolute URL.
// Script, mail and phone pseudo-URLs and bare fragments are rejected.
func ResolveURL(base, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" {
		return "", false
	}
	lower := strings.ToLower(ref)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return b.ResolveReference(u).String(), true
}
