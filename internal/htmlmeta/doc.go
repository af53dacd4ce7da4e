// Package htmlmeta extracts attribute values and element text from HTML
// documents without building a DOM.
//
// An Extractor tokenizes the document once with golang.org/x/net/html and
// keeps every start tag with its attributes, so a page can be queried many
// times ("first meta with property=og:image, return content") cheaply.
//
// Matching rules:
//   - tag and attribute names compare case-insensitively,
//   - attribute order inside a tag is irrelevant,
//   - match values compare case-insensitively with whitespace collapsed,
//     so rel="Shortcut  Icon" matches "shortcut icon".
package htmlmeta
