// Package main provides the entry point for the linkpeek CLI.
//
// linkpeek expands shortened or obfuscated URLs, scores how risky the
// destination looks and resolves preview metadata (title, description,
// preview image, favicon).
//
// Usage:
//
//	linkpeek expand <url>...
//	linkpeek serve --listen :8080
//
// See --help for all available options.
package main

// main is the entry point for linkpeek.
func main() {
	Execute()
}
