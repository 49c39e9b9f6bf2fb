package neon

import (
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton). End tags,
// quotes and default attribute values are kept so the result parses into
// the same tree the differ compares.
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDefaultAttrVals: true,
			KeepDocumentTags:    true,
			KeepEndTags:         true,
			KeepQuotes:          true,
		})
	})
	return minifier
}

// minifyHTML removes unnecessary whitespace from rendered markup
func minifyHTML(markup string) string {
	if !strings.Contains(markup, "<") {
		return normalizeWhitespace(markup)
	}

	minified, err := getMinifier().String("text/html", markup)
	if err != nil {
		// If minification fails, fall back to original content
		return markup
	}
	return minified
}

// normalizeWhitespace collapses runs of whitespace in text-only markup
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Minify minifies markup the way WithMinify does.
func Minify(markup string) string {
	return minifyHTML(markup)
}
