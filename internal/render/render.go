// Package render merges a saved template into a layout skeleton by literal
// placeholder substitution.
package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mailcraft/mailcraft/internal/document"
)

// PlaceholderImageURL is filled from images[0] and only when an image exists.
const PlaceholderImageURL = "imageUrl"

// Names are the placeholders the engine substitutes. Each one is delimited by
// braces, so no name can match inside another and substitution order is
// irrelevant.
var Names = []string{
	document.VarTitle,
	document.VarContent,
	document.VarFooter,
	PlaceholderImageURL,
	document.BackgroundKey,
	"titleColor", "titleSize", "titleAlignment",
	"contentColor", "contentSize", "contentAlignment",
	"footerColor", "footerSize", "footerAlignment",
}

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Token wraps a name in braces.
func Token(name string) string {
	return "{{" + name + "}}"
}

// lookup resolves a placeholder against the persisted config. ok is false
// when the template holds no value, in which case the token stays as is.
func lookup(t *document.PersistedTemplate, name string) (string, bool) {
	switch name {
	case document.VarTitle, document.VarContent, document.VarFooter:
		v, ok := t.Config.Variables[name]
		return v, ok
	case PlaceholderImageURL:
		return t.ImageURL()
	}
	if !Known(name) {
		return "", false
	}
	v, ok := t.Config.Styles[name]
	return v, ok
}

// Render substitutes every occurrence of each known placeholder. Unknown
// placeholders, and known ones the template has no value for, are left
// verbatim. Values are inserted raw, without HTML escaping.
func Render(layout string, t document.PersistedTemplate) string {
	pairs := make([]string, 0, 2*len(Names))
	for _, name := range Names {
		if v, ok := lookup(&t, name); ok {
			pairs = append(pairs, Token(name), v)
		}
	}
	if len(pairs) == 0 {
		return layout
	}
	// single pass: inserted values are never rescanned
	return strings.NewReplacer(pairs...).Replace(layout)
}

// Placeholders lists the distinct placeholder names in text, sorted.
func Placeholders(text string) []string {
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = true
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Known reports whether the engine substitutes name.
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
