// Package parse turns a provider's already-captured, ANSI-stripped screen
// text into internal/usage.Data. Each parser is a tolerant regex pass over
// ad-hoc terminal layout, one per provider's own rendering, written as a
// small table of package-level regexes per provider.
package parse

import "strings"

// stripBoxGlyphs removes box-drawing characters from line edges before
// matching; every parser strips these from line edges first.
func stripBoxGlyphs(line string) string {
	return strings.Trim(line, "│╭╰ \t")
}

func lines(capture string) []string {
	raw := strings.Split(capture, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = stripBoxGlyphs(l)
	}
	return out
}
