// Package markup parses the lightweight inline syntax notes may carry:
// ==text== highlights (yellow by default, g:/b:/p: prefixes for green,
// blue, pink) and {c:color}text{/c} colored spans. Content is stored
// with the markup inline; the server never interprets it.
package markup

import (
	"regexp"
	"strings"
)

// Kind tells what a parsed segment is.
type Kind int

const (
	// Plain is unstyled text.
	Plain Kind = iota
	// Highlight is a ==...== span.
	Highlight
	// ColorText is a {c:...}...{/c} span.
	ColorText
)

// Segment is one run of text with uniform styling.
type Segment struct {
	Kind  Kind
	Text  string
	Color string
}

var (
	highlightColorRe = regexp.MustCompile(`==([pgb]):([^=]+)==`)
	highlightRe      = regexp.MustCompile(`==([^=:]+)==`)
	colorRe          = regexp.MustCompile(`\{c:(\w+)\}([^{]+)\{/c\}`)
)

var highlightNames = map[string]string{
	"p": "pink",
	"g": "green",
	"b": "blue",
}

// highlightPrefixes is the inverse of highlightNames, with yellow as
// the unprefixed default.
var highlightPrefixes = map[string]string{
	"yellow": "",
	"green":  "g:",
	"blue":   "b:",
	"pink":   "p:",
}

// Parse splits text into styled segments. Malformed or unclosed markup
// is left as plain text.
func Parse(text string) []Segment {
	if text == "" {
		return nil
	}

	var segs []Segment
	rest := text
	for rest != "" {
		kind, color, loc := nextMatch(rest)
		if loc == nil {
			segs = append(segs, Segment{Kind: Plain, Text: rest})
			break
		}
		if loc[0] > 0 {
			segs = append(segs, Segment{Kind: Plain, Text: rest[:loc[0]]})
		}
		segs = append(segs, Segment{Kind: kind, Text: rest[loc[2]:loc[3]], Color: color})
		rest = rest[loc[1]:]
	}
	return segs
}

// nextMatch finds the earliest markup token in s. The returned loc has
// the shape [start, end, contentStart, contentEnd], or nil when s holds
// no markup.
func nextMatch(s string) (Kind, string, []int) {
	var (
		bestKind  Kind
		bestColor string
		bestLoc   []int
	)
	consider := func(kind Kind, color string, loc []int) {
		if loc == nil {
			return
		}
		if bestLoc == nil || loc[0] < bestLoc[0] {
			bestKind, bestColor, bestLoc = kind, color, loc
		}
	}

	if m := highlightColorRe.FindStringSubmatchIndex(s); m != nil {
		consider(Highlight, highlightNames[s[m[2]:m[3]]], []int{m[0], m[1], m[4], m[5]})
	}
	if m := highlightRe.FindStringSubmatchIndex(s); m != nil {
		consider(Highlight, "yellow", []int{m[0], m[1], m[2], m[3]})
	}
	if m := colorRe.FindStringSubmatchIndex(s); m != nil {
		consider(ColorText, s[m[2]:m[3]], []int{m[0], m[1], m[4], m[5]})
	}
	return bestKind, bestColor, bestLoc
}

// Strip removes all markup, keeping the inner text. Used for export
// and search indexing.
func Strip(text string) string {
	if text == "" {
		return ""
	}
	text = highlightColorRe.ReplaceAllString(text, "$2")
	text = highlightRe.ReplaceAllString(text, "$1")
	text = colorRe.ReplaceAllString(text, "$2")
	return text
}

// Has reports whether text contains any markup tokens.
func Has(text string) bool {
	return strings.Contains(text, "==") || strings.Contains(text, "{c:")
}

// InsertHighlight wraps the rune range [start, end) in highlight
// markup. Unknown colors fall back to yellow. Positions are rune
// offsets, so multi-byte text selects correctly.
func InsertHighlight(text string, start, end int, color string) string {
	before, selected, after := splitRunes(text, start, end)
	prefix, ok := highlightPrefixes[color]
	if !ok {
		prefix = ""
	}
	return before + "==" + prefix + selected + "==" + after
}

// InsertColor wraps the rune range [start, end) in a colored span.
func InsertColor(text string, start, end int, color string) string {
	before, selected, after := splitRunes(text, start, end)
	return before + "{c:" + color + "}" + selected + "{/c}" + after
}

// splitRunes cuts text at rune offsets, clamping out-of-range values.
func splitRunes(text string, start, end int) (before, selected, after string) {
	runes := []rune(text)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

// Overlay requests a highlight anchored to a literal substring of the
// content rather than to an offset. Anchors survive edits elsewhere in
// the note; an anchor whose text was edited away is stale.
type Overlay struct {
	Anchor string
	Color  string
}

// ApplyOverlays renders overlays into inline highlight markup. Each
// overlay wraps the first occurrence of its anchor. Stale overlays,
// whose anchor no longer appears in the content, are silently omitted
// rather than reported.
func ApplyOverlays(text string, overlays []Overlay) string {
	for _, o := range overlays {
		if o.Anchor == "" {
			continue
		}
		i := strings.Index(text, o.Anchor)
		if i < 0 {
			continue
		}
		prefix, ok := highlightPrefixes[o.Color]
		if !ok {
			prefix = ""
		}
		text = text[:i] + "==" + prefix + o.Anchor + "==" + text[i+len(o.Anchor):]
	}
	return text
}
