// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// COMMAND KINDS
// =============================================================================

// CommandKind classifies a parsed transcript.
type CommandKind string

const (
	CmdUnknown         CommandKind = "unknown"
	CmdHelp            CommandKind = "help"
	CmdList            CommandKind = "list"
	CmdUndo            CommandKind = "undo"
	CmdRedo            CommandKind = "redo"
	CmdSelectAll       CommandKind = "select_all"
	CmdDeselect        CommandKind = "deselect"
	CmdSelect          CommandKind = "select"
	CmdDuplicate       CommandKind = "duplicate"
	CmdDeleteAll       CommandKind = "delete_all"
	CmdDelete          CommandKind = "delete"
	CmdTableAddRow     CommandKind = "table_add_row"
	CmdTableAddColumn  CommandKind = "table_add_column"
	CmdTableSetCell    CommandKind = "table_set_cell"
	CmdTableFillColumn CommandKind = "table_fill_column"
	CmdStyleToggle     CommandKind = "style_toggle"
	CmdSetStyle        CommandKind = "set_style"
	CmdResize          CommandKind = "resize"
	CmdResizeRelative  CommandKind = "resize_relative"
	CmdAddRelative     CommandKind = "add_relative"
	CmdAdd             CommandKind = "add"
	CmdConnect         CommandKind = "connect"
	CmdLabelConnector  CommandKind = "label_connector"
	CmdMoveRelative    CommandKind = "move_relative"
	CmdNudge           CommandKind = "nudge"
	CmdRename          CommandKind = "rename"
)

// =============================================================================
// PARSED COMMAND
// =============================================================================

// Command is the typed result of parsing one transcript. Only the fields
// relevant to Kind are populated. Numeric parameters are carried as the raw
// matched substrings; the executor validates them at consumption time so that
// a bad number produces a descriptive failure instead of a non-match.
type Command struct {
	Kind CommandKind

	// Entity references (spoken names, unresolved)
	Name string // primary subject ("Foo", the table, the from-node)
	Ref  string // placement / move reference node
	To   string // connect / label target, rename's new name

	// Creation
	Shape diagram.Kind

	// Spatial
	Direction Direction
	Nudge     NudgeDirection

	// Style
	Property string // canonical property name for set-style
	Weight   string // "bold" or "normal" for the toggle form

	// Raw values, validated by the executor
	Value  string // style value, cell value, column label, connector label
	Width  string // resize width
	Height string // resize height
	Amount string // nudge distance ("" = default step)
	Row    string // 1-based table row
	Col    string // 1-based table column

	// Resize-relative adjective (wider/narrower/taller/shorter/bigger/smaller)
	Adjective string
}

// =============================================================================
// MATCHERS
// =============================================================================

// matcher pairs one compiled pattern with an extractor. The extractor may
// reject a textual match (returning ok=false) to let parsing fall through to
// later, more general patterns; the color shorthand and the creation forms
// rely on that.
type matcher struct {
	re    *regexp.Regexp
	build func(m match) (Command, bool)
}

// match wraps named capture groups.
type match map[string]string

func (m match) get(key string) string { return strings.TrimSpace(m[key]) }

// Parser classifies transcripts with a fixed, ordered matcher list. Order
// encodes precedence: more specific patterns are tried before the permissive
// ones they overlap with.
type Parser struct {
	matchers []matcher
}

// NewParser compiles the grammar.
func NewParser() *Parser {
	return &Parser{matchers: buildGrammar()}
}

// Normalize lower-cases, trims, NFKC-normalizes, collapses runs of
// whitespace, and strips trailing sentence punctuation. Speech-to-text output
// routinely arrives with smart quotes, double spaces, and a trailing period.
func Normalize(transcript string) string {
	s := norm.NFKC.String(transcript)
	s = strings.ReplaceAll(s, "’", "'") // curly apostrophe from dictation
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".!?")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// Parse classifies a transcript. The first matcher whose pattern matches and
// whose extractor accepts wins; if none do, the result has CmdUnknown.
func (p *Parser) Parse(transcript string) Command {
	text := Normalize(transcript)
	if text == "" {
		return Command{Kind: CmdUnknown}
	}
	for _, m := range p.matchers {
		sub := m.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		groups := make(match)
		for i, name := range m.re.SubexpNames() {
			if name != "" && i < len(sub) {
				groups[name] = sub[i]
			}
		}
		if cmd, ok := m.build(groups); ok {
			return cmd
		}
	}
	return Command{Kind: CmdUnknown}
}

// =============================================================================
// GRAMMAR
// =============================================================================

// buildGrammar returns the ordered matcher list. The order is load-bearing:
//
//  1. meta (undo/redo/help/list)
//  2. selection
//  3. duplication
//  4. deletion (bulk before single)
//  5. table mutation (row+column cell form before the column-name form)
//  6. bold/normal toggle, then the generic set-style form
//  7. color shorthand (only if the value is a known color)
//  8. resize (absolute, then relative adjectives)
//  9. creation (relative, named, loose, bare)
// 10. connect
// 11. connector labeling
// 12. movement (anchored before nudge)
// 13. rename
func buildGrammar() []matcher {
	dirAlt := directionAlternation()
	// The anchored-move form must not swallow nudges: bare "left"/"right" are
	// reserved for nudge commands there.
	moveDirAlt := directionAlternationAnchored()

	return []matcher{
		// --- 1. Meta -------------------------------------------------------
		fixed(`^undo( (that|last))?$`, CmdUndo),
		fixed(`^redo( that)?$`, CmdRedo),
		fixed(`^(help|what can i say|show commands|commands)$`, CmdHelp),
		fixed(`^(list( (nodes|shapes))?|inventory|what('| i)?s on the canvas)$`, CmdList),

		// --- 2. Selection --------------------------------------------------
		fixed(`^select (all|everything)$`, CmdSelectAll),
		fixed(`^(deselect( all)?|clear( the)? selection)$`, CmdDeselect),
		{
			re: regexp.MustCompile(`^select (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdSelect, Name: m.get("name")}, true
			},
		},

		// --- 3. Duplication ------------------------------------------------
		{
			re: regexp.MustCompile(`^(duplicate|copy|clone) (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdDuplicate, Name: m.get("name")}, true
			},
		},

		// --- 4. Deletion ---------------------------------------------------
		fixed(`^(delete all|remove all|clear( the)? canvas|delete everything)$`, CmdDeleteAll),
		{
			re: regexp.MustCompile(`^(delete|remove) (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdDelete, Name: m.get("name")}, true
			},
		},

		// --- 5. Table mutation --------------------------------------------
		{
			re: regexp.MustCompile(`^add (a |another )?row to (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdTableAddRow, Name: m.get("name")}, true
			},
		},
		{
			re: regexp.MustCompile(`^add (a )?column (?P<value>.+?) to (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdTableAddColumn, Name: m.get("name"), Value: m.get("value")}, true
			},
		},
		{
			// Cell addressed by 1-based row and column numbers. Tried before
			// the looser fill-by-column-name form below.
			re: regexp.MustCompile(`^(set|fill) (?P<name>.+?) row (?P<row>\S+) column (?P<col>\S+) (to|with|as) (?P<value>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{
					Kind:  CmdTableSetCell,
					Name:  m.get("name"),
					Row:   m.get("row"),
					Col:   m.get("col"),
					Value: m.get("value"),
				}, true
			},
		},
		{
			// "fill <table> <column> with <value>" writes the first row whose
			// cell for that column is empty.
			re: regexp.MustCompile(`^fill (?P<name>.+?) (?P<col>.+?) (with|to|as) (?P<value>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{
					Kind:  CmdTableFillColumn,
					Name:  m.get("name"),
					Col:   m.get("col"),
					Value: m.get("value"),
				}, true
			},
		},

		// --- 6. Style ------------------------------------------------------
		{
			// Bold/normal toggle. Must precede the generic set form because
			// the grammars overlap on the "set" verb.
			re: regexp.MustCompile(`^(set|make) (?P<name>.+?) (?P<weight>bold|normal)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdStyleToggle, Name: m.get("name"), Weight: m.get("weight")}, true
			},
		},
		{
			// Generic "set <name> <property> to <value>". The property
			// alternation lists two-word forms first so "fill color" is not
			// cut short at "fill".
			re: regexp.MustCompile(`^set (?P<name>.+?)(?:'s)? (?P<prop>fill color|fill colour|text color|text colour|stroke color|stroke colour|font size|border radius|fill|color|colour|font|radius|opacity|stroke|width|height) (to|=) (?P<value>.+)$`),
			build: func(m match) (Command, bool) {
				prop, ok := canonicalProperty(m.get("prop"))
				if !ok {
					return Command{}, false
				}
				return Command{Kind: CmdSetStyle, Name: m.get("name"), Property: prop, Value: m.get("value")}, true
			},
		},

		// --- 7. Color shorthand -------------------------------------------
		{
			// "make Foo blue" / "color Foo red" / "set Foo to green". Only
			// matches when the final word is a known color or hex literal;
			// otherwise parsing falls through.
			re: regexp.MustCompile(`^(set|make|color|colour|paint) (?P<name>.+?)(?: to)? (?P<value>\S+)$`),
			build: func(m match) (Command, bool) {
				if _, ok := ResolveColor(m.get("value")); !ok {
					return Command{}, false
				}
				return Command{Kind: CmdSetStyle, Name: m.get("name"), Property: "fill", Value: m.get("value")}, true
			},
		},

		// --- 8. Resize -----------------------------------------------------
		{
			re: regexp.MustCompile(`^resize (?P<name>.+?) to (?P<w>\S+) (by|x) (?P<h>\S+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdResize, Name: m.get("name"), Width: m.get("w"), Height: m.get("h")}, true
			},
		},
		{
			re: regexp.MustCompile(`^make (?P<name>.+?) (?P<adj>wider|narrower|taller|shorter|bigger|larger|smaller)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdResizeRelative, Name: m.get("name"), Adjective: m.get("adj")}, true
			},
		},

		// --- 9. Creation ---------------------------------------------------
		{
			// Relative form first: strictly more specific than the plain add.
			// Requires both a known shape and a known direction phrase.
			re: regexp.MustCompile(`^(add|create|insert|draw) (?:a |an )?(?P<shape>.+?) (?:called|named) (?P<name>.+?) (?P<dir>` + dirAlt + `) (?P<ref>.+)$`),
			build: func(m match) (Command, bool) {
				shape, ok := ResolveShape(m.get("shape"))
				if !ok {
					return Command{}, false
				}
				dir, ok := ResolveDirection(m.get("dir"))
				if !ok {
					return Command{}, false
				}
				return Command{
					Kind:      CmdAddRelative,
					Shape:     shape,
					Name:      m.get("name"),
					Direction: dir,
					Ref:       m.get("ref"),
				}, true
			},
		},
		{
			re: regexp.MustCompile(`^(add|create|insert|draw) (?:a |an )?(?P<shape>.+?) (?:called|named) (?P<name>.+)$`),
			build: func(m match) (Command, bool) {
				shape, ok := ResolveShape(m.get("shape"))
				if !ok {
					return Command{}, false
				}
				return Command{Kind: CmdAdd, Shape: shape, Name: m.get("name")}, true
			},
		},
		{
			// Loose form without called/named, and the bare "add <shape>".
			// The shape is taken as the longest alias prefix of the remainder
			// so "add rounded rectangle orders" parses correctly.
			re: regexp.MustCompile(`^(add|create|insert|draw) (?:a |an |another )?(?P<rest>.+)$`),
			build: func(m match) (Command, bool) {
				shape, name, ok := splitShapePrefix(m.get("rest"))
				if !ok {
					return Command{}, false
				}
				return Command{Kind: CmdAdd, Shape: shape, Name: name}, true
			},
		},

		// --- 10. Connection ------------------------------------------------
		{
			re: regexp.MustCompile(`^(connect|link) (?P<from>.+?) to (?P<to>.+?)(?: (?:with label|as label|labeled|with|as|label) (?P<label>.+))?$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdConnect, Name: m.get("from"), To: m.get("to"), Value: m.get("label")}, true
			},
		},

		// --- 11. Connector labeling ---------------------------------------
		{
			re: regexp.MustCompile(`^label (?P<from>.+?) to (?P<to>.+?) (?:with|as) (?P<label>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdLabelConnector, Name: m.get("from"), To: m.get("to"), Value: m.get("label")}, true
			},
		},

		// --- 12. Movement --------------------------------------------------
		{
			// Anchored move. Bare "left"/"right"/"up"/"down" never match
			// here; they belong to the nudge form below.
			re: regexp.MustCompile(`^move (?P<name>.+?) (?P<dir>` + moveDirAlt + `) (?P<ref>.+)$`),
			build: func(m match) (Command, bool) {
				dir, ok := ResolveDirection(m.get("dir"))
				if !ok {
					return Command{}, false
				}
				return Command{Kind: CmdMoveRelative, Name: m.get("name"), Direction: dir, Ref: m.get("ref")}, true
			},
		},
		{
			re: regexp.MustCompile(`^(move|nudge|push|shift) (?P<name>.+?) (?P<dir>up|down|left|right)(?: (?:by )?(?P<amount>\S+))?$`),
			build: func(m match) (Command, bool) {
				nd, ok := ResolveNudge(m.get("dir"))
				if !ok {
					return Command{}, false
				}
				return Command{Kind: CmdNudge, Name: m.get("name"), Nudge: nd, Amount: m.get("amount")}, true
			},
		},

		// --- 13. Rename ----------------------------------------------------
		{
			re: regexp.MustCompile(`^rename (?P<name>.+?) to (?P<to>.+)$`),
			build: func(m match) (Command, bool) {
				return Command{Kind: CmdRename, Name: m.get("name"), To: m.get("to")}, true
			},
		},
	}
}

// fixed builds a matcher for a fixed-phrase command with no parameters.
func fixed(pattern string, kind CommandKind) matcher {
	return matcher{
		re:    regexp.MustCompile(pattern),
		build: func(match) (Command, bool) { return Command{Kind: kind}, true },
	}
}

// canonicalProperty normalizes the spoken property synonyms of the generic
// set-style form.
func canonicalProperty(prop string) (string, bool) {
	switch prop {
	case "fill", "fill color", "fill colour", "color", "colour":
		return "fill", true
	case "text color", "text colour":
		return "text_color", true
	case "stroke", "stroke color", "stroke colour":
		return "stroke", true
	case "font size", "font":
		return "font_size", true
	case "border radius", "radius":
		return "radius", true
	case "opacity":
		return "opacity", true
	case "width":
		return "width", true
	case "height":
		return "height", true
	}
	return "", false
}

// splitShapePrefix splits "rounded rectangle orders" into the longest shape
// alias prefix and the remaining name (which may be empty for bare adds).
func splitShapePrefix(rest string) (diagram.Kind, string, bool) {
	best := ""
	var bestKind diagram.Kind
	for alias, kind := range shapeAliases {
		if rest == alias || strings.HasPrefix(rest, alias+" ") {
			if len(alias) > len(best) {
				best = alias
				bestKind = kind
			}
		}
	}
	if best == "" {
		return "", "", false
	}
	return bestKind, strings.TrimSpace(strings.TrimPrefix(rest, best)), true
}

// directionAlternationAnchored is directionAlternation without the bare
// "left"/"right" words, which the anchored-move pattern must leave for nudges.
func directionAlternationAnchored() string {
	keys := make([]string, 0, len(directionAliases))
	for k := range directionAliases {
		if k == "left" || k == "right" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(escaped, "|")
}
