// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// EXECUTION CONSTANTS
// =============================================================================

const (
	// DefaultNudgeStep is the move distance when no amount is spoken.
	DefaultNudgeStep = 40.0

	// Minimum dimensions for the spoken set-width/set-height and absolute
	// resize paths. Values below these are rejected, not clamped.
	MinSetWidth  = 20.0
	MinSetHeight = 20.0

	// Floor for the relative resize path ("make it smaller"), which clamps
	// instead of rejecting.
	MinRelativeWidth  = 40.0
	MinRelativeHeight = 24.0

	// Fixed deltas for the relative resize adjectives.
	resizeDeltaW = 40.0
	resizeDeltaH = 24.0

	// Font size bounds for "set <name> font size to <n>".
	MinFontSize = 6
	MaxFontSize = 72
)

// titleCaser renders spoken (lower-cased) names as display labels.
var titleCaser = cases.Title(language.English)

// kindDisplay maps node kinds to the words used in result strings and
// auto-generated names.
var kindDisplay = map[diagram.Kind]string{
	diagram.KindTable:     "Table",
	diagram.KindRectangle: "Rectangle",
	diagram.KindRounded:   "Rounded Rectangle",
	diagram.KindDiamond:   "Diamond",
	diagram.KindText:      "Text",
	diagram.KindBadge:     "Badge",
}

// =============================================================================
// DISPATCH
// =============================================================================

// dispatch routes a parsed command to its handler. Every branch returns a
// non-empty result string; ok=false means no mutation happened.
func (e *Engine) dispatch(cmd Command) (string, bool) {
	switch cmd.Kind {
	case CmdHelp:
		return helpText, true
	case CmdList:
		return e.execList()
	case CmdUndo:
		if err := e.canvas.Undo(); err != nil {
			return "Nothing to undo.", false
		}
		return "Undid the last change.", true
	case CmdRedo:
		if err := e.canvas.Redo(); err != nil {
			return "Nothing to redo.", false
		}
		return "Redid the last undone change.", true
	case CmdSelectAll:
		return e.execSelectAll()
	case CmdDeselect:
		e.canvas.ClearSelection()
		return "Selection cleared.", true
	case CmdSelect:
		return e.execSelect(cmd)
	case CmdDuplicate:
		return e.execDuplicate(cmd)
	case CmdDeleteAll:
		return e.execDeleteAll()
	case CmdDelete:
		return e.execDelete(cmd)
	case CmdTableAddRow:
		return e.execTableAddRow(cmd)
	case CmdTableAddColumn:
		return e.execTableAddColumn(cmd)
	case CmdTableSetCell:
		return e.execTableSetCell(cmd)
	case CmdTableFillColumn:
		return e.execTableFillColumn(cmd)
	case CmdStyleToggle:
		return e.execStyleToggle(cmd)
	case CmdSetStyle:
		return e.execSetStyle(cmd)
	case CmdResize:
		return e.execResize(cmd)
	case CmdResizeRelative:
		return e.execResizeRelative(cmd)
	case CmdAddRelative, CmdAdd:
		return e.execAdd(cmd)
	case CmdConnect:
		return e.execConnect(cmd)
	case CmdLabelConnector:
		return e.execLabelConnector(cmd)
	case CmdMoveRelative:
		return e.execMoveRelative(cmd)
	case CmdNudge:
		return e.execNudge(cmd)
	case CmdRename:
		return e.execRename(cmd)
	default:
		return `Sorry, I didn't understand that. Say "help" to see what you can say.`, false
	}
}

// find resolves a spoken name against the current canvas.
func (e *Engine) find(name string) *diagram.Node {
	return FindNode(e.canvas.Nodes(), name)
}

// cannotFind is the standard unresolved-reference failure.
func cannotFind(name string) (string, bool) {
	return fmt.Sprintf("I can't find anything called %q on the canvas.", name), false
}

// =============================================================================
// CREATION
// =============================================================================

func (e *Engine) execAdd(cmd Command) (string, bool) {
	nodes := e.canvas.Nodes()

	label := strings.TrimSpace(cmd.Name)
	if label == "" {
		label = fmt.Sprintf("%s %d", kindDisplay[cmd.Shape], e.canvas.CountKind(cmd.Shape)+1)
	} else {
		label = titleCaser.String(label)
	}

	var x, y float64
	placed := ""
	if cmd.Kind == CmdAddRelative {
		if ref := FindNode(nodes, cmd.Ref); ref != nil {
			x, y = PlaceRelative(ref, cmd.Direction)
			placed = fmt.Sprintf(" %s %q", dirPhrase(cmd.Direction), ref.Label)
		} else {
			// Unresolvable reference: fall back rather than fail, so the
			// shape still appears where the user can see it.
			x, y = PlaceDefault(nodes)
			placed = fmt.Sprintf(" (couldn't find %q, placed at the end)", cmd.Ref)
		}
	} else {
		x, y = PlaceDefault(nodes)
	}

	if _, err := e.canvas.CreateNode(cmd.Shape, x, y, label); err != nil {
		return fmt.Sprintf("Couldn't add the shape: %v.", err), false
	}
	return fmt.Sprintf("Added %s %q%s.", strings.ToLower(kindDisplay[cmd.Shape]), label, placed), true
}

// =============================================================================
// CONNECTION
// =============================================================================

func (e *Engine) execConnect(cmd Command) (string, bool) {
	nodes := e.canvas.Nodes()
	from := FindNode(nodes, cmd.Name)
	if from == nil {
		return cannotFind(cmd.Name)
	}
	to := FindNode(nodes, cmd.To)
	if to == nil {
		return cannotFind(cmd.To)
	}

	fromPort, toPort := ChoosePorts(from, to)
	if _, err := e.canvas.CreateConnector(from.ID, fromPort, to.ID, toPort, cmd.Value); err != nil {
		return fmt.Sprintf("Couldn't connect them: %v.", err), false
	}
	if cmd.Value != "" {
		return fmt.Sprintf("Connected %q to %q, labeled %q.", from.Label, to.Label, cmd.Value), true
	}
	return fmt.Sprintf("Connected %q to %q.", from.Label, to.Label), true
}

func (e *Engine) execLabelConnector(cmd Command) (string, bool) {
	nodes := e.canvas.Nodes()
	from := FindNode(nodes, cmd.Name)
	if from == nil {
		return cannotFind(cmd.Name)
	}
	to := FindNode(nodes, cmd.To)
	if to == nil {
		return cannotFind(cmd.To)
	}

	var target *diagram.Connector
	for _, c := range e.canvas.Connectors() {
		if c.FromID == from.ID && c.ToID == to.ID {
			target = c
			break
		}
	}
	if target == nil {
		return fmt.Sprintf("There's no connector from %q to %q.", from.Label, to.Label), false
	}

	label := cmd.Value
	if err := e.canvas.UpdateConnector(target.ID, diagram.ConnectorUpdate{Label: &label}); err != nil {
		return fmt.Sprintf("Couldn't label the connector: %v.", err), false
	}
	return fmt.Sprintf("Labeled the connector from %q to %q as %q.", from.Label, to.Label, label), true
}

// =============================================================================
// MOVEMENT
// =============================================================================

func (e *Engine) execMoveRelative(cmd Command) (string, bool) {
	nodes := e.canvas.Nodes()
	n := FindNode(nodes, cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	ref := FindNode(nodes, cmd.Ref)
	if ref == nil {
		return cannotFind(cmd.Ref)
	}

	var x, y float64
	switch cmd.Direction {
	case DirRight:
		x, y = ref.X+ref.Width+PlacementGap, ref.Y
	case DirLeft:
		x, y = ref.X-n.Width-PlacementGap, ref.Y
	case DirAbove:
		x, y = ref.X, ref.Y-n.Height-PlacementGap
	case DirBelow:
		x, y = ref.X, ref.Y+ref.Height+PlacementGap
	}

	if err := e.canvas.MoveNode(n.ID, x, y); err != nil {
		return fmt.Sprintf("Couldn't move %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Moved %q %s %q.", n.Label, dirPhrase(cmd.Direction), ref.Label), true
}

// dirPhrase renders a direction for result strings ("left of", "above").
func dirPhrase(d Direction) string {
	switch d {
	case DirLeft:
		return "left of"
	case DirRight:
		return "right of"
	}
	return string(d)
}

func (e *Engine) execNudge(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}

	amount := DefaultNudgeStep
	if cmd.Amount != "" {
		v, err := strconv.ParseFloat(cmd.Amount, 64)
		if err != nil || v <= 0 {
			return fmt.Sprintf("%q isn't a distance I can move by.", cmd.Amount), false
		}
		amount = v
	}

	x, y := n.X, n.Y
	switch cmd.Nudge {
	case NudgeUp:
		y -= amount
	case NudgeDown:
		y += amount
	case NudgeLeft:
		x -= amount
	case NudgeRight:
		x += amount
	}

	if err := e.canvas.MoveNode(n.ID, x, y); err != nil {
		return fmt.Sprintf("Couldn't move %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Moved %q %s by %s.", n.Label, cmd.Nudge, fmtNum(amount)), true
}

// =============================================================================
// DELETE / RENAME / SELECT / DUPLICATE
// =============================================================================

func (e *Engine) execDelete(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	if err := e.canvas.DeleteNodes([]string{n.ID}); err != nil {
		return fmt.Sprintf("Couldn't delete %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Deleted %q.", n.Label), true
}

func (e *Engine) execDeleteAll() (string, bool) {
	count := len(e.canvas.Nodes())
	if count == 0 {
		return "The canvas is already empty.", true
	}
	e.canvas.Clear()
	return fmt.Sprintf("Cleared the canvas (%d shapes removed).", count), true
}

func (e *Engine) execRename(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	oldLabel := n.Label
	newLabel := titleCaser.String(cmd.To)
	newVoice := strings.ToLower(cmd.To)
	// Both labels change so the old name stops resolving immediately.
	err := e.canvas.UpdateNode(n.ID, diagram.NodeUpdate{Label: &newLabel, VoiceLabel: &newVoice})
	if err != nil {
		return fmt.Sprintf("Couldn't rename %q: %v.", oldLabel, err), false
	}
	return fmt.Sprintf("Renamed %q to %q.", oldLabel, newLabel), true
}

func (e *Engine) execSelect(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	e.canvas.SelectNodes([]string{n.ID}, false)
	return fmt.Sprintf("Selected %q.", n.Label), true
}

func (e *Engine) execSelectAll() (string, bool) {
	nodes := e.canvas.Nodes()
	if len(nodes) == 0 {
		return "The canvas is empty.", false
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	e.canvas.SelectNodes(ids, false)
	return fmt.Sprintf("Selected all %d shapes.", len(ids)), true
}

func (e *Engine) execDuplicate(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	e.canvas.SelectNodes([]string{n.ID}, false)
	if _, err := e.canvas.DuplicateSelection(); err != nil {
		return fmt.Sprintf("Couldn't duplicate %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Duplicated %q.", n.Label), true
}

// =============================================================================
// STYLE
// =============================================================================

func (e *Engine) execStyleToggle(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}
	weight := cmd.Weight
	if err := e.canvas.UpdateNodeStyle(n.ID, diagram.StyleUpdate{FontWeight: &weight}); err != nil {
		return fmt.Sprintf("Couldn't restyle %q: %v.", n.Label, err), false
	}
	if weight == "bold" {
		return fmt.Sprintf("Made %q bold.", n.Label), true
	}
	return fmt.Sprintf("Set %q back to normal weight.", n.Label), true
}

func (e *Engine) execSetStyle(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}

	switch cmd.Property {
	case "fill", "stroke", "text_color":
		hex, ok := ResolveColor(cmd.Value)
		if !ok {
			return fmt.Sprintf("I don't know the color %q.", cmd.Value), false
		}
		var u diagram.StyleUpdate
		switch cmd.Property {
		case "fill":
			u.Fill = &hex
		case "stroke":
			u.Stroke = &hex
		case "text_color":
			u.TextColor = &hex
		}
		if err := e.canvas.UpdateNodeStyle(n.ID, u); err != nil {
			return fmt.Sprintf("Couldn't restyle %q: %v.", n.Label, err), false
		}
		return fmt.Sprintf("Set %s of %q to %s.", strings.ReplaceAll(cmd.Property, "_", " "), n.Label, hex), true

	case "font_size":
		size, err := strconv.Atoi(cmd.Value)
		if err != nil || size < MinFontSize || size > MaxFontSize {
			return fmt.Sprintf("Font size must be a whole number between %d and %d (got %q).", MinFontSize, MaxFontSize, cmd.Value), false
		}
		if err := e.canvas.UpdateNodeStyle(n.ID, diagram.StyleUpdate{FontSize: &size}); err != nil {
			return fmt.Sprintf("Couldn't restyle %q: %v.", n.Label, err), false
		}
		return fmt.Sprintf("Set font size of %q to %d.", n.Label, size), true

	case "radius":
		radius, err := strconv.Atoi(cmd.Value)
		if err != nil {
			return fmt.Sprintf("Border radius must be a whole number (got %q).", cmd.Value), false
		}
		if err := e.canvas.UpdateNodeStyle(n.ID, diagram.StyleUpdate{CornerRadius: &radius}); err != nil {
			return fmt.Sprintf("Couldn't restyle %q: %v.", n.Label, err), false
		}
		return fmt.Sprintf("Set corner radius of %q to %d.", n.Label, radius), true

	case "opacity":
		opacity, err := strconv.ParseFloat(cmd.Value, 64)
		if err != nil || opacity < 0 || opacity > 1 {
			return fmt.Sprintf("Opacity must be between 0 and 1 (got %q).", cmd.Value), false
		}
		if err := e.canvas.UpdateNodeStyle(n.ID, diagram.StyleUpdate{Opacity: &opacity}); err != nil {
			return fmt.Sprintf("Couldn't restyle %q: %v.", n.Label, err), false
		}
		return fmt.Sprintf("Set opacity of %q to %s.", n.Label, fmtNum(opacity)), true

	case "width", "height":
		v, err := strconv.ParseFloat(cmd.Value, 64)
		if err != nil {
			return fmt.Sprintf("%q isn't a number I can use for %s.", cmd.Value, cmd.Property), false
		}
		w, h := n.Width, n.Height
		if cmd.Property == "width" {
			if v < MinSetWidth {
				return fmt.Sprintf("Width must be at least %s (got %q).", fmtNum(MinSetWidth), cmd.Value), false
			}
			w = v
		} else {
			if v < MinSetHeight {
				return fmt.Sprintf("Height must be at least %s (got %q).", fmtNum(MinSetHeight), cmd.Value), false
			}
			h = v
		}
		if err := e.canvas.ResizeNode(n.ID, w, h); err != nil {
			return fmt.Sprintf("Couldn't resize %q: %v.", n.Label, err), false
		}
		return fmt.Sprintf("Set %s of %q to %s.", cmd.Property, n.Label, fmtNum(v)), true
	}

	return fmt.Sprintf("I don't know how to set %q.", cmd.Property), false
}

// =============================================================================
// RESIZE
// =============================================================================

func (e *Engine) execResize(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}

	w, err := strconv.ParseFloat(cmd.Width, 64)
	if err != nil {
		return fmt.Sprintf("%q isn't a number I can use for width.", cmd.Width), false
	}
	h, err := strconv.ParseFloat(cmd.Height, 64)
	if err != nil {
		return fmt.Sprintf("%q isn't a number I can use for height.", cmd.Height), false
	}
	if w < MinSetWidth {
		return fmt.Sprintf("Width must be at least %s (got %q).", fmtNum(MinSetWidth), cmd.Width), false
	}
	if h < MinSetHeight {
		return fmt.Sprintf("Height must be at least %s (got %q).", fmtNum(MinSetHeight), cmd.Height), false
	}

	if err := e.canvas.ResizeNode(n.ID, w, h); err != nil {
		return fmt.Sprintf("Couldn't resize %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Resized %q to %s by %s.", n.Label, fmtNum(w), fmtNum(h)), true
}

func (e *Engine) execResizeRelative(cmd Command) (string, bool) {
	n := e.find(cmd.Name)
	if n == nil {
		return cannotFind(cmd.Name)
	}

	w, h := n.Width, n.Height
	switch cmd.Adjective {
	case "wider":
		w += resizeDeltaW
	case "narrower":
		w -= resizeDeltaW
	case "taller":
		h += resizeDeltaH
	case "shorter":
		h -= resizeDeltaH
	case "bigger", "larger":
		w += resizeDeltaW
		h += resizeDeltaH
	case "smaller":
		w -= resizeDeltaW
		h -= resizeDeltaH
	}
	// This path clamps instead of rejecting: "make it smaller" should always
	// do something sensible.
	if w < MinRelativeWidth {
		w = MinRelativeWidth
	}
	if h < MinRelativeHeight {
		h = MinRelativeHeight
	}

	if err := e.canvas.ResizeNode(n.ID, w, h); err != nil {
		return fmt.Sprintf("Couldn't resize %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Made %q %s (now %s by %s).", n.Label, cmd.Adjective, fmtNum(w), fmtNum(h)), true
}

// =============================================================================
// TABLES
// =============================================================================

// findTable resolves a spoken name to a table node or returns a failure
// message.
func (e *Engine) findTable(name string) (*diagram.Node, string, bool) {
	n := e.find(name)
	if n == nil {
		msg, _ := cannotFind(name)
		return nil, msg, false
	}
	if n.Kind != diagram.KindTable || n.Table == nil {
		return nil, fmt.Sprintf("%q isn't a table.", n.Label), false
	}
	return n, "", true
}

func (e *Engine) execTableAddRow(cmd Command) (string, bool) {
	n, msg, ok := e.findTable(cmd.Name)
	if !ok {
		return msg, false
	}
	if _, err := e.canvas.AddTableRow(n.ID); err != nil {
		return fmt.Sprintf("Couldn't add a row to %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Added a row to %q (now %d rows).", n.Label, len(n.Table.Rows)), true
}

func (e *Engine) execTableAddColumn(cmd Command) (string, bool) {
	n, msg, ok := e.findTable(cmd.Name)
	if !ok {
		return msg, false
	}
	label := titleCaser.String(cmd.Value)
	if _, err := e.canvas.AddTableColumn(n.ID, label); err != nil {
		return fmt.Sprintf("Couldn't add a column to %q: %v.", n.Label, err), false
	}
	return fmt.Sprintf("Added column %q to %q.", label, n.Label), true
}

func (e *Engine) execTableSetCell(cmd Command) (string, bool) {
	n, msg, ok := e.findTable(cmd.Name)
	if !ok {
		return msg, false
	}

	row, err := strconv.Atoi(cmd.Row)
	if err != nil || row < 1 {
		return fmt.Sprintf("%q isn't a row number.", cmd.Row), false
	}
	col, err := strconv.Atoi(cmd.Col)
	if err != nil || col < 1 {
		return fmt.Sprintf("%q isn't a column number.", cmd.Col), false
	}
	if row > len(n.Table.Rows) {
		return fmt.Sprintf("%q only has %d rows.", n.Label, len(n.Table.Rows)), false
	}
	if col > len(n.Table.Columns) {
		return fmt.Sprintf("%q only has %d columns.", n.Label, len(n.Table.Columns)), false
	}

	rowID := n.Table.Rows[row-1].ID
	colID := n.Table.Columns[col-1].ID
	if err := e.canvas.UpdateTableCell(n.ID, rowID, colID, cmd.Value); err != nil {
		return fmt.Sprintf("Couldn't update the cell: %v.", err), false
	}
	return fmt.Sprintf("Set row %d, column %d of %q to %q.", row, col, n.Label, cmd.Value), true
}

func (e *Engine) execTableFillColumn(cmd Command) (string, bool) {
	n, msg, ok := e.findTable(cmd.Name)
	if !ok {
		return msg, false
	}

	col := findColumn(n.Table, cmd.Col)
	if col == nil {
		return fmt.Sprintf("%q has no column matching %q.", n.Label, cmd.Col), false
	}

	// Fill the first row whose cell for this column is empty or whitespace.
	for i := range n.Table.Rows {
		if strings.TrimSpace(n.Table.Rows[i].Cells[col.ID]) != "" {
			continue
		}
		if err := e.canvas.UpdateTableCell(n.ID, n.Table.Rows[i].ID, col.ID, cmd.Value); err != nil {
			return fmt.Sprintf("Couldn't update the cell: %v.", err), false
		}
		return fmt.Sprintf("Put %q in row %d of %q (%s).", cmd.Value, i+1, n.Label, col.Label), true
	}
	return fmt.Sprintf("Every row of %q already has a %s value.", n.Label, col.Label), false
}

// findColumn matches a spoken column name with the same exact → prefix →
// substring escalation used for nodes.
func findColumn(td *diagram.TableData, name string) *diagram.Column {
	name = strings.ToLower(strings.TrimSpace(name))
	for tier := 0; tier < 3; tier++ {
		for i := range td.Columns {
			label := strings.ToLower(td.Columns[i].Label)
			switch tier {
			case 0:
				if label == name {
					return &td.Columns[i]
				}
			case 1:
				if strings.HasPrefix(label, name) {
					return &td.Columns[i]
				}
			case 2:
				if strings.Contains(label, name) {
					return &td.Columns[i]
				}
			}
		}
	}
	return nil
}

// =============================================================================
// LIST / HELP
// =============================================================================

func (e *Engine) execList() (string, bool) {
	nodes := e.canvas.Nodes()
	if len(nodes) == 0 {
		return "The canvas is empty. Try \"add a box called Start\".", true
	}

	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprintf("%s (%s)", n.Label, n.Kind)
	}
	msg := fmt.Sprintf("%d shapes: %s.", len(nodes), strings.Join(parts, ", "))
	if conns := e.canvas.Connectors(); len(conns) > 0 {
		msg += fmt.Sprintf(" %d connectors.", len(conns))
	}
	return msg, true
}

const helpText = `You can say things like:
  "add a table called Orders" / "add a box called Start right of Orders"
  "connect Start to Orders with label places" / "label Start to Orders as places"
  "move Orders below Start" / "nudge Start left 30"
  "rename Start to Begin" / "delete Begin" / "duplicate Orders"
  "set Orders color to blue" / "make Orders bold" / "set Orders opacity to 0.5"
  "resize Orders to 300 by 200" / "make Orders wider"
  "add row to Orders" / "add column Price to Orders"
  "set Orders row 1 column 2 to 9.99" / "fill Orders price with 4.50"
  "select Orders" / "select all" / "deselect"
  "undo" / "redo" / "list" / "clear canvas"`

// fmtNum renders a float without a trailing ".0" for whole values.
func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
