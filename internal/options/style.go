package options

import (
	"fmt"
	"strings"

	"github.com/vtmux/vtmux/internal/grid"
)

// Align selects how text is positioned within its allotted width (spec
// §4.7 style grammar "align=").
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCentre
	AlignRight
	AlignAbsoluteCentre
)

// ListMode selects how a status-line list element renders (spec §4.7
// style grammar "list=").
type ListMode int

const (
	ListOff ListMode = iota
	ListOn
	ListFocus
	ListLeftMarker
	ListRightMarker
)

// Range names the click/hover region a styled span belongs to (spec §4.7
// style grammar "range=").
type Range int

const (
	RangeNone Range = iota
	RangeLeft
	RangeRight
	RangeWindow
	RangeSession
	RangePane
	RangeUser
)

// Push/Pop/Default select whether a style token stream modifies a saved
// base style, restores it, or resets to the pane default (spec §4.7
// "default|push|pop").
type StackOp int

const (
	StackNone StackOp = iota
	StackDefault
	StackPush
	StackPop
)

// Style is the parsed cell+alignment+list-mode+range descriptor the
// style grammar builds (spec §4.7 "style parsing").
type Style struct {
	Fg, Bg, Us Colour
	Attrs      grid.Attr
	AttrsUnset grid.Attr // attributes explicitly reset by "no<attr>" tokens (not in this grammar, reserved)

	Align Align
	List  ListMode
	Fill  Colour

	Range     Range
	RangeUser string

	Op StackOp
}

var attrTokens = map[string]grid.Attr{
	"bold": grid.AttrBold, "dim": grid.AttrDim, "italics": grid.AttrItalic,
	"underscore": grid.AttrUnderline, "underscore-2": grid.AttrUnderline2,
	"underscore-3": grid.AttrUnderline3, "underscore-4": grid.AttrUnderline4,
	"underscore-5": grid.AttrUnderline5, "blink": grid.AttrBlinkSlow,
	"reverse": grid.AttrReverse, "hidden": grid.AttrHidden,
	"strikethrough": grid.AttrStrikethrough, "overline": grid.AttrOverline,
}

var alignTokens = map[string]Align{
	"default": AlignDefault, "left": AlignLeft, "centre": AlignCentre,
	"right": AlignRight, "absolute-centre": AlignAbsoluteCentre,
}

var listTokens = map[string]ListMode{
	"on": ListOn, "off": ListOff, "focus": ListFocus,
	"left-marker": ListLeftMarker, "right-marker": ListRightMarker,
}

var rangeTokens = map[string]Range{
	"left": RangeLeft, "right": RangeRight, "window": RangeWindow,
	"session": RangeSession, "pane": RangePane,
}

// ParseStyle parses a comma/space-separated style token stream (spec
// §4.7): fg=/bg=/us=<colour>, bare attribute keywords, align=, list=,
// fill=<colour>, range=..., and the bare default/push/pop tokens. Any
// unrecognized token fails the whole parse.
func ParseStyle(s string) (Style, error) {
	var st Style
	for _, tok := range splitStyleTokens(s) {
		if tok == "" {
			continue
		}
		if err := applyStyleToken(&st, tok); err != nil {
			return Style{}, err
		}
	}
	return st, nil
}

// splitStyleTokens splits on commas first, then on remaining whitespace,
// except a "range=user <name>" token is kept whole since its argument is
// the rest of the token rather than a further-split keyword (spec §4.7
// "range={... | user <str>}").
func splitStyleTokens(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "range=user ") {
			out = append(out, seg)
			continue
		}
		out = append(out, strings.Fields(seg)...)
	}
	return out
}

func applyStyleToken(st *Style, tok string) error {
	if name, val, ok := strings.Cut(tok, "="); ok {
		switch name {
		case "fg":
			c, err := ParseColour(val)
			if err != nil {
				return err
			}
			st.Fg = c
		case "bg":
			c, err := ParseColour(val)
			if err != nil {
				return err
			}
			st.Bg = c
		case "us":
			c, err := ParseColour(val)
			if err != nil {
				return err
			}
			st.Us = c
		case "fill":
			c, err := ParseColour(val)
			if err != nil {
				return err
			}
			st.Fill = c
		case "align":
			a, ok := alignTokens[val]
			if !ok {
				return fmt.Errorf("options: invalid style align %q", val)
			}
			st.Align = a
		case "list":
			l, ok := listTokens[val]
			if !ok {
				return fmt.Errorf("options: invalid style list %q", val)
			}
			st.List = l
		case "range":
			return applyRangeToken(st, val)
		default:
			return fmt.Errorf("options: unknown style token %q", tok)
		}
		return nil
	}

	switch tok {
	case "none":
		st.Attrs = 0
	case "default":
		st.Op = StackDefault
	case "push":
		st.Op = StackPush
	case "pop":
		st.Op = StackPop
	default:
		if a, ok := attrTokens[tok]; ok {
			st.Attrs |= a
			return nil
		}
		return fmt.Errorf("options: unknown style token %q", tok)
	}
	return nil
}

// applyRangeToken handles "range=user <str>" specially since it is the
// one token with an embedded space argument rather than a bare keyword.
func applyRangeToken(st *Style, val string) error {
	if rest, ok := strings.CutPrefix(val, "user "); ok {
		st.Range = RangeUser
		st.RangeUser = rest
		return nil
	}
	r, ok := rangeTokens[val]
	if !ok {
		return fmt.Errorf("options: invalid style range %q", val)
	}
	st.Range = r
	return nil
}
