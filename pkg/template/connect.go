package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// Shape is the neighbourhood a connected glyph is drawn for.
type Shape int

const (
	Base Shape = iota
	Horizontal
	Vertical
	CornerNE
	CornerNW
	CornerSE
	CornerSW
	NoNorth
	NoEast
	NoSouth
	NoWest
	Cross
	shapeCount
)

// Variants holds one glyph per Shape.
type Variants [shapeCount]rune

// DefaultVariants draws connections with box-drawing characters around base.
func DefaultVariants(base rune) Variants {
	return Variants{
		Base:       base,
		Horizontal: '─',
		Vertical:   '│',
		CornerNE:   '└',
		CornerNW:   '┘',
		CornerSE:   '┌',
		CornerSW:   '┐',
		NoNorth:    '┬',
		NoEast:     '┤',
		NoSouth:    '┴',
		NoWest:     '├',
		Cross:      '┼',
	}
}

func (v *Variants) override(g *ConnectGlyphs) error {
	if g == nil {
		return nil
	}
	for shape, s := range map[Shape]string{
		Horizontal: g.Horizontal, Vertical: g.Vertical,
		CornerNE: g.NE, CornerNW: g.NW, CornerSE: g.SE, CornerSW: g.SW,
		NoNorth: g.NoNorth, NoEast: g.NoEast, NoSouth: g.NoSouth, NoWest: g.NoWest,
		Cross: g.Cross,
	} {
		if s == "" {
			continue
		}
		r, err := parseGlyph(s)
		if err != nil {
			return err
		}
		v[shape] = r
	}
	return nil
}

// ConnectTable maps glyphs to connection identities and identities to their variants.
// Every variant glyph maps back to its identity, so connecting twice changes nothing.
type ConnectTable struct {
	identity map[rune]string
	variants map[string]Variants
}

func newConnectTable() *ConnectTable {
	return &ConnectTable{
		identity: make(map[rune]string),
		variants: make(map[string]Variants),
	}
}

func (c *ConnectTable) add(ic *Icon) error {
	if ic.Connect == "" {
		return nil
	}
	if _, ok := c.variants[ic.Connect]; !ok {
		for _, r := range ic.Variants {
			if err := c.claim(r, ic); err != nil {
				return err
			}
		}
		c.variants[ic.Connect] = ic.Variants
	}
	return c.claim(ic.Glyph, ic)
}

// claim assigns glyph r to the icon's identity. A glyph belongs to one identity only.
func (c *ConnectTable) claim(r rune, ic *Icon) error {
	if owner, ok := c.identity[r]; ok && owner != ic.Connect {
		return fmt.Errorf("icon %s: glyph %q of %q already connects as %q: %w",
			ic.Name, r, ic.Connect, owner, ErrConnectConflict)
	}
	c.identity[r] = ic.Connect
	return nil
}

// Identity returns the connection identity of glyph r.
func (c *ConnectTable) Identity(r rune) (string, bool) {
	id, ok := c.identity[r]
	return id, ok
}

// Variants returns the glyph set registered for identity id.
func (c *ConnectTable) Variants(id string) (Variants, bool) {
	v, ok := c.variants[id]
	return v, ok
}

// Len returns the number of connection identities.
func (c *ConnectTable) Len() int { return len(c.variants) }

func parseGlyph(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("glyph %q must be a single character", s)
	}
	return r, nil
}

// ParseColor accepts an X11/SVG colour name or #rrggbb.
func ParseColor(s string) (mgl32.Vec3, error) {
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return mgl32.Vec3{}, fmt.Errorf("colour %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("colour %q: %w", s, err)
		}
		return mgl32.Vec3{
			float32(v>>16&0xff) / 255,
			float32(v>>8&0xff) / 255,
			float32(v&0xff) / 255,
		}, nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("unknown colour %q", s)
	}
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, nil
}
