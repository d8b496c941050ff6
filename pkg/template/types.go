package template

import "github.com/go-gl/mathgl/mgl32"

// IconSpec is an icon as written on disk. Unset fields are inherited from Parent.
type IconSpec struct {
	Name        string         `json:"name"`
	Parent      string         `json:"parent"`
	Glyph       string         `json:"glyph"`
	Fg          string         `json:"fg"`
	Bg          string         `json:"bg"`
	Walkable    *bool          `json:"walkable"`
	Transparent *bool          `json:"transparent"`
	Short       string         `json:"short"`
	Long        string         `json:"long"`
	Connect     string         `json:"connect"`
	Glyphs      *ConnectGlyphs `json:"glyphs"`
}

// ConnectGlyphs overrides the variants drawn when an icon joins its neighbours.
// Corner names list the two connected sides.
type ConnectGlyphs struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	NE         string `json:"ne"`
	NW         string `json:"nw"`
	SE         string `json:"se"`
	SW         string `json:"sw"`
	NoNorth    string `json:"no_north"`
	NoEast     string `json:"no_east"`
	NoSouth    string `json:"no_south"`
	NoWest     string `json:"no_west"`
	Cross      string `json:"cross"`
}

// Icon is a fully resolved icon.
type Icon struct {
	Name        string
	Glyph       rune
	Fg, Bg      mgl32.Vec3
	Walkable    bool
	Transparent bool
	Short       string
	Long        string
	Connect     string
	Variants    Variants
}

// Structure describes a building or room that the structure builder can place.
type Structure struct {
	Name      string   `json:"name"`
	MinWidth  int      `json:"min_width"`
	MaxWidth  int      `json:"max_width"`
	MinHeight int      `json:"min_height"`
	MaxHeight int      `json:"max_height"`
	Perimeter int      `json:"perimeter"`
	Wall      string   `json:"wall"`
	Door      string   `json:"door"`
	Interiors []string `json:"interiors"`
	Pattern   Pattern  `json:"pattern"`
}

// Pattern is the tile table the interior solver draws from.
type Pattern struct {
	Edge  string        `json:"edge"`
	Tiles []PatternTile `json:"tiles"`
}

// PatternTile sockets are ordered north, east, south, west.
type PatternTile struct {
	Icon    string    `json:"icon"`
	Weight  float64   `json:"weight"`
	Sockets [4]string `json:"sockets"`
}

// Weighted pairs an icon with a frequency or density.
type Weighted struct {
	Icon   string  `json:"icon"`
	Weight float64 `json:"weight"`
}

// Roads configures the road layer of a geography.
type Roads struct {
	Icon      string  `json:"icon"`
	Frequency float64 `json:"frequency"`
	Width     int     `json:"width"`
	Meander   float64 `json:"meander"`
}

// Geography describes what a region is made of.
type Geography struct {
	Name              string     `json:"name"`
	GroundCover       []Weighted `json:"ground_cover"`
	Scatter           []Weighted `json:"scatter"`
	Roads             *Roads     `json:"roads"`
	Structures        []string   `json:"structures"`
	PopulationDensity float64    `json:"population_density"`
}
