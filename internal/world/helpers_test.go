package world

import (
	"testing"

	"mini-realm/pkg/template"
)

func boolp(b bool) *bool { return &b }

// testLibrary builds a small village asset set in memory.
func testLibrary(t testing.TB) *template.Library {
	t.Helper()
	l, err := template.NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	t.Cleanup(l.Close)

	icons := []template.IconSpec{
		{Name: "grass", Glyph: "\"", Fg: "forestgreen"},
		{Name: "dirt", Glyph: ".", Fg: "peru"},
		{Name: "road", Glyph: "=", Fg: "tan"},
		{Name: "tree", Glyph: "T", Fg: "darkgreen", Walkable: boolp(false), Transparent: boolp(false)},
		{Name: "wall", Glyph: "#", Fg: "lightgray", Walkable: boolp(false), Transparent: boolp(false), Connect: "wall"},
		{Name: "hedge", Glyph: "%", Fg: "olivedrab", Walkable: boolp(false), Connect: "hedge", Glyphs: &template.ConnectGlyphs{
			Horizontal: "~", Vertical: "!",
			NE: "L", NW: "J", SE: "r", SW: "7",
			NoNorth: "n", NoEast: "e", NoSouth: "s", NoWest: "w",
			Cross: "x",
		}},
		{Name: "door", Glyph: "+", Fg: "saddlebrown"},
		{Name: "floor", Glyph: "_", Fg: "tan"},
		{Name: "table", Glyph: "π", Fg: "sienna", Walkable: boolp(false)},
	}
	for _, ic := range icons {
		if err := l.AddIcon(ic); err != nil {
			t.Fatal(err)
		}
	}

	floorPattern := template.Pattern{
		Edge: "f",
		Tiles: []template.PatternTile{
			{Icon: "floor", Weight: 8, Sockets: [4]string{"f", "f", "f", "f"}},
			{Icon: "table", Weight: 1, Sockets: [4]string{"f", "f", "f", "f"}},
		},
	}
	structures := []template.Structure{
		{
			Name: "house", MinWidth: 7, MaxWidth: 12, MinHeight: 6, MaxHeight: 9,
			Perimeter: 1, Wall: "wall", Door: "door",
			Interiors: []string{"room", "closet"},
			Pattern:   floorPattern,
		},
		{
			Name: "room", MinWidth: 4, MaxWidth: 5, MinHeight: 4, MaxHeight: 5,
			Perimeter: 1, Wall: "wall", Door: "door",
			Pattern: floorPattern,
		},
		{
			Name: "closet", MinWidth: 3, MaxWidth: 3, MinHeight: 3, MaxHeight: 3,
			Perimeter: 1, Wall: "wall",
			Pattern: template.Pattern{Tiles: floorPattern.Tiles[:1]},
		},
		{
			Name: "tower", MinWidth: 100, MaxWidth: 100, MinHeight: 100, MaxHeight: 100,
			Perimeter: 2, Wall: "wall",
		},
		{
			Name: "yard", MinWidth: 6, MaxWidth: 6, MinHeight: 6, MaxHeight: 6,
			Perimeter: 1, Wall: "hedge",
			Interiors: []string{"pebble"},
			Pattern:   template.Pattern{Tiles: floorPattern.Tiles[:1]},
		},
		{
			// Fits any free cell, so every interior pass places one.
			Name: "pebble", MinWidth: 1, MaxWidth: 1, MinHeight: 1, MaxHeight: 1,
		},
		{
			// No tile exposes socket "x", so the interior can never be solved.
			Name: "cursed", MinWidth: 5, MaxWidth: 5, MinHeight: 5, MaxHeight: 5,
			Perimeter: 1, Wall: "wall",
			Pattern: template.Pattern{Edge: "x", Tiles: floorPattern.Tiles},
		},
	}
	for _, s := range structures {
		if err := l.AddStructure(s); err != nil {
			t.Fatal(err)
		}
	}

	ground := []template.Weighted{{Icon: "grass", Weight: 4}, {Icon: "dirt", Weight: 1}}
	geographies := []template.Geography{
		{
			Name:              "village",
			GroundCover:       ground,
			Scatter:           []template.Weighted{{Icon: "tree", Weight: 0.05}},
			Roads:             &template.Roads{Icon: "road", Frequency: 0.5, Width: 1, Meander: 0.5},
			Structures:        []string{"house"},
			PopulationDensity: 0.4,
		},
		{
			Name:        "crossroads",
			GroundCover: ground,
			Roads:       &template.Roads{Icon: "road", Frequency: 1, Width: 1, Meander: 0.8},
		},
		{
			Name:              "wasteland",
			GroundCover:       ground,
			Structures:        []string{"tower"},
			PopulationDensity: 1,
		},
		{
			Name:              "gardens",
			GroundCover:       ground,
			Structures:        []string{"yard"},
			PopulationDensity: 0.1,
		},
		{
			Name:              "haunted",
			GroundCover:       ground,
			Structures:        []string{"cursed"},
			PopulationDensity: 0.3,
		},
	}
	for _, g := range geographies {
		if err := l.AddGeography(g); err != nil {
			t.Fatal(err)
		}
	}
	return l
}
