package world

import (
	"math"
	"math/rand/v2"
	"testing"
)

// TestHash2Deterministic verifies hash2 produces identical results for the same inputs
func TestHash2Deterministic(t *testing.T) {
	first := hash2(10, -20, 42)
	for i := 0; i < 100; i++ {
		if h := hash2(10, -20, 42); h != first {
			t.Fatalf("hash2 not deterministic: %d vs %d", first, h)
		}
	}
}

func TestHash2Differs(t *testing.T) {
	base := hash2(10, 20, 42)
	others := map[string]uint64{
		"x":    hash2(11, 20, 42),
		"y":    hash2(10, 21, 42),
		"seed": hash2(10, 20, 43),
		"swap": hash2(20, 10, 42),
	}
	for name, h := range others {
		if h == base {
			t.Errorf("changing %s did not change the hash", name)
		}
	}
}

// TestValueNoise2DRange verifies valueNoise2D outputs are in [0,1]
func TestValueNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		if v := valueNoise2D(x, y, 42); v < 0 || v > 1 {
			t.Errorf("valueNoise2D(%f, %f) = %f, expected in [0,1]", x, y, v)
		}
	}
}

// TestValueNoise2DContinuity verifies smooth interpolation (no random jumps)
func TestValueNoise2DContinuity(t *testing.T) {
	v1 := valueNoise2D(1.0, 1.0, 42)
	v2 := valueNoise2D(1.01, 1.0, 42)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise2D not continuous: %f vs %f, diff=%f", v1, v2, diff)
	}
}

func TestValueNoise2DHitsLattice(t *testing.T) {
	if got, want := valueNoise2D(3, -4, 7), latticeValue(3, -4, 7); got != want {
		t.Errorf("valueNoise2D at lattice point = %f, want %f", got, want)
	}
}

// TestOctaveNoise2DRange verifies octaveNoise2D outputs are in [0,1]
func TestOctaveNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		if v := octaveNoise2D(x, y, 42, 4, 0.5, 2.0); v < 0 || v > 1 {
			t.Errorf("octaveNoise2D(%f, %f) = %f, expected in [0,1]", x, y, v)
		}
	}
	if v := octaveNoise2D(1, 1, 42, 0, 0.5, 2.0); v != 0 {
		t.Errorf("zero octaves = %f, want 0", v)
	}
}

func TestGradientFieldRange(t *testing.T) {
	f := newGradientField(99, 1.0/12.0)
	for y := -50; y <= 50; y += 3 {
		for x := -50; x <= 50; x += 3 {
			if v := f.at(x, y); v < 0 || v > 1 {
				t.Fatalf("at(%d,%d) = %f, expected in [0,1]", x, y, v)
			}
		}
		if o := f.offset(y); o < -1 || o > 1 {
			t.Fatalf("offset(%d) = %f, expected in [-1,1]", y, o)
		}
	}
	g := newGradientField(99, 1.0/12.0)
	if f.at(17, -5) != g.at(17, -5) {
		t.Error("gradient fields with the same seed disagree")
	}
}

func TestChunkRNG(t *testing.T) {
	draw := func(r Region, salt uint64) [4]uint64 {
		rng := chunkRNG(5, r, salt)
		var out [4]uint64
		for i := range out {
			out[i] = rng.Uint64()
		}
		return out
	}
	if draw(Region{X: 1, Y: 2}, 0) != draw(Region{X: 1, Y: 2}, 0) {
		t.Error("chunkRNG not deterministic")
	}
	if draw(Region{X: 1, Y: 2}, 0) == draw(Region{X: 2, Y: 1}, 0) {
		t.Error("neighbouring regions share a stream")
	}
	if draw(Region{X: 1, Y: 2}, 0) == draw(Region{X: 1, Y: 2}, 1) {
		t.Error("salt does not separate streams")
	}
}
