package world

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
)

// Deterministic integer hashing and value noise. Everything here is a pure function of
// its inputs so that a region regenerates identically under the same world seed.

func fade(t float64) float64 {
	// 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, y int64, seed int64) uint64 {
	// SplitMix64 finaliser
	v := uint64(x) + (uint64(y) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// latticeValue maps a lattice point to [0,1].
func latticeValue(x int64, y int64, seed int64) float64 {
	h := hash2(x, y, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D smoothly interpolates lattice values; the result is in [0,1].
func valueNoise2D(x float64, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)

	fx := fade(x - x0)
	fy := fade(y - y0)

	v00 := latticeValue(int64(x0), int64(y0), seed)
	v10 := latticeValue(int64(x0)+1, int64(y0), seed)
	v01 := latticeValue(int64(x0), int64(y0)+1, seed)
	v11 := latticeValue(int64(x0)+1, int64(y0)+1, seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fy) // [0,1]
}

// octaveNoise2D sums octaves of value noise, each at lacunarity times the frequency and
// persistence times the amplitude of the last, normalised back into [0,1].
func octaveNoise2D(x float64, y float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		v := valueNoise2D(x*frequency, y*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm // [0,1]
}

// chunkRNG returns the generator for one region. Salt separates independent streams
// drawn for the same region.
func chunkRNG(seed int64, r Region, salt uint64) *rand.Rand {
	h := hash2(int64(r.X), int64(r.Y), seed)
	return rand.New(rand.NewPCG(h, h^salt^0xD1B54A32D192ED03))
}

// gradientField wraps Perlin noise sampled at world coordinates, remapped to [0,1].
type gradientField struct {
	p     *perlin.Perlin
	scale float64
}

func newGradientField(seed int64, scale float64) *gradientField {
	return &gradientField{p: perlin.NewPerlin(2, 2, 3, seed), scale: scale}
}

func (f *gradientField) at(x, y int) float64 {
	v := f.p.Noise2D(float64(x)*f.scale, float64(y)*f.scale)
	return clamp01((v + 1) / 2)
}

// offset returns a signed displacement along a line, in [-1,1].
func (f *gradientField) offset(t int) float64 {
	return math.Max(-1, math.Min(1, f.p.Noise1D(float64(t)*f.scale)*2))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
