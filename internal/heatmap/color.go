package heatmap

import "image/color"

// Gradient stops, low to high intensity: deep purple, blue, teal,
// bright yellow. The hue order is fixed; exact values are tuning.
var gradientStops = [4]struct {
	t       float64
	r, g, b uint8
}{
	{0.00, 46, 16, 101},
	{0.33, 37, 99, 235},
	{0.66, 45, 212, 191},
	{1.00, 250, 204, 21},
}

// Opacity ramp. Low-intensity cells stay visible (sparse regions should
// not disappear) while opacity grows strictly with intensity.
const (
	minOpacity = 0.25
	maxOpacity = 0.95
)

// Intensity normalizes a cell volume against the frame maximum,
// clamped to [0,1]. A zero maximum maps everything to zero.
func Intensity(volume, maxVolume float64) float64 {
	if maxVolume <= 0 {
		return 0
	}
	t := volume / maxVolume
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// MapColor converts a normalized intensity to the overlay fill color.
// Pure and deterministic: equal t always yields an equal color.
func MapColor(t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	// Locate the enclosing stop pair and interpolate linearly.
	hi := 1
	for hi < len(gradientStops)-1 && gradientStops[hi].t < t {
		hi++
	}
	lo := hi - 1

	span := gradientStops[hi].t - gradientStops[lo].t
	f := 0.0
	if span > 0 {
		f = (t - gradientStops[lo].t) / span
	}

	a := minOpacity + (maxOpacity-minOpacity)*t
	return color.NRGBA{
		R: lerp8(gradientStops[lo].r, gradientStops[hi].r, f),
		G: lerp8(gradientStops[lo].g, gradientStops[hi].g, f),
		B: lerp8(gradientStops[lo].b, gradientStops[hi].b, f),
		A: uint8(a*255 + 0.5),
	}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}
