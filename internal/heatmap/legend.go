package heatmap

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatVolume renders a USD volume as a compact magnitude string for
// the side legend, e.g. 2400000 -> "2.4M".
func FormatVolume(v float64) string {
	if v <= 0 {
		return "0"
	}
	// humanize inserts a space before the SI prefix ("2.4 M").
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}
