// Package export writes rendered frames to files.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/morph/internal/viz"
)

// brailleDots maps braille bits to (dx, dy) dot offsets inside a cell.
var brailleDots = [8]struct {
	bit    rune
	dx, dy int
}{
	{0x01, 0, 0}, {0x02, 0, 1}, {0x04, 0, 2}, {0x40, 0, 3},
	{0x08, 1, 0}, {0x10, 1, 1}, {0x20, 1, 2}, {0x80, 1, 3},
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
// scale is the size of a dot cell in SVG units.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64, fill string) error {
	if canvas == nil {
		return fmt.Errorf("export: nil canvas")
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for _, d := range brailleDots {
				if pattern&d.bit == 0 {
					continue
				}
				cx := baseX + float64(d.dx)*scale + scale/2
				cy := baseY + float64(d.dy)*scale + scale/2
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteSVG renders canvas to an SVG file at path.
func WriteSVG(path string, canvas *viz.Canvas, scale float64, fill string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := CanvasToSVG(f, canvas, scale, fill); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
