package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/morph/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	var sb strings.Builder
	if err := CanvasToSVG(&sb, c, 10, "#ffffff"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := sb.String()

	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(out, `width="40" height="40"`) {
		t.Error("unexpected svg size")
	}
	if !strings.Contains(out, `cx="5.0" cy="5.0"`) || !strings.Contains(out, `cx="35.0" cy="35.0"`) {
		t.Errorf("dots at wrong positions:\n%s", out)
	}
	if !strings.Contains(out, `fill="#ffffff"`) {
		t.Error("fill color missing")
	}
}

func TestCanvasToSVG_Nil(t *testing.T) {
	if err := CanvasToSVG(&strings.Builder{}, nil, 1, "#fff"); err == nil {
		t.Error("expected error for nil canvas")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")
	c := viz.NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	if err := WriteSVG(path, c, 2, "#00ff00"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "<circle") != 8 {
		t.Errorf("expected 8 dots in the file")
	}
}
