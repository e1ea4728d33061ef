package viz

import (
	"math"

	"github.com/san-kum/morph/internal/vec"
)

// Camera projects world space onto the canvas. Rotation is in degrees and
// applied X, then Y, then Z, the same order particles use.
type Camera struct {
	Rotation vec.Vec3
	Distance float64
	Extent   float64 // world half-width that fills the shorter screen side
	Near     float64
	Zoom     float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 400, Extent: 130, Near: 1, Zoom: 1.0}
}

const cameraStep = 5.0

func (c *Camera) RotateX(deg float64) { c.Rotation.X = math.Mod(c.Rotation.X+deg, 360) }
func (c *Camera) RotateY(deg float64) { c.Rotation.Y = math.Mod(c.Rotation.Y+deg, 360) }
func (c *Camera) RotateZ(deg float64) { c.Rotation.Z = math.Mod(c.Rotation.Z+deg, 360) }
func (c *Camera) ZoomIn()             { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()            { c.Zoom = math.Max(0.1, c.Zoom/1.2) }
func (c *Camera) Reset()              { c.Rotation, c.Zoom = vec.Vec3{}, 1.0 }

// Project converts world coordinates to dot coordinates on a sw x sh
// surface. It returns x, y, depth and whether the dot lands on screen.
func (c *Camera) Project(p vec.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := p
	rot.Rotate(c.Rotation)
	rot = rot.Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / (2 * c.Extent)
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// RenderPoints plots every point and returns how many landed on screen.
func RenderPoints(c *Canvas, pts []vec.Vec3, cam *Camera) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.Dots()
	visible := 0
	for _, p := range pts {
		x, y, _, ok := cam.Project(p, sw, sh)
		if ok {
			c.Set(x, y)
			visible++
		}
	}
	return visible
}

// RenderAxes draws the world axes from the origin out to length.
func RenderAxes(c *Canvas, cam *Camera, length float64) {
	sw, sh := c.Dots()
	ox, oy, _, _ := cam.Project(vec.Vec3{}, sw, sh)
	for _, end := range []vec.Vec3{{X: length}, {Y: length}, {Z: length}} {
		x, y, _, ok := cam.Project(end, sw, sh)
		if ok {
			c.DrawLine(ox, oy, x, y)
		}
	}
}
