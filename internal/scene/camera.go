package scene

import "math"

// Camera is an orthographic camera looking down -z. Cubes whose z lies
// outside [Near-Depth, Near] are outside the view volume.
type Camera struct {
	Near  float64
	Depth float64

	// Aspect is the height/width ratio of one screen unit: 2 for terminal
	// cells, 1 for pixels.
	Aspect float64
}

// DefaultCamera sees z in [-10000, 10000].
func DefaultCamera(aspect float64) Camera {
	return Camera{Near: 10000, Depth: 20000, Aspect: aspect}
}

// Visible reports whether s is inside the view volume.
func (c Camera) Visible(s CubeState) bool {
	return s.Z <= c.Near && s.Z >= c.Near-c.Depth
}

// View maps world x/y onto a screen of fixed size.
type View struct {
	Left, Top    float64
	ZoomX, ZoomY float64
}

// Project returns screen coordinates for world (x, y).
func (v View) Project(x, y float64) (float64, float64) {
	return (x - v.Left) * v.ZoomX, (v.Top - y) * v.ZoomY
}

// Rect returns the screen rectangle covered by the front face of s, rounded
// to whole units and at least one unit in each direction.
func (v View) Rect(s CubeState) (x0, y0, x1, y1 int) {
	sx, sy := v.Project(s.X, s.Y)
	ext := s.Extent()
	x0 = int(math.Round(sx))
	y0 = int(math.Round(sy))
	x1 = int(math.Round(sx + ext*v.ZoomX))
	y1 = int(math.Round(sy + ext*v.ZoomY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

// Fit centres the x/y bounds of every cube, visible or not, on a w by h
// screen. Using all cubes keeps the layout still while digits change.
func (c Camera) Fit(cubes []CubeState, w, h int) View {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	if len(cubes) == 0 || w <= 0 || h <= 0 {
		return View{ZoomX: 1, ZoomY: 1 / aspect}
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range cubes {
		ext := s.Extent()
		minX = math.Min(minX, s.X)
		maxX = math.Max(maxX, s.X+ext)
		maxY = math.Max(maxY, s.Y)
		minY = math.Min(minY, s.Y-ext)
	}

	width := math.Max(maxX-minX, 1)
	height := math.Max(maxY-minY, 1)
	zoom := math.Min(float64(w)/width, float64(h)*aspect/height)

	v := View{ZoomX: zoom, ZoomY: zoom / aspect}
	v.Left = minX - (float64(w)/v.ZoomX-width)/2
	v.Top = maxY + (float64(h)/v.ZoomY-height)/2
	return v
}
