package sortable

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const scaleFPS = 60

// scaleAnim springs the dragged row's scale toward its target.
type scaleAnim struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	// row is the position the scale is drawn at; it outlives the drag so the row can
	// settle back to 1 after release.
	row     int
	running bool
}

func newScaleAnim() scaleAnim {
	return scaleAnim{
		spring: harmonica.NewSpring(harmonica.FPS(scaleFPS), 8.0, 0.8),
		pos:    1,
		target: 1,
		row:    NoPosition,
	}
}

// retarget starts animating toward target. It reports whether a frame loop must start.
func (a *scaleAnim) retarget(row int, target float64) bool {
	if row != NoPosition {
		a.row = row
	}
	a.target = target
	if a.running || a.settled() {
		return false
	}
	a.running = true
	return true
}

// step advances one frame and reports whether more frames are needed.
func (a *scaleAnim) step() bool {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	if a.settled() {
		a.pos, a.vel = a.target, 0
		a.running = false
		if a.target == 1 {
			a.row = NoPosition
		}
		return false
	}
	return true
}

func (a scaleAnim) settled() bool {
	return math.Abs(a.pos-a.target) < 0.001 && math.Abs(a.vel) < 0.001
}

func scaleFrameDelay() time.Duration { return time.Second / scaleFPS }

// gutterFor is the number of columns left free on each side of a row so a row scaled by
// factor still fits into width.
func gutterFor(width int, factor float64) int {
	if factor <= 1 || width <= 0 {
		return 0
	}
	g := int(math.Ceil(float64(width) * (factor - 1) / 2))
	if g*2 >= width {
		return 0
	}
	return g
}

// scaledGutter is the gutter a row drawn at scale s uses, given the resting gutter g.
func scaledGutter(g int, s, factor float64) int {
	if g == 0 || factor <= 1 {
		return g
	}
	progress := (s - 1) / (factor - 1)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return g - int(math.Round(float64(g)*progress))
}

// fade blends fg toward bg so text reads at the given opacity. ok is false when either
// color is not a hex color; callers then fall back to faint text.
func fade(fg, bg lipgloss.Color, opacity float64) (lipgloss.Color, bool) {
	f, err := colorful.Hex(string(fg))
	if err != nil {
		return fg, false
	}
	b, err := colorful.Hex(string(bg))
	if err != nil {
		return fg, false
	}
	return lipgloss.Color(b.BlendRgb(f, opacity).Clamped().Hex()), true
}
