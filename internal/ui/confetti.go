package ui

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Burst parameters, in the units of a 1000x800 virtual viewport.
const (
	confettiCount    = 75
	confettiSpread   = 80.0 // degrees
	confettiAngle    = 90.0 // straight up
	confettiVelocity = 35.0
	confettiDecay    = 0.9
	confettiGravity  = 3.0
	confettiTicks    = 200
	confettiOriginX  = 0.5
	confettiOriginY  = 0.6

	viewportW = 1000.0
	viewportH = 800.0

	confettiRows  = 8
	confettiFrame = time.Second / 60
)

var confettiGlyphs = []string{"■", "▪", "●", "◆", "▲", "*"}

type confettiFrameMsg struct{ gen int }

type particle struct {
	x, y     float64
	angle    float64 // radians, screen coordinates (y grows down)
	velocity float64
	glyph    string
	color    int
	ticks    int
}

// confettiModel animates a burst of particles on a small canvas below the
// task list.
type confettiModel struct {
	particles []particle
	rng       *rand.Rand
	colors    []lipgloss.Style
	width     int
	height    int
	gen       int
}

func newConfetti(colors []lipgloss.Style, rng *rand.Rand) confettiModel {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return confettiModel{rng: rng, colors: colors, height: confettiRows, width: 60}
}

func (c confettiModel) Active() bool { return len(c.particles) > 0 }

func (c *confettiModel) SetWidth(w int) {
	if w > 0 {
		c.width = w
	}
}

// Burst adds a new set of particles and returns the frame command. An
// animation already running keeps its frame chain; the new particles join it.
func (c *confettiModel) Burst() tea.Cmd {
	running := c.Active()
	for i := 0; i < confettiCount; i++ {
		deg := confettiAngle + (confettiSpread/2 - c.rng.Float64()*confettiSpread)
		c.particles = append(c.particles, particle{
			x:        confettiOriginX * viewportW,
			y:        confettiOriginY * viewportH,
			angle:    -deg * math.Pi / 180,
			velocity: confettiVelocity*0.5 + c.rng.Float64()*confettiVelocity,
			glyph:    confettiGlyphs[c.rng.IntN(len(confettiGlyphs))],
			color:    i % max(len(c.colors), 1),
		})
	}
	if running {
		return nil
	}
	c.gen++
	return c.frame()
}

func (c confettiModel) frame() tea.Cmd {
	gen := c.gen
	return tea.Tick(confettiFrame, func(time.Time) tea.Msg {
		return confettiFrameMsg{gen: gen}
	})
}

// Update advances the animation one frame.
func (c confettiModel) Update(msg confettiFrameMsg) (confettiModel, tea.Cmd) {
	if msg.gen != c.gen {
		return c, nil
	}
	c.step()
	if !c.Active() {
		return c, nil
	}
	return c, c.frame()
}

func (c *confettiModel) step() {
	alive := c.particles[:0]
	for _, p := range c.particles {
		p.x += math.Cos(p.angle) * p.velocity
		p.y += math.Sin(p.angle)*p.velocity + confettiGravity
		p.velocity *= confettiDecay
		p.ticks++
		if p.ticks >= confettiTicks || p.y > viewportH || p.x < 0 || p.x > viewportW {
			continue
		}
		alive = append(alive, p)
	}
	c.particles = alive
}

func (c confettiModel) View() string {
	if !c.Active() {
		return ""
	}

	type cell struct {
		glyph string
		color int
	}
	grid := make([][]*cell, c.height)
	for i := range grid {
		grid[i] = make([]*cell, c.width)
	}
	for _, p := range c.particles {
		col := int(p.x / viewportW * float64(c.width))
		row := int(p.y / viewportH * float64(c.height))
		if row < 0 || row >= c.height || col < 0 || col >= c.width {
			continue
		}
		grid[row][col] = &cell{glyph: p.glyph, color: p.color}
	}

	lines := make([]string, c.height)
	for i, row := range grid {
		var b strings.Builder
		for _, cl := range row {
			if cl == nil {
				b.WriteByte(' ')
				continue
			}
			if cl.color < len(c.colors) {
				b.WriteString(c.colors[cl.color].Render(cl.glyph))
			} else {
				b.WriteString(cl.glyph)
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
