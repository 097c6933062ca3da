package qprogress

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	plainFill = "█"
	blank     = " "

	// fluctuationChance is how often an empty cell shows vacuum noise.
	fluctuationChance = 0.1
	// glitchChance is how often the displayed percentage drifts from the truth.
	glitchChance = 0.2
	glitchSpread = 5
)

var (
	quantumGlyphs     = []string{"▓", "▒", "░", "█", "▓", "▄", "▌"}
	fluctuationGlyphs = []string{"░", " ", " ", " ", " "}
	filledColor       = lipgloss.Color("63")
	fluctuationColor  = lipgloss.Color("240")
)

/*
Render observes the state, then draws it as a bar of the given width on the
current terminal line, overwriting whatever was there. It returns the true
percentage of the counter after the observation, which is not necessarily
the percentage that was displayed.

A width of zero or less falls back to DefaultWidth.
*/
func (qs *QuantumState) Render(width int, quantumStyle bool) int {
	if width <= 0 {
		width = DefaultWidth
	}

	qs.mu.Lock()
	qs.collapse()

	truePercent := 100 * qs.counter / qs.total
	filled := width * qs.counter / qs.total
	frame := buildBar(qs.rng, width, filled, quantumStyle)

	displayed, glitched := displayPercent(qs.rng, truePercent)
	qs.painter.draw(frame, displayed)
	qs.mu.Unlock()

	qs.metrics.recordRender(frame.fluctuations, glitched)

	return truePercent
}

// bar is one frame of the progress bar, split into its filled and empty parts.
type bar struct {
	filled       string
	empty        string
	fluctuations int
}

func (b bar) String() string {
	return b.filled + b.empty
}

/*
buildBar lays out width cells of which the first filled are drawn. Quantum
style picks every filled cell at random from the shading glyphs and lets empty
cells flicker now and then; plain style is a solid run.
*/
func buildBar(r *rand.Rand, width, filled int, quantumStyle bool) bar {
	filled = clamp(filled, 0, width)

	if !quantumStyle {
		return bar{
			filled: strings.Repeat(plainFill, filled),
			empty:  strings.Repeat(blank, width-filled),
		}
	}

	var b bar
	var filledPart, emptyPart strings.Builder

	for i := 0; i < width; i++ {
		if i < filled {
			filledPart.WriteString(quantumGlyphs[r.IntN(len(quantumGlyphs))])
			continue
		}

		if r.Float64() < fluctuationChance {
			glyph := fluctuationGlyphs[r.IntN(len(fluctuationGlyphs))]
			if glyph != blank {
				b.fluctuations++
			}
			emptyPart.WriteString(glyph)
			continue
		}

		emptyPart.WriteString(blank)
	}

	b.filled = filledPart.String()
	b.empty = emptyPart.String()
	return b
}

// displayPercent occasionally nudges the percentage shown to the user.
func displayPercent(r *rand.Rand, truePercent int) (int, bool) {
	if r.Float64() >= glitchChance {
		return truePercent, false
	}

	noise := r.IntN(2*glitchSpread+1) - glitchSpread
	return clamp(truePercent+noise, 0, 100), true
}

/*
painter writes frames to a terminal line. It remembers how wide the previous
frame was so a shorter frame fully covers it.
*/
type painter struct {
	out         io.Writer
	color       bool
	label       string
	filled      lipgloss.Style
	fluctuation lipgloss.Style
	lastWidth   int
}

func newPainter(out io.Writer, color bool, label string) *painter {
	renderer := lipgloss.NewRenderer(out)

	return &painter{
		out:         out,
		color:       color,
		label:       label,
		filled:      renderer.NewStyle().Foreground(filledColor),
		fluctuation: renderer.NewStyle().Foreground(fluctuationColor).Faint(true),
	}
}

func (p *painter) draw(b bar, percent int) {
	filled, empty := b.filled, b.empty
	if p.color {
		filled = p.filled.Render(filled)
		empty = p.fluctuation.Render(empty)
	}

	prefix := ""
	if p.label != "" {
		prefix = p.label + " "
	}

	line := fmt.Sprintf("%s[%s%s] %d%% ", prefix, filled, empty, percent)
	width := runewidth.StringWidth(fmt.Sprintf("%s[%s] %d%% ", prefix, b.String(), percent))

	if pad := p.lastWidth - width; pad > 0 {
		line += strings.Repeat(blank, pad)
	}
	p.lastWidth = max(p.lastWidth, width)

	fmt.Fprint(p.out, "\r"+line)
}

// Clear blanks the line the painter has been drawing on.
func (p *painter) clear() {
	if p.lastWidth == 0 {
		return
	}
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(blank, p.lastWidth))
}

// Clear blanks the terminal line the state has been drawn on.
func (qs *QuantumState) Clear() {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.painter.clear()
}
