// Package console is a headless presentation of the generator's events: log messages, a
// sparkline of the waveform and a character preview of the scan image.
package console

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/term"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/scope"
)

const (
	defaultColumns = 80
	previewRows    = 16

	// amplitude range of the waveform axis
	axisMin = -2.0
	axisMax = 2.0
)

var (
	sparks = []rune("▁▂▃▄▅▆▇█")
	shades = []rune(" .:-=+*#%@")
)

// New returns a new view writing to the given file. The view redraws at most once per
// redrawInterval.
func New(out *os.File, history *scope.History, redrawInterval time.Duration) *View {
	result := &View{
		out:            out,
		history:        history,
		redrawInterval: redrawInterval,
		columns:        defaultColumns,
	}
	fd := int(out.Fd())
	if term.IsTerminal(fd) {
		result.terminal = true
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			result.columns = width
		}
	}
	return result
}

// View of the generator's events. All methods must be called from the same goroutine.
type View struct {
	out            io.Writer
	history        *scope.History
	frame          core.Frame
	terminal       bool
	columns        int
	lastRedraw     time.Time
	redrawInterval time.Duration
	preview        bool
}

// ShowPreview enables the character preview of the scan image.
func (v *View) ShowPreview(preview bool) {
	v.preview = preview
}

// OnSample adds the sample to the waveform history.
func (v *View) OnSample(sample core.Sample) {
	v.history.Put(sample)
	v.redraw(false)
}

// OnFrame keeps the frame for the next redraw.
func (v *View) OnFrame(frame core.Frame) {
	v.frame = frame
	v.redraw(false)
}

// OnLog prints the log message.
func (v *View) OnLog(message string) {
	fmt.Fprintf(v.out, "Log: %s\n", message)
	v.redraw(true)
}

func (v *View) redraw(force bool) {
	now := time.Now()
	if !force && now.Sub(v.lastRedraw) < v.redrawInterval {
		return
	}
	v.lastRedraw = now
	fmt.Fprint(v.out, v.Render())
}

// Render the current state.
func (v *View) Render() string {
	var b strings.Builder
	if v.terminal {
		b.WriteString("\x1b[H\x1b[2J")
	}

	points := v.history.Points()
	if len(points) > 0 {
		latest := points[len(points)-1]
		fmt.Fprintf(&b, "t=%.2fs value=%+.3f mean=%+.3f peak=%.3f f=%.2fHz\n",
			latest.T, latest.Value, v.history.Mean(), v.history.Peak(), v.history.Spectrum().PeakFrequency())
	}
	b.WriteString(Sparkline(v.history.Values(), v.columns, axisMin, axisMax))
	b.WriteString("\n")

	if len(v.frame.Pix) > 0 {
		fmt.Fprintf(&b, "%v mean=%.1f\n", v.frame, v.frame.Mean())
		if v.preview {
			for _, line := range Preview(v.frame, v.columns, previewRows) {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Sparkline renders the last width values, scaled from [min,max] to block characters.
func Sparkline(values []float64, width int, min, max float64) string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	result := make([]rune, len(values))
	for i, value := range values {
		ratio := (value - min) / (max - min)
		index := int(ratio * float64(len(sparks)))
		if index < 0 {
			index = 0
		}
		if index >= len(sparks) {
			index = len(sparks) - 1
		}
		result[i] = sparks[index]
	}
	return string(result)
}

// Preview scales the frame down to the given number of columns and rows and renders each
// pixel as a shade character.
func Preview(frame core.Frame, columns, rows int) []string {
	if columns < 1 || rows < 1 || len(frame.Pix) == 0 {
		return nil
	}
	scaled := image.NewGray(image.Rect(0, 0, columns, rows))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame.Image(), image.Rect(0, 0, frame.Width, frame.Height), xdraw.Src, nil)

	result := make([]string, rows)
	line := make([]rune, columns)
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			intensity := int(scaled.GrayAt(x, y).Y)
			line[x] = shades[intensity*len(shades)/256]
		}
		result[y] = string(line)
	}
	return result
}
