package app

import (
	"log"
	"time"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/scan"
	"github.com/ftl/scansim/core/waveform"
)

// Ticker delivers the ticks of the scheduler.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker with the given period.
type TickerFactory func(period time.Duration) Ticker

// NewTicker returns a Ticker based on time.Ticker. Ticks are dropped if the main loop is too
// slow to receive them, so there are never any catch-up ticks.
func NewTicker(period time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(period)}
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *timeTicker) Stop() {
	t.ticker.Stop()
}

type eventSink interface {
	PublishSample(core.Sample)
	PublishFrame(core.Frame)
	PublishLog(string)
}

func newMainLoop(period time.Duration, newTicker TickerFactory, synthesizer *waveform.Synthesizer, builder *scan.Builder, out eventSink) *mainLoop {
	return &mainLoop{
		period:      period,
		newTicker:   newTicker,
		synthesizer: synthesizer,
		builder:     builder,
		out:         out,
		command:     make(chan command, 1),
	}
}

type command func()

// mainLoop owns the scan state. All fields are only accessed from the goroutine executing Run.
type mainLoop struct {
	period    time.Duration
	newTicker TickerFactory
	ticker    Ticker
	running   bool
	overruns  uint64

	synthesizer *waveform.Synthesizer
	builder     *scan.Builder
	out         eventSink

	command chan command
}

func (m *mainLoop) Run(stop chan struct{}) {
	defer log.Print("main loop shutdown")
	for {
		select {
		case now := <-m.tick():
			m.onTick(now)
		case command := <-m.command:
			command()
		case <-stop:
			m.stop()
			return
		}
	}
}

// tick returns the tick channel, or nil while idle so that the select never fires.
func (m *mainLoop) tick() <-chan time.Time {
	if m.ticker == nil {
		return nil
	}
	return m.ticker.C()
}

func (m *mainLoop) onTick(tickTime time.Time) {
	if !m.running {
		return
	}

	sample, phase := m.synthesizer.Next()
	m.out.PublishSample(sample)

	frame, complete := m.builder.Advance(phase)
	m.out.PublishFrame(frame)
	if complete {
		m.out.PublishLog(core.LogScanComplete)
	}

	if elapsed := time.Since(tickTime); elapsed > m.period {
		m.overruns++
		log.Printf("tick overrun: %v > %v", elapsed, m.period)
	}
}

func (m *mainLoop) start() {
	if m.running {
		return
	}
	m.synthesizer.Reset()
	m.builder.Reset()
	m.out.PublishLog(core.LogScanStarted)
	m.running = true
	m.ticker = m.newTicker(m.period)
}

func (m *mainLoop) stop() {
	if !m.running {
		return
	}
	m.ticker.Stop()
	m.ticker = nil
	m.running = false
	m.out.PublishLog(core.LogScanStopped)
}

// sync executes the command on the main loop and waits until it is done. It returns false if
// the main loop is not running.
func (m *mainLoop) sync(cmd command, done <-chan struct{}) bool {
	executed := make(chan struct{})
	select {
	case m.command <- func() {
		defer close(executed)
		cmd()
	}:
	case <-done:
		return false
	}

	select {
	case <-executed:
		return true
	case <-done:
		// the main loop may have executed the command right before shutting down
		select {
		case <-executed:
			return true
		default:
			return false
		}
	}
}
