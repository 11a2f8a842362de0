package app

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/dispatch"
	"github.com/ftl/scansim/core/gain"
	"github.com/ftl/scansim/core/noise"
	"github.com/ftl/scansim/core/scan"
	"github.com/ftl/scansim/core/waveform"
)

// New returns a new controller for the given configuration.
func New(configuration core.Configuration) *Controller {
	configuration = configuration.Normalized()
	return newController(configuration, NewTicker, noise.New(configuration.Seed))
}

func newController(configuration core.Configuration, newTicker TickerFactory, source noise.Source) *Controller {
	result := &Controller{
		configuration: configuration,
		gain:          gain.New(configuration.InitialGain),
		dispatcher:    dispatch.New(configuration.SampleBuffer, configuration.FrameBuffer, configuration.LogBuffer),
		done:          make(chan struct{}),
		subProcesses:  new(sync.WaitGroup),
	}
	result.loop = newMainLoop(
		configuration.TickPeriod,
		newTicker,
		waveform.New(result.gain, source, configuration.PhaseWrap),
		scan.New(core.FrameWidth, core.FrameHeight, source),
		result.dispatcher,
	)
	return result
}

// Controller is the control and event surface of the generator. All methods are safe for
// concurrent use.
type Controller struct {
	configuration core.Configuration
	gain          *gain.Controller
	dispatcher    *dispatch.Dispatcher
	loop          *mainLoop

	sessionLock  sync.Mutex
	started      atomic.Bool
	done         chan struct{}
	subProcesses *sync.WaitGroup

	connected atomic.Bool
}

// Startup the session: the main loop goroutine starts and waits for commands. The generator
// itself is idle until Start is called.
func (c *Controller) Startup() {
	c.sessionLock.Lock()
	defer c.sessionLock.Unlock()
	if c.started.Load() {
		return
	}
	c.started.Store(true)

	c.subProcesses.Add(1)
	go func() {
		defer c.subProcesses.Done()
		c.loop.Run(c.done)
	}()
}

// Shutdown the session: the generator is stopped, the main loop goroutine is joined and the
// event channels are closed.
func (c *Controller) Shutdown() {
	c.sessionLock.Lock()
	defer c.sessionLock.Unlock()
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.subProcesses.Wait()
	c.dispatcher.Close()
}

// Start generating data. Phase, scan row and image are reset. If the generator is already
// running, Start does nothing.
func (c *Controller) Start() {
	if !c.sync(c.loop.start) {
		log.Print("cannot start, main loop is not running")
	}
}

// Stop generating data. When Stop returns, no further samples or frames are published. If
// the generator is idle, Stop does nothing.
func (c *Controller) Stop() {
	if !c.sync(c.loop.stop) {
		log.Print("cannot stop, main loop is not running")
	}
}

// Running indicates if the generator is currently producing data.
func (c *Controller) Running() bool {
	var result bool
	c.sync(func() {
		result = c.loop.running
	})
	return result
}

// Overruns is the number of ticks that took longer than the tick period.
func (c *Controller) Overruns() uint64 {
	var result uint64
	c.sync(func() {
		result = c.loop.overruns
	})
	return result
}

// sync executes the command on the main loop goroutine. It returns false if the session is
// not running.
func (c *Controller) sync(cmd command) bool {
	if !c.started.Load() {
		return false
	}
	return c.loop.sync(cmd, c.done)
}

// SetGain sets the gain factor. It can be called at any time. Invalid factors are rejected
// and the previous factor is retained.
func (c *Controller) SetGain(factor float64) error {
	err := c.gain.Set(factor)
	if err != nil {
		log.Print("SetGain failed: ", err)
	}
	return err
}

// SetGainSlider sets the gain from a slider position in [0,100], 50 meaning 1.0x.
func (c *Controller) SetGainSlider(position int) error {
	return c.SetGain(gain.FromSlider(position))
}

// Gain returns the current gain factor.
func (c *Controller) Gain() float64 {
	return c.gain.Value()
}

// Connect to the simulated device. Outside of a session Connect does nothing.
func (c *Controller) Connect() {
	if c.connected.Load() {
		return
	}
	ok := c.sync(func() {
		if c.connected.CompareAndSwap(false, true) {
			c.loop.out.PublishLog(core.LogConnected)
		}
	})
	if !ok {
		log.Print("cannot connect, main loop is not running")
	}
}

// Connected indicates if the simulated device is connected.
func (c *Controller) Connected() bool {
	return c.connected.Load()
}

// Samples channel of the event surface.
func (c *Controller) Samples() <-chan core.Sample {
	return c.dispatcher.Samples()
}

// Frames channel of the event surface.
func (c *Controller) Frames() <-chan core.Frame {
	return c.dispatcher.Frames()
}

// Logs channel of the event surface.
func (c *Controller) Logs() <-chan string {
	return c.dispatcher.Logs()
}

// Serve delivers all events to the given handler on the calling goroutine until stop is
// closed or the controller is shut down.
func (c *Controller) Serve(stop <-chan struct{}, handler dispatch.Handler) {
	c.dispatcher.Serve(stop, handler)
}

// Stats of the event queues.
func (c *Controller) Stats() dispatch.Stats {
	return c.dispatcher.Stats()
}

// Configuration used by this controller.
func (c *Controller) Configuration() core.Configuration {
	return c.configuration
}
