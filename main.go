package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	coreapp "github.com/ftl/scansim/core/app"
	"github.com/ftl/scansim/core/cfg"
	"github.com/ftl/scansim/core/scope"
	"github.com/ftl/scansim/ui/console"
)

var (
	gainSlider = flag.Int("gain", -1, "gain slider position 0..100, 50 = 1.0x (default from configuration)")
	duration   = flag.Duration("duration", 0, "stop after the given duration (0 = run until interrupted)")
	preview    = flag.Bool("preview", false, "show a preview of the scan image")
	redraw     = flag.Duration("redraw", 200*time.Millisecond, "minimum interval between redraws")
)

func main() {
	flag.Parse()

	configuration, err := cfg.Load()
	if err != nil {
		log.Println(err)
		configuration = cfg.Static()
	}

	controller := coreapp.New(configuration)
	if *gainSlider >= 0 {
		controller.SetGainSlider(*gainSlider)
	}

	view := console.New(os.Stdout, scope.NewHistory(configuration.HistorySize, configuration.TickPeriod), *redraw)
	view.ShowPreview(*preview)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	controller.Startup()
	controller.Connect()
	controller.Start()

	var overruns uint64
	var group errgroup.Group
	group.Go(func() error {
		// returns when the event channels are closed by Shutdown
		controller.Serve(nil, view)
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		controller.Stop()
		overruns = controller.Overruns()
		controller.Shutdown()
		return ctx.Err()
	})
	if err := group.Wait(); err != nil {
		log.Print("scan ended: ", err)
	}

	stats := controller.Stats()
	log.Printf("samples: %d published, %d dropped; frames: %d published, %d dropped; overruns: %d",
		stats.Samples.Published, stats.Samples.Dropped, stats.Frames.Published, stats.Frames.Dropped, overruns)
}
