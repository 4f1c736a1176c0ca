// Soak test harness - drives the full worker pool headless, as hard as it
// can, and reports frame-time statistics and barrier accounting at the end.
//
// Usage: go run ./cmd/soak -ticks 5000 -workers 8
package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/DDR0/stardust/emitters"
	"github.com/DDR0/stardust/engine"
	"github.com/DDR0/stardust/scene"
	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/telemetry"
	"github.com/DDR0/stardust/world"
)

func main() {
	ticks := flag.Int64("ticks", 5000, "Ticks to simulate before reporting")
	workers := flag.Int("workers", 0, "Compute worker count (0 = NumCPU-2)")
	width := flag.Int("width", 1280, "World width in cells")
	height := flag.Int("height", 720, "World height in cells")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	count := *workers
	if count <= 0 {
		count = runtime.NumCPU() - 2
		if count < 1 {
			count = 1
		}
	}

	w := world.New(*width, *height)
	scene.Seed(w, scene.DefaultParams(*seed))

	emit := emitters.NewSystem(*seed)
	emit.Add(*width/4, 10, species.Sand, 4, 3)
	emit.Add(*width/2, 10, species.Water, 4, 3)
	emit.Add(*width*3/4, 10, species.Fire, 1, 1)

	buf := world.NewRenderBuffer(*width, *height, false)
	pool, err := engine.Start(w, engine.Options{Workers: count, Buffer: buf})
	if err != nil {
		slog.Error("pool start failed", "error", err)
		os.Exit(1)
	}
	defer pool.Stop()

	perf := telemetry.NewPerfCollector(1024)
	drive := engine.NewDriver(w, pool, engine.DriverOptions{
		Emitters:   emit,
		Perf:       perf,
		StallAfter: 10000,
	})

	slog.Info("soak starting",
		"workers", pool.Size, "bounds_w", *width, "bounds_h", *height, "ticks", *ticks)
	start := time.Now()

	// Unpaced: drive as fast as the pool drains, dropping on a busy barrier.
	for w.Tick() < *ticks {
		if !drive.Frame() {
			// Give the pool the cycles instead of hammering the barrier.
			runtime.Gosched()
		}
	}
	elapsed := time.Since(start)

	// Workers only service control traffic between ticks, so the clock has
	// to keep moving while the diagnostic ping is in flight. A ping against
	// a parked pool collects nothing.
	pongCh := make(chan []engine.PongPayload, 1)
	go func() { pongCh <- pool.Ping(2 * time.Second) }()
	var pongs []engine.PongPayload
ping:
	for {
		select {
		case pongs = <-pongCh:
			break ping
		default:
			if !drive.Frame() {
				runtime.Gosched()
			}
		}
	}
	summary := telemetry.Summarize(perf.FrameSeconds())

	slog.Info("soak finished",
		"elapsed", elapsed.Round(time.Millisecond),
		"ticks", w.Tick(),
		"ticks_per_sec", float64(w.Tick())/elapsed.Seconds(),
		"frames", drive.Frames(),
		"dropped", drive.Dropped(),
		"workers_responding", len(pongs),
		"frame_mean_ms", summary.Mean*1000,
		"frame_stddev_ms", summary.StdDev*1000,
		"frame_p50_ms", summary.P50*1000,
		"frame_p90_ms", summary.P90*1000,
	)
}
