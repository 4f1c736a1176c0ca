package engine

import (
	"testing"
	"time"

	"github.com/DDR0/stardust/world"
)

// TestWorkerStartedAfterAdvance covers a slow-scheduled worker: the host's
// first refresh fires between the start directive being queued and the
// worker dequeuing it. The worker already owes a completion for that tick,
// so its first wait must be against the tick the directive carries, not a
// clock value it reads after the advance.
func TestWorkerStartedAfterAdvance(t *testing.T) {
	w := world.New(16, 16)
	defer w.Close()
	inbox := make(chan Message, 16)
	host := make(chan envelope, 4)
	go spawnComputeWorker(0, inbox, host)

	if env := <-host; env.msg.Kind != KindReady {
		t.Fatalf("first message = %v, want ready", env.msg.Kind)
	}
	inbox <- Message{Kind: KindHello}

	// The tick the coordinator would have stamped into the directive,
	// captured before the advance the worker has not yet seen.
	startTick := w.Tick()
	if !w.AdvanceTick(1) {
		t.Fatal("advance failed on a fresh barrier")
	}
	inbox <- Message{Kind: KindStart, Payload: StartPayload{
		Index: 0,
		Count: 1,
		Tick:  startTick,
		World: w,
	}}

	// The worker must sweep the outstanding tick and drain the barrier.
	deadline := time.Now().Add(2 * time.Second)
	for w.Running() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("barrier never drained: tick=%d running=%d",
				w.Tick(), w.Running())
		}
		time.Sleep(time.Millisecond)
	}
	if !w.AdvanceTick(1) {
		t.Fatal("clock could not advance past the worker's first tick")
	}
}

// TestPingAnsweredBetweenTicks pings real compute workers while the clock is
// being driven. Workers service control traffic between ticks, so the round
// trip completes as long as ticks keep coming.
func TestPingAnsweredBetweenTicks(t *testing.T) {
	w := world.New(32, 32)
	pool, err := Start(w, Options{
		Workers:     2,
		SpawnRender: func(slot int, inbox <-chan Message, host chan<- envelope) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Stop()

	d := NewDriver(w, pool, DriverOptions{})
	pongCh := make(chan []PongPayload, 1)
	go func() { pongCh <- pool.Ping(2 * time.Second) }()

	var pongs []PongPayload
collect:
	for {
		select {
		case pongs = <-pongCh:
			break collect
		default:
			d.Frame()
		}
	}
	if len(pongs) != 2 {
		t.Fatalf("pongs = %d, want 2", len(pongs))
	}
}
