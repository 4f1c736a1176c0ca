package engine

import (
	"log/slog"
	"math/rand"

	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

// spawnComputeWorker is the real compute worker. It signals ready, waits to
// be greeted and started, then loops: sweep the assigned stripe, report
// completion, suspend until the next tick.
func spawnComputeWorker(slot int, inbox <-chan Message, host chan<- envelope) {
	host <- envelope{from: slot, msg: Message{Kind: KindReady}}

	var start StartPayload
	for {
		msg := <-inbox
		switch msg.Kind {
		case KindHello:
			// Greeting only; the start directive follows.
		case KindStart:
			payload, ok := msg.Payload.(StartPayload)
			if !ok || payload.World == nil {
				slog.Warn("protocol violation: malformed start payload", "worker", slot)
				continue
			}
			start = payload
		case KindPing:
			host <- envelope{from: slot, msg: Message{
				Kind:    KindPong,
				Payload: PongPayload{Worker: slot + 1},
			}}
			continue
		default:
			slog.Warn("protocol violation: unexpected message kind",
				"kind", msg.Kind.String(), "worker", slot)
			continue
		}
		if msg.Kind == KindStart {
			break
		}
	}

	runCompute(start, inbox, host)
}

func runCompute(start StartPayload, inbox <-chan Message, host chan<- envelope) {
	w := start.World
	owner := int32(start.Index + 1)
	rng := rand.New(rand.NewSource(int64(start.Index)*7919 + 1))

	// The first wait is against the tick the coordinator observed when it
	// issued the start directive. Reading the clock here instead would race
	// the host's first advance: a slow worker dequeuing the directive after
	// an advance would wait out a tick it still owes a completion for, and
	// the barrier would never drain.
	last := start.Tick
	for {
		serviceInbox(owner, last, inbox, host)

		tick, ok := w.WaitTick(last)
		if !ok {
			return
		}
		sweep(w, owner, tick, start.Index, start.Count, rng)
		w.TickDone()
		last = tick
	}
}

// serviceInbox answers any control messages that arrived since the last
// tick. Never blocks.
func serviceInbox(owner int32, tick int64, inbox <-chan Message, host chan<- envelope) {
	for {
		select {
		case msg := <-inbox:
			switch msg.Kind {
			case KindPing:
				host <- envelope{from: int(owner) - 1, msg: Message{
					Kind:    KindPong,
					Payload: PongPayload{Worker: int(owner), Tick: tick},
				}}
			default:
				slog.Warn("protocol violation: unexpected message kind",
					"kind", msg.Kind.String(), "worker", int(owner)-1)
			}
		default:
			return
		}
	}
}

// sweep runs the update rules over this worker's column stripe, bottom-up so
// falling particles vacate cells before the row above is visited. Cells held
// by another claimant are skipped; the particle simply tries again next
// tick.
func sweep(w *world.World, owner int32, tick int64, index, count int, rng *rand.Rand) {
	bw, bh := w.Bounds()
	x0 := index * bw / count
	x1 := (index + 1) * bw / count
	c := &w.Cells

	p := &species.Pass{World: w, Owner: owner, Tick: tick, Rand: rng}
	for y := bh - 1; y >= 0; y-- {
		row := w.Index(0, y)
		for x := x0; x < x1; x++ {
			idx := row + x
			// Unlocked peek: air and walls never act, and a stale read here
			// only costs an extra claim or a skipped tick.
			id := c.Species[idx]
			if int(id) >= len(species.Rules) || species.Rules[id] == nil {
				continue
			}
			claim, ok := w.Acquire(idx, owner)
			if !ok {
				continue
			}
			id = c.Species[idx] // re-read under the lock
			if int(id) < len(species.Rules) {
				if rule := species.Rules[id]; rule != nil {
					rule(p, x, y)
				}
			}
			claim.Release()
		}
	}
}
