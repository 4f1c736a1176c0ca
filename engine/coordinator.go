package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DDR0/stardust/world"
)

// ErrNoComputeWorkers is returned when zero compute workers reach READY
// within the settle window. The simulation cannot run at all in that state.
var ErrNoComputeWorkers = errors.New("engine: no compute workers became ready")

// renderSlot identifies the render worker on the worker->host channel.
const renderSlot = -1

// envelope pairs a control message with the slot that sent it.
type envelope struct {
	from int
	msg  Message
}

// SpawnFunc launches one worker goroutine. The worker announces itself by
// sending ready on host, then obeys messages arriving on inbox. Tests
// substitute spawners that misbehave.
type SpawnFunc func(slot int, inbox <-chan Message, host chan<- envelope)

// Options configures pool startup.
type Options struct {
	Workers int           // compute workers requested
	Settle  time.Duration // window for READY arrivals; 0 means 250ms
	Buffer  *world.RenderBuffer

	// Spawn overrides; nil picks the real workers.
	Spawn       SpawnFunc
	SpawnRender SpawnFunc
}

// Pool is the running worker pool. Size is the number of compute workers
// that actually reached READY, which is also the reset value the tick
// barrier uses.
type Pool struct {
	Size int

	world    *world.World
	compute  []chan Message
	render   chan Message
	frameReq chan struct{}
	renderOK bool

	host       chan envelope
	pongs      chan PongPayload
	done       chan struct{}
	stopRender chan struct{}
}

// Start brings the pool online: every worker walks LOADING -> READY ->
// RUNNING. Workers that fail to reach READY inside the settle window are
// excluded; the pool proceeds with whoever arrived. A missing render worker
// is survivable (computation continues, nothing can be displayed) and is
// reported through RenderOK.
func Start(w *world.World, opts Options) (*Pool, error) {
	requested := opts.Workers
	if requested < 1 {
		return nil, fmt.Errorf("engine: requested worker count %d", requested)
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = 250 * time.Millisecond
	}

	p := &Pool{
		world:      w,
		host:       make(chan envelope, requested+1),
		frameReq:   make(chan struct{}, 1),
		pongs:      make(chan PongPayload, requested+1),
		done:       make(chan struct{}),
		stopRender: make(chan struct{}),
	}

	spawn := opts.Spawn
	if spawn == nil {
		spawn = spawnComputeWorker
	}
	spawnRender := opts.SpawnRender
	if spawnRender == nil {
		spawnRender = newRenderSpawner(opts.Buffer, p.frameReq, p.stopRender)
	}

	inboxes := make([]chan Message, requested)
	for slot := 0; slot < requested; slot++ {
		inboxes[slot] = make(chan Message, 16)
		go spawn(slot, inboxes[slot], p.host)
	}
	renderInbox := make(chan Message, 64)
	go spawnRender(renderSlot, renderInbox, p.host)

	// Settle window: count READY arrivals against the deadline and proceed
	// with whoever showed up.
	ready := make([]bool, requested)
	readyCount := 0
	renderReady := false
	deadline := time.NewTimer(settle)
	defer deadline.Stop()

settle:
	for readyCount < requested || !renderReady {
		select {
		case env := <-p.host:
			if !p.accept(env, KindReady) {
				continue
			}
			if env.from == renderSlot {
				if renderReady {
					slog.Debug("duplicate ready from render worker dropped")
					continue
				}
				renderReady = true
				continue
			}
			if ready[env.from] {
				slog.Debug("duplicate ready dropped", "worker", env.from)
				continue
			}
			ready[env.from] = true
			readyCount++
		case <-deadline.C:
			break settle
		}
	}

	if readyCount == 0 {
		w.Close()
		return nil, ErrNoComputeWorkers
	}
	if readyCount < requested {
		slog.Warn("proceeding with reduced pool",
			"requested", requested, "ready", readyCount)
	}

	// READY -> RUNNING: greet, then start, with each worker's final index
	// and the pool size that actually materialized.
	index := 0
	for slot := 0; slot < requested; slot++ {
		if !ready[slot] {
			continue
		}
		inbox := inboxes[slot]
		inbox <- Message{Kind: KindHello}
		inbox <- Message{Kind: KindStart, Payload: StartPayload{
			Index: index,
			Count: readyCount,
			Tick:  w.Tick(),
			World: w,
		}}
		p.compute = append(p.compute, inbox)
		index++
	}
	p.Size = readyCount

	if renderReady {
		renderInbox <- Message{Kind: KindHello}
		renderInbox <- Message{Kind: KindBindToData, Payload: BindPayload{
			World:  w,
			Buffer: opts.Buffer,
		}}
		p.render = renderInbox
		p.renderOK = true
	} else {
		slog.Error("render worker never became ready; simulation will run without display")
	}

	go p.drainHost()

	slog.Info("worker pool started",
		"compute", p.Size, "requested", requested, "render", renderReady)
	return p, nil
}

// accept validates an inbound control message. Anything malformed or
// unexpected is a protocol violation: logged and dropped, never fatal.
func (p *Pool) accept(env envelope, want Kind) bool {
	if !env.msg.Valid() {
		slog.Warn("protocol violation: message carries payload and error",
			"kind", env.msg.Kind.String(), "worker", env.from)
		return false
	}
	if env.msg.Kind != want {
		slog.Warn("protocol violation: unexpected message kind",
			"kind", env.msg.Kind.String(), "worker", env.from)
		return false
	}
	return true
}

// drainHost services worker->host traffic after startup: pong echoes are
// routed to Ping, anything else is dropped as a violation.
func (p *Pool) drainHost() {
	for {
		select {
		case <-p.done:
			return
		case env := <-p.host:
			if !env.msg.Valid() {
				slog.Warn("protocol violation: message carries payload and error",
					"kind", env.msg.Kind.String(), "worker", env.from)
				continue
			}
			switch env.msg.Kind {
			case KindPong:
				if pong, ok := env.msg.Payload.(PongPayload); ok {
					select {
					case p.pongs <- pong:
					default:
					}
				}
			case KindReady:
				slog.Debug("late ready dropped", "worker", env.from)
			default:
				slog.Warn("protocol violation: unexpected message kind",
					"kind", env.msg.Kind.String(), "worker", env.from)
			}
		}
	}
}

// RenderOK reports whether the render worker came online.
func (p *Pool) RenderOK() bool { return p.renderOK }

// RequestFrame asks the render worker to rasterize. Non-blocking; if a
// request is already pending the two collapse into one.
func (p *Pool) RequestFrame() {
	if !p.renderOK {
		return
	}
	select {
	case p.frameReq <- struct{}{}:
	default:
	}
}

// Draw forwards a drawing-primitive message to the render worker, opaquely.
func (p *Pool) Draw(msg Message) {
	if !p.renderOK {
		return
	}
	select {
	case p.render <- msg:
	default:
		slog.Warn("render inbox full, draw command dropped", "kind", msg.Kind.String())
	}
}

// Ping asks every compute worker for a diagnostic echo and collects the
// pongs that arrive before the timeout.
func (p *Pool) Ping(timeout time.Duration) []PongPayload {
	for _, inbox := range p.compute {
		select {
		case inbox <- Message{Kind: KindPing}:
		default:
		}
	}
	var got []PongPayload
	deadline := time.After(timeout)
	for len(got) < len(p.compute) {
		select {
		case pong := <-p.pongs:
			got = append(got, pong)
		case <-deadline:
			return got
		}
	}
	return got
}

// Stop shuts the pool down: the world clock is closed so compute workers
// fall out of their tick wait, and the render worker is told to exit.
func (p *Pool) Stop() {
	p.world.Close()
	close(p.stopRender)
	close(p.done)
}
