// Package project ties a network, its file, and the engine boundary
// together under a single lifecycle state machine.
//
// States: an Empty project becomes Loaded when a file is opened.
// Any network mutation moves it to Modified, or from a results-bearing
// state to ResultsStale. A successful run lands in ResultsValid; a
// failed run leaves the previous state untouched.
package project

import (
	"context"
	"fmt"
	"os"
	"sync"

	"waterworks/internal/codec"
	"waterworks/internal/domain"
	"waterworks/internal/engine"
	"waterworks/internal/loader"
)

// State is the project lifecycle state.
type State string

const (
	StateEmpty        State = "empty"
	StateLoaded       State = "loaded"
	StateModified     State = "modified"
	StateResultsStale State = "results_stale"
	StateResultsValid State = "results_valid"
)

// Project is the top-level aggregate. All methods are safe for
// concurrent use.
type Project struct {
	mu sync.Mutex

	net     *domain.Network
	state   State
	path    string
	results *engine.Results

	bus    *EventBus
	sync   *engine.Synchronizer
	runner *engine.Runner
	eng    engine.Engine
}

// New creates an empty project wired to the given engine. A nil engine
// gets the deterministic stub, a nil bus gets a fresh one.
func New(eng engine.Engine, bus *EventBus) *Project {
	if eng == nil {
		eng = &engine.StubEngine{}
	}
	if bus == nil {
		bus = NewEventBus()
	}
	return &Project{
		net:    domain.NewNetwork(),
		state:  StateEmpty,
		bus:    bus,
		sync:   engine.NewSynchronizer(nil),
		runner: &engine.Runner{},
		eng:    eng,
	}
}

// SetScratchRoot directs engine runs to a specific scratch parent.
func (p *Project) SetScratchRoot(dir string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runner.Root = dir
}

// SetKeepScratch preserves engine scratch directories after each run.
func (p *Project) SetKeepScratch(keep bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runner.Keep = keep
}

// State returns the current lifecycle state.
func (p *Project) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Path returns the file the project was opened from or saved to.
func (p *Project) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Bus returns the project's event bus.
func (p *Project) Bus() *EventBus { return p.bus }

// Network returns the underlying network. Callers must mutate it
// through Mutate so state tracking stays correct.
func (p *Project) Network() *domain.Network {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.net
}

// Results returns the last successful run's output, or nil.
func (p *Project) Results() *engine.Results {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Open replaces the project contents with the network read from path.
func (p *Project) Open(path string) (*codec.ImportReport, error) {
	net, report, err := loader.Open(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.net = net
	p.path = path
	p.results = nil
	p.setStateLocked(StateLoaded)
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventOpened, Payload: map[string]string{"path": path}})
	return report, nil
}

// Save writes the project to path ("" reuses the opened path). A saved
// Modified project returns to Loaded; result states are unaffected,
// saving does not change what the results describe.
func (p *Project) Save(path string) error {
	p.mu.Lock()
	if path == "" {
		path = p.path
	}
	if path == "" {
		p.mu.Unlock()
		return fmt.Errorf("save: no file associated with project")
	}
	net := p.net
	p.mu.Unlock()

	if err := loader.Save(net, path); err != nil {
		return err
	}

	p.mu.Lock()
	p.path = path
	if p.state == StateModified {
		p.setStateLocked(StateLoaded)
	}
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventSaved, Payload: map[string]string{"path": path}})
	return nil
}

// Clear resets the project to a fresh empty network.
func (p *Project) Clear() {
	p.mu.Lock()
	p.net.Clear()
	p.path = ""
	p.results = nil
	p.setStateLocked(StateEmpty)
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventCleared})
}

// Mutate applies fn to the network under the project lock. On success
// the lifecycle advances: results-bearing states go stale, everything
// else becomes Modified. A failed mutation changes nothing.
func (p *Project) Mutate(fn func(net *domain.Network) error) error {
	p.mu.Lock()
	if err := fn(p.net); err != nil {
		p.mu.Unlock()
		return err
	}
	switch p.state {
	case StateResultsValid, StateResultsStale:
		p.setStateLocked(StateResultsStale)
	default:
		p.setStateLocked(StateModified)
	}
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventModified})
	return nil
}

// ImportCoordinates applies a bare coordinate list file (`id x y` lines)
// to the current network as a tracked mutation. Unknown node ids are
// reported, not fatal.
func (p *Project) ImportCoordinates(path string) (*codec.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coordinates: %w", err)
	}
	defer f.Close()

	positions, report, err := codec.ParseCoordinates(f)
	if err != nil {
		return nil, err
	}
	err = p.Mutate(func(net *domain.Network) error {
		codec.ApplyCoordinates(net, positions, report)
		return nil
	})
	return report, err
}

// Run executes the engine against the current network and imports the
// final-step results. On failure the project keeps its previous state
// and its previous results.
func (p *Project) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateEmpty {
		p.mu.Unlock()
		return fmt.Errorf("run: project is empty")
	}
	net := p.net
	runner := *p.runner
	eng := p.eng
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventRunStarted, Payload: map[string]string{"engine": eng.Name()}})
	runner.Progress = func(pct int) {
		p.bus.Publish(Event{Type: EventRunProgress, Payload: map[string]int{"percent": pct}})
	}

	model, err := p.sync.Export(net)
	if err != nil {
		p.bus.Publish(Event{Type: EventRunFailed, Payload: err.Error()})
		return err
	}

	res, err := runner.Run(ctx, eng, model)
	if err != nil {
		p.bus.Publish(Event{Type: EventRunFailed, Payload: err.Error()})
		return err
	}

	p.mu.Lock()
	if err := p.sync.ImportResults(p.net, res, -1); err != nil {
		p.mu.Unlock()
		p.bus.Publish(Event{Type: EventRunFailed, Payload: err.Error()})
		return err
	}
	p.results = res
	p.setStateLocked(StateResultsValid)
	p.mu.Unlock()

	p.bus.Publish(Event{Type: EventRunCompleted, Payload: map[string]int{"steps": res.Steps()}})
	return nil
}

// setStateLocked updates the state and emits a transition event. The
// caller holds the mutex; the publish is non-blocking by construction.
func (p *Project) setStateLocked(next State) {
	if p.state == next {
		return
	}
	prev := p.state
	p.state = next
	p.bus.Publish(Event{
		Type:    EventStateChanged,
		Payload: map[string]string{"from": string(prev), "to": string(next)},
	})
}
