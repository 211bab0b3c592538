package dogpic

import (
	"sync"
)

// Stage names one of the three steps of the pipeline.
type Stage string

const (
	StageNone  Stage = ""
	StageRead  Stage = "read"
	StageFetch Stage = "fetch"
	StageWrite Stage = "write"
)

// State is the position of a run in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateReading
	StateFetching
	StateWriting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateFetching:
		return "fetching"
	case StateWriting:
		return "writing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Result describes a finished run.
type Result struct {
	State       State
	FailedStage Stage
	Breed       string
	ImageURL    string
}

// run is the record of a single execution. Stages may run on different goroutines depending on the style,
// so every access goes through mu.
type run struct {
	mu     sync.Mutex
	state  State
	result Result
	err    error
}

// advance moves the run from one stage to the next. It returns false if the run is not in from.
func (r *run) advance(from, to State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != from {
		return false
	}
	r.state = to

	return true
}

// fail records err and moves the run to StateFailed. Only the first failure is kept.
func (r *run) fail(stage Stage, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return r.err
	}
	r.state = StateFailed
	r.err = err
	r.result.FailedStage = stage

	return err
}

func (r *run) setBreed(breed string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Breed = breed
}

func (r *run) setImageURL(imageURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.ImageURL = imageURL
}

func (r *run) succeed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateWriting {
		r.state = StateSucceeded
	}
}

func (r *run) snapshot() (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.result
	res.State = r.state

	return res, r.err
}
