package telemetry

import "sync"

// Sink receives snapshots in step order.
type Sink interface {
	Publish(Snapshot)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Snapshot)

func (f SinkFunc) Publish(s Snapshot) { f(s) }

type multi []Sink

// Multi fans a snapshot out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Publish(s Snapshot) {
	for _, sink := range m {
		sink.Publish(s)
	}
}

// Discard drops every snapshot.
var Discard Sink = SinkFunc(func(Snapshot) {})

// Recorder keeps every published snapshot in memory.
type Recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{snapshots: make([]Snapshot, 0, 256)}
}

func (r *Recorder) Publish(s Snapshot) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, s)
	r.mu.Unlock()
}

// Snapshots returns a copy of the recorded frames.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// Last returns the newest frame.
func (r *Recorder) Last() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.snapshots = r.snapshots[:0]
	r.mu.Unlock()
}
