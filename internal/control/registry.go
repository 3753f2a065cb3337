package control

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

// ErrUnknownController is returned for names missing from the registry.
var ErrUnknownController = errors.New("control: unknown controller")

// Source is anything that can drive the throttle.
type Source interface {
	Throttle(state flight.VehicleState) float64
}

// Tunable sources expose parameters that can change between steps.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

type Registry struct {
	controllers map[string]func(map[string]float64) Source
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(map[string]float64) Source),
	}

	r.controllers["manual"] = func(params map[string]float64) Source {
		return NewManual(int(params["percent"]))
	}
	r.controllers["fixed"] = func(params map[string]float64) Source {
		return NewFixed(params["percent"] / 100)
	}
	r.controllers["pid"] = func(params map[string]float64) Source {
		pid := NewPID(params["kp"], params["ki"], params["kd"], params["target"])
		pid.Bias = params["bias"]
		return pid
	}

	return r
}

func (r *Registry) Get(name string, params map[string]float64) (Source, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownController, name)
	}
	return fn(params), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
