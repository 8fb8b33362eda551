package transition

// Param is a float value that the scheduler can tween. Live reports whether
// anything has written to it since construction.
type Param struct {
	name  string
	value float64
	live  bool
}

func NewParam(name string, initial float64) *Param {
	return &Param{name: name, value: initial}
}

func (p *Param) Name() string   { return p.name }
func (p *Param) Value() float64 { return p.value }
func (p *Param) Live() bool     { return p.live }

func (p *Param) write(v float64) {
	p.value = v
	p.live = true
}

// Override holds an instant (non-interpolated) field: enums, flags, colours.
type Override[T any] struct {
	value T
	live  bool
}

func NewOverride[T any](initial T) *Override[T] {
	return &Override[T]{value: initial}
}

func (o *Override[T]) Set(v T) {
	o.value = v
	o.live = true
}

func (o *Override[T]) Get() T     { return o.value }
func (o *Override[T]) Live() bool { return o.live }
