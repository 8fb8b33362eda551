package effect

import "math/rand/v2"

// Range is an inclusive [Min, Max] bound for randomisation
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func R(min, max float64) Range { return Range{Min: min, Max: max} }

// Draw picks a value uniformly in the range
func (r Range) Draw(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// DrawInt picks an integer uniformly in [Min, Max]
func (r Range) DrawInt(rng *rand.Rand) int {
	lo, hi := int(r.Min), int(r.Max)
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}
