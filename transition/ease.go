package transition

// Ease maps linear progress 0-1 onto eased progress 0-1
type Ease func(f float64) float64

func Linear(f float64) float64 { return f }

func OutQuad(f float64) float64 { return 1 - (1-f)*(1-f) }

func InOutQuad(f float64) float64 {
	if f < 0.5 {
		return 2 * f * f
	}
	g := -2*f + 2
	return 1 - g*g/2
}

// EaseByName resolves a config string. Unknown names get OutQuad.
func EaseByName(name string) Ease {
	switch name {
	case "linear":
		return Linear
	case "inoutquad", "in_out_quad":
		return InOutQuad
	}
	return OutQuad
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
