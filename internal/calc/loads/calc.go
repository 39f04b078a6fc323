package loads

// Case selects the load level a force/moment system is given at.
type Case string

const (
	CaseLimit    Case = "limit"
	CaseUltimate Case = "ultimate"
)

type Forces struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"fx" yaml:"fx"`
	Y    float64 `json:"fy" yaml:"fy"`
	Z    float64 `json:"fz" yaml:"fz"`
}

type Moments struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"mx" yaml:"mx"`
	Y    float64 `json:"my" yaml:"my"`
	Z    float64 `json:"mz" yaml:"mz"`
}

// Point is a named location used as application or reference point of a load.
type Point struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Z    float64 `json:"z" yaml:"z"`
}

// MomentsU holds moments transferred to a reference point U.
type MomentsU struct {
	X float64 `json:"mx_u"`
	Y float64 `json:"my_u"`
	Z float64 `json:"mz_u"`
}

func (f Forces) Scale(k float64) Forces {
	return Forces{Name: f.Name, X: f.X * k, Y: f.Y * k, Z: f.Z * k}
}

func (m Moments) Scale(k float64) Moments {
	return Moments{Name: m.Name, X: m.X * k, Y: m.Y * k, Z: m.Z * k}
}

// Factor returns the multiplier applied to limit loads for the given case.
func Factor(c Case) float64 {
	switch c {
	case CaseUltimate:
		return 1.5
	default:
		return 1.0
	}
}

// Apply scales forces and moments given at limit level to the requested case.
func Apply(c Case, f Forces, m Moments) (Forces, Moments) {
	k := Factor(c)
	return f.Scale(k), m.Scale(k)
}
