package fastener

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidFastener = errors.New("fastener: invalid fastener")
	ErrEmptyGroup      = errors.New("fastener: group has no fasteners")
	ErrZeroShear       = errors.New("fastener: sum of shear allowables is zero")
	ErrZeroTension     = errors.New("fastener: sum of tension allowables is zero")
	ErrDuplicateName   = errors.New("fastener: duplicate fastener name")
	ErrNotFound        = errors.New("fastener: fastener not found")
)

const (
	DummyName             = "dummy_fastener"
	DummyShearAllowable   = 0.0001
	DummyTensionAllowable = 9999000.0
)

// Fastener is one rivet or bolt of a joint. Values are copied into groups,
// so changing a Fastener after it was placed has no effect on the group.
type Fastener struct {
	Name             string  `json:"name" yaml:"name"`
	Specification    string  `json:"specification" yaml:"specification"`
	ShearAllowable   float64 `json:"shear_allowable" yaml:"shear_allowable"`
	TensionAllowable float64 `json:"tension_allowable" yaml:"tension_allowable"`
	X                float64 `json:"x" yaml:"x"`
	Y                float64 `json:"y" yaml:"y"`
	Z                float64 `json:"z" yaml:"z"`
	Material         string  `json:"material,omitempty" yaml:"material,omitempty"`
	// Dummy marks the synthetic contact fastener added by the compression iteration.
	Dummy bool `json:"dummy,omitempty" yaml:"dummy,omitempty"`
}

func (f Fastener) WithTensionAllowable(v float64) Fastener {
	f.TensionAllowable = v
	return f
}

func (f Fastener) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFastener)
	}
	if !(f.ShearAllowable > 0) || math.IsInf(f.ShearAllowable, 0) {
		return fmt.Errorf("%w: %s: shear allowable must be positive, got %g", ErrInvalidFastener, f.Name, f.ShearAllowable)
	}
	if !(f.TensionAllowable >= 0) || math.IsInf(f.TensionAllowable, 0) {
		return fmt.Errorf("%w: %s: tension allowable must not be negative, got %g", ErrInvalidFastener, f.Name, f.TensionAllowable)
	}
	for _, c := range []float64{f.X, f.Y, f.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %s: non-finite coordinate", ErrInvalidFastener, f.Name)
		}
	}
	return nil
}

// NewDummy builds the contact fastener that replaces the given fasteners in
// compression: mean X and Z, the Y of largest magnitude, negligible shear
// allowable and a tension allowable large enough to act as a rigid stop.
func NewDummy(replaced []Fastener) (Fastener, error) {
	if len(replaced) == 0 {
		return Fastener{}, fmt.Errorf("%w: no fasteners to replace", ErrInvalidFastener)
	}
	var sumX, sumZ float64
	y := replaced[0].Y
	for _, f := range replaced {
		sumX += f.X
		sumZ += f.Z
		if math.Abs(f.Y) > math.Abs(y) {
			y = f.Y
		}
	}
	n := float64(len(replaced))
	return Fastener{
		Name:             DummyName,
		Specification:    DummyName,
		ShearAllowable:   DummyShearAllowable,
		TensionAllowable: DummyTensionAllowable,
		X:                sumX / n,
		Y:                y,
		Z:                sumZ / n,
		Dummy:            true,
	}, nil
}
