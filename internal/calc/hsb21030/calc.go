// Package hsb21030 distributes an external load over a rigid fastener group
// following HSB 21030-01 (internal load distribution of fastener groups).
//
// The method is valid for components that are stiff in the joint area. For
// static strength the fastener allowables act as weights: shear allowables
// locate the shear centroid, tension allowables the tension centroid and the
// principal axes of the pattern.
package hsb21030

import (
	"errors"
	"fmt"
	"math"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/loads"
	"Strut/internal/logger"
)

var (
	ErrNoGroup       = errors.New("hsb21030: fastener group is required")
	ErrDegenerate    = errors.New("hsb21030: degenerate fastener pattern")
	ErrNoCompression = errors.New("hsb21030: no fastener in compression")
	ErrNotConverged  = errors.New("hsb21030: compression iteration did not converge")
)

// Cogs summarises the application point and the group centroids.
type Cogs struct {
	ApplicationX float64 `json:"application_point_x"`
	ApplicationY float64 `json:"application_point_y"`
	ApplicationZ float64 `json:"application_point_z"`
	YS           float64 `json:"centroid_ys"`
	ZS           float64 `json:"centroid_zs"`
	YT           float64 `json:"centroid_yt"`
	ZT           float64 `json:"centroid_zt"`
}

// Result holds every intermediate and final quantity of one calculation.
// Per-fastener slices are aligned with the group's fastener order. A Result
// is fully populated by New and must be treated as read-only.
type Result struct {
	Name        string
	Group       *fastener.Group
	Forces      loads.Forces
	Moments     loads.Moments
	Application loads.Point
	Reference   loads.Point

	// MomentsU are the applied moments about the reference point.
	MomentsU loads.MomentsU
	// MomentXS is about the shear centroid, MomentYS and MomentZS about the tension centroid.
	MomentXS float64
	MomentYS float64
	MomentZS float64

	// Alpha is the principal axis angle of the tension-weighted pattern in radians.
	Alpha    float64
	YTA, ZTA float64
	YA, ZA   []float64
	MomentYA float64
	MomentZA float64

	Fsy   []float64
	Fsz   []float64
	Shear []float64

	F1      []float64
	F2      []float64
	F3      []float64
	Tension []float64

	RFShear   []float64
	RFTension []float64
	InTension []bool

	Cogs Cogs
}

// New runs the complete load distribution for group g. Forces and moments act
// at app; the moments are moved to ref before being distributed.
func New(name string, g *fastener.Group, f loads.Forces, m loads.Moments, app, ref loads.Point) (*Result, error) {
	if g == nil || g.Len() == 0 {
		return nil, ErrNoGroup
	}
	r := &Result{
		Name:        name,
		Group:       g,
		Forces:      f,
		Moments:     m,
		Application: app,
		Reference:   ref,
	}
	fs := g.Fasteners()
	c := g.Centroids()

	r.MomentsU = loads.TransformMoments(m, f, app, ref)
	r.MomentXS = loads.MomentXReference(r.MomentsU.X, f.Y, f.Z, ref.Z, ref.Y, c.ZS, c.YS)
	r.MomentYS = loads.MomentYReference(r.MomentsU.Y, f.X, f.Z, ref.X, ref.Z, ref.X, c.ZT)
	r.MomentZS = loads.MomentZReference(r.MomentsU.Z, f.X, f.Y, ref.X, ref.Y, ref.X, c.YT)

	r.Alpha = principalAngle(fs, c)
	sin, cos := math.Sincos(r.Alpha)
	r.YTA, r.ZTA = rotate(c.YT, c.ZT, sin, cos)
	r.YA = make([]float64, len(fs))
	r.ZA = make([]float64, len(fs))
	for i, fa := range fs {
		r.YA[i], r.ZA[i] = rotate(fa.Y, fa.Z, sin, cos)
	}
	r.MomentYA, r.MomentZA = rotate(r.MomentYS, r.MomentZS, sin, cos)

	r.shearForces(fs, c)
	r.tensionForces(fs)
	r.reserveFactors(fs)
	r.checkTension(fs)

	r.Cogs = Cogs{
		ApplicationX: app.X,
		ApplicationY: app.Y,
		ApplicationZ: app.Z,
		YS:           c.YS,
		ZS:           c.ZS,
		YT:           c.YT,
		ZT:           c.ZT,
	}
	return r, nil
}

// principalAngle solves tan(2a) = 2*Sum[T(y-yT)(z-zT)] / (Sum[T(y-yT)^2] - Sum[T(z-zT)^2]).
// A zero denominator is left to IEEE arithmetic: +-Inf gives +-pi/4, 0/0 gives NaN.
func principalAngle(fs []fastener.Fastener, c fastener.Centroids) float64 {
	var syz, syy, szz float64
	for _, f := range fs {
		dy := f.Y - c.YT
		dz := f.Z - c.ZT
		syz += f.TensionAllowable * dy * dz
		syy += f.TensionAllowable * dy * dy
		szz += f.TensionAllowable * dz * dz
	}
	return math.Atan(2*syz/(syy-szz)) / 2
}

// rotate maps (y, z) into the principal frame turned by the angle with the given sin and cos.
func rotate(y, z, sin, cos float64) (float64, float64) {
	return y*cos + z*sin, -y*sin + z*cos
}

func (r *Result) shearForces(fs []fastener.Fastener, c fastener.Centroids) {
	var sum, polar float64
	for _, f := range fs {
		dy := f.Y - c.YS
		dz := f.Z - c.ZS
		sum += f.ShearAllowable
		polar += f.ShearAllowable * (dy*dy + dz*dz)
	}
	r.Fsy = make([]float64, len(fs))
	r.Fsz = make([]float64, len(fs))
	r.Shear = make([]float64, len(fs))
	for i, f := range fs {
		s := f.ShearAllowable
		r.Fsy[i] = r.Forces.Y*s/sum - r.MomentXS*(s*(f.Z-c.ZS))/polar
		r.Fsz[i] = r.Forces.Z*s/sum + r.MomentXS*(s*(f.Y-c.YS))/polar
		r.Shear[i] = math.Sqrt(r.Fsy[i]*r.Fsy[i] + r.Fsz[i]*r.Fsz[i])
	}
}

func (r *Result) tensionForces(fs []fastener.Fastener) {
	var sum, iy, iz float64
	for i, f := range fs {
		dy := r.YA[i] - r.YTA
		dz := r.ZA[i] - r.ZTA
		sum += f.TensionAllowable
		iy += f.TensionAllowable * dy * dy
		iz += f.TensionAllowable * dz * dz
	}
	r.F1 = make([]float64, len(fs))
	r.F2 = make([]float64, len(fs))
	r.F3 = make([]float64, len(fs))
	r.Tension = make([]float64, len(fs))
	for i, f := range fs {
		t := f.TensionAllowable
		r.F1[i] = r.Forces.X * t / sum
		r.F2[i] = r.MomentYA * (t * (r.ZA[i] - r.ZTA)) / iz
		r.F3[i] = r.MomentZA * (t * (r.YA[i] - r.YTA)) / iy
		r.Tension[i] = r.F1[i] + r.F2[i] - r.F3[i]
	}
}

func (r *Result) reserveFactors(fs []fastener.Fastener) {
	r.RFShear = make([]float64, len(fs))
	r.RFTension = make([]float64, len(fs))
	for i, f := range fs {
		r.RFShear[i] = ReserveFactor(f.ShearAllowable, r.Shear[i])
		r.RFTension[i] = ReserveFactor(f.TensionAllowable, r.Tension[i])
	}
}

// ReserveFactor is allowable/load truncated (not rounded) to two decimals.
func ReserveFactor(allowable, load float64) float64 {
	return math.Trunc(100*allowable/load) / 100
}

func (r *Result) checkTension(fs []fastener.Fastener) {
	log := logger.L().With("calc", r.Name, "group", r.Group.Name())
	r.InTension = make([]bool, len(fs))
	compressed := 0
	for i, f := range fs {
		r.InTension[i] = r.Tension[i] >= 0
		if r.InTension[i] {
			log.Debug("fastener in tension", "fastener", f.Name, "force", r.Tension[i])
			continue
		}
		log.Debug("fastener in compression", "fastener", f.Name, "force", r.Tension[i])
		if !f.Dummy {
			compressed++
		}
	}
	if compressed > 0 {
		log.Warn("fasteners in compression, iterate calculation", "count", compressed)
	}
}

// Compression returns the indices of real (non-dummy) fasteners with negative tension.
func (r *Result) Compression() []int {
	var out []int
	for i, ok := range r.InTension {
		if !ok && !r.Group.Fastener(i).Dummy {
			out = append(out, i)
		}
	}
	return out
}

func (r *Result) HasCompression() bool {
	return len(r.Compression()) > 0
}

// Err reports ErrDegenerate when any force quantity is NaN or infinite,
// which happens for colinear or singular fastener patterns.
func (r *Result) Err() error {
	check := func(label string, vs ...float64) error {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s is %g", ErrDegenerate, label, v)
			}
		}
		return nil
	}
	if err := check("alpha", r.Alpha); err != nil {
		return err
	}
	if err := check("Fsy", r.Fsy...); err != nil {
		return err
	}
	if err := check("Fsz", r.Fsz...); err != nil {
		return err
	}
	return check("Ft", r.Tension...)
}
