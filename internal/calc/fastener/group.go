package fastener

import (
	"fmt"
)

const DefaultGroupName = "FastenerGroup"

// Centroids are the allowable-weighted centres of a fastener pattern.
// S is weighted by shear allowables, T by tension allowables.
type Centroids struct {
	YS float64 `json:"centroid_ys"`
	ZS float64 `json:"centroid_zs"`
	YT float64 `json:"centroid_yt"`
	ZT float64 `json:"centroid_zt"`
}

// Row is the tabular view of one fastener in a group.
type Row struct {
	Name             string  `json:"name"`
	Specification    string  `json:"specification"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Z                float64 `json:"z"`
	ShearAllowable   float64 `json:"shear"`
	TensionAllowable float64 `json:"tension"`
	Material         string  `json:"material,omitempty"`
}

// Group is an ordered set of fasteners transferring load at one joint.
// Result vectors computed from a group are aligned with its fastener order.
type Group struct {
	name      string
	fasteners []Fastener
	centroids Centroids
}

func NewGroup(name string, fasteners []Fastener) (*Group, error) {
	if name == "" {
		name = DefaultGroupName
	}
	g := &Group{name: name, fasteners: append([]Fastener(nil), fasteners...)}
	if err := g.recalculate(); err != nil {
		return nil, fmt.Errorf("group %s: %w", name, err)
	}
	return g, nil
}

func (g *Group) Name() string { return g.name }

func (g *Group) Len() int { return len(g.fasteners) }

// Fasteners returns a copy of the member list.
func (g *Group) Fasteners() []Fastener {
	return append([]Fastener(nil), g.fasteners...)
}

func (g *Group) Fastener(i int) Fastener { return g.fasteners[i] }

func (g *Group) Centroids() Centroids { return g.centroids }

func (g *Group) Names() []string {
	out := make([]string, len(g.fasteners))
	for i, f := range g.fasteners {
		out[i] = f.Name
	}
	return out
}

func (g *Group) ShearAllowables() []float64 {
	out := make([]float64, len(g.fasteners))
	for i, f := range g.fasteners {
		out[i] = f.ShearAllowable
	}
	return out
}

func (g *Group) TensionAllowables() []float64 {
	out := make([]float64, len(g.fasteners))
	for i, f := range g.fasteners {
		out[i] = f.TensionAllowable
	}
	return out
}

// Add appends f and recomputes the centroids. The group is left unchanged on error.
func (g *Group) Add(f Fastener) error {
	prev := g.fasteners
	g.fasteners = append(append([]Fastener(nil), prev...), f)
	if err := g.recalculate(); err != nil {
		g.fasteners = prev
		return fmt.Errorf("group %s: add %s: %w", g.name, f.Name, err)
	}
	return nil
}

// Update replaces the allowables of the named fastener and recomputes the centroids.
// The group is left unchanged on error.
func (g *Group) Update(name string, shear, tension float64) error {
	idx := g.index(name)
	if idx < 0 {
		return fmt.Errorf("group %s: %w: %s", g.name, ErrNotFound, name)
	}
	prev := g.fasteners
	next := append([]Fastener(nil), prev...)
	next[idx].ShearAllowable = shear
	next[idx].TensionAllowable = tension
	g.fasteners = next
	if err := g.recalculate(); err != nil {
		g.fasteners = prev
		return fmt.Errorf("group %s: update %s: %w", g.name, name, err)
	}
	return nil
}

func (g *Group) Table() []Row {
	rows := make([]Row, len(g.fasteners))
	for i, f := range g.fasteners {
		rows[i] = Row{
			Name:             f.Name,
			Specification:    f.Specification,
			X:                f.X,
			Y:                f.Y,
			Z:                f.Z,
			ShearAllowable:   f.ShearAllowable,
			TensionAllowable: f.TensionAllowable,
			Material:         f.Material,
		}
	}
	return rows
}

func (g *Group) index(name string) int {
	for i, f := range g.fasteners {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (g *Group) recalculate() error {
	if len(g.fasteners) == 0 {
		return ErrEmptyGroup
	}
	seen := make(map[string]struct{}, len(g.fasteners))
	for _, f := range g.fasteners {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	c, err := centroids(g.fasteners)
	if err != nil {
		return err
	}
	g.centroids = c
	return nil
}

func centroids(fasteners []Fastener) (Centroids, error) {
	var shear, tension, ys, zs, yt, zt float64
	for _, f := range fasteners {
		shear += f.ShearAllowable
		tension += f.TensionAllowable
		ys += f.Y * f.ShearAllowable
		zs += f.Z * f.ShearAllowable
		yt += f.Y * f.TensionAllowable
		zt += f.Z * f.TensionAllowable
	}
	if shear == 0 {
		return Centroids{}, ErrZeroShear
	}
	if tension == 0 {
		return Centroids{}, ErrZeroTension
	}
	return Centroids{
		YS: ys / shear,
		ZS: zs / shear,
		YT: yt / tension,
		ZT: zt / tension,
	}, nil
}
