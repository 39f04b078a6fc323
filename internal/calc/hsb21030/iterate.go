package hsb21030

import (
	"fmt"

	"Strut/internal/calc/fastener"
	"Strut/internal/logger"
)

const DefaultMaxIterations = 10

// Iterate performs one compression pass (HSB 21030-01 section 3.4). Fasteners
// with negative tension lose their tension allowable but keep carrying shear,
// and a contact fastener summarising them is appended. The input result and
// its group are not modified.
func Iterate(r *Result) (*Result, error) {
	comp := r.Compression()
	if len(comp) == 0 {
		return nil, ErrNoCompression
	}

	src := r.Group.Fasteners()
	next := make([]fastener.Fastener, len(src), len(src)+1)
	copy(next, src)
	replaced := make([]fastener.Fastener, 0, len(comp))
	for _, i := range comp {
		replaced = append(replaced, src[i])
		next[i] = src[i].WithTensionAllowable(0)
	}

	dummy, err := fastener.NewDummy(replaced)
	if err != nil {
		return nil, err
	}
	dummy.Name = uniqueName(dummy.Name, next)
	next = append(next, dummy)

	g, err := fastener.NewGroup(r.Group.Name()+"_iter", next)
	if err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.Name, err)
	}
	logger.L().Info("contact fastener added",
		"calc", r.Name,
		"fastener", dummy.Name,
		"x", dummy.X, "y", dummy.Y, "z", dummy.Z,
		"replaces", len(replaced),
	)
	return New(r.Name+"_iteration", g, r.Forces, r.Moments, r.Application, r.Reference)
}

// Converge repeats Iterate until no real fastener is in compression or
// maxIter passes were made. It returns the last result, the number of passes
// and ErrNotConverged if compression remains.
func Converge(r *Result, maxIter int) (*Result, int, error) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	cur := r
	for n := 0; n < maxIter; n++ {
		if !cur.HasCompression() {
			return cur, n, nil
		}
		next, err := Iterate(cur)
		if err != nil {
			return cur, n, err
		}
		cur = next
	}
	if cur.HasCompression() {
		return cur, maxIter, fmt.Errorf("%w after %d passes", ErrNotConverged, maxIter)
	}
	return cur, maxIter, nil
}

func uniqueName(base string, fs []fastener.Fastener) string {
	taken := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		taken[f.Name] = struct{}{}
	}
	name := base
	for n := 2; ; n++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
}
