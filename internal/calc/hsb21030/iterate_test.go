package hsb21030

import (
	"fmt"
	"testing"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/loads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterateWorkedExample(t *testing.T) {
	first := exampleResult(t)

	next, err := Iterate(first)
	require.NoError(t, err)

	assert.Equal(t, "Hsb2103001_iteration", next.Name)
	assert.Equal(t, "test_iter", next.Group.Name())
	require.Equal(t, first.Group.Len()+1, next.Group.Len())

	fs := next.Group.Fasteners()
	assert.Equal(t, []float64{0, 12000, 12000, 0, fastener.DummyTensionAllowable}, next.Group.TensionAllowables())

	dummies := 0
	for _, f := range fs {
		if f.Dummy {
			dummies++
		}
	}
	assert.Equal(t, 1, dummies)

	d := fs[4]
	assert.Equal(t, fastener.DummyName, d.Name)
	assert.Equal(t, 0.0, d.X)
	assert.Equal(t, -70.0, d.Y)
	assert.Equal(t, 25.0, d.Z)

	assertAllInDelta(t, []float64{0, 6166.67, 5166.67, 0, -1333.33}, next.Tension, 0.01, "Ft")
	assertAllInDelta(t, []float64{3420, 3420, 2580, 2580}, next.Fsy[:4], 10, "Fsy")
	assert.False(t, next.HasCompression())
	assert.Empty(t, next.Compression())
	assert.NoError(t, next.Err())
}

func TestIterateLeavesInputUntouched(t *testing.T) {
	first := exampleResult(t)
	before := first.Group.Fasteners()
	centroids := first.Group.Centroids()

	_, err := Iterate(first)
	require.NoError(t, err)

	assert.Equal(t, before, first.Group.Fasteners())
	assert.Equal(t, centroids, first.Group.Centroids())
	assert.Equal(t, []bool{false, true, true, false}, first.InTension)
}

func TestIterateWithoutCompression(t *testing.T) {
	g, err := fastener.NewGroup("test", exampleFasteners())
	require.NoError(t, err)
	r, err := New("pull", g, loads.Forces{X: 1000}, loads.Moments{}, loads.Point{Y: -52.5, Z: 25}, loads.Point{})
	require.NoError(t, err)

	_, err = Iterate(r)
	assert.ErrorIs(t, err, ErrNoCompression)
}

func TestConverge(t *testing.T) {
	first := exampleResult(t)

	r, n, err := Converge(first, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, r.HasCompression())
	assert.Equal(t, 5, r.Group.Len())
}

func TestConvergeAlreadyInTension(t *testing.T) {
	g, err := fastener.NewGroup("test", exampleFasteners())
	require.NoError(t, err)
	r, err := New("pull", g, loads.Forces{X: 1000}, loads.Moments{}, loads.Point{Y: -52.5, Z: 25}, loads.Point{})
	require.NoError(t, err)

	out, n, err := Converge(r, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Same(t, r, out)
}

// gridResult loads a 4x3 pattern so that one contact fastener is not enough:
// a second pass is needed before all real fasteners are in tension.
func gridResult(t *testing.T) *Result {
	t.Helper()
	var fs []fastener.Fastener
	for _, y := range []float64{0, 10, 20, 30} {
		for _, z := range []float64{0, 8, 20} {
			fs = append(fs, fastener.Fastener{
				Name:             fmt.Sprintf("f_%g_%g", y, z),
				ShearAllowable:   1000,
				TensionAllowable: 1000,
				Y:                y,
				Z:                z,
			})
		}
	}
	g, err := fastener.NewGroup("grid", fs)
	require.NoError(t, err)
	r, err := New("grid", g, loads.Forces{X: 1000}, loads.Moments{Y: 30000, Z: -45000}, loads.Point{}, loads.Point{})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 3, 4, 6}, r.Compression())
	return r
}

func TestConvergeTwoPasses(t *testing.T) {
	r, n, err := Converge(gridResult(t), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.False(t, r.HasCompression())
	assert.Equal(t, 14, r.Group.Len())
	assert.Equal(t, "dummy_fastener", r.Group.Fastener(12).Name)
	assert.Equal(t, "dummy_fastener_2", r.Group.Fastener(13).Name)
	assert.Equal(t, 0.0, r.Group.Fastener(2).TensionAllowable)
}

func TestConvergeNotConverged(t *testing.T) {
	r, n, err := Converge(gridResult(t), 1)

	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, 1, n)
	require.NotNil(t, r)
	assert.Equal(t, []int{2}, r.Compression())
}

func TestUniqueName(t *testing.T) {
	fs := []fastener.Fastener{{Name: "dummy_fastener"}, {Name: "dummy_fastener_2"}}
	assert.Equal(t, "dummy_fastener_3", uniqueName("dummy_fastener", fs))
	assert.Equal(t, "x", uniqueName("x", fs))
}
