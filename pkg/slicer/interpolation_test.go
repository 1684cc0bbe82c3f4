package slicer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeodesicDistances(t *testing.T) {
	m := testStrip(t)

	d, err := GeodesicDistances(m, []int{0, 1})
	require.NoError(t, err)

	assert.Equal(t, 0.0, d[0])
	assert.Equal(t, 0.0, d[1])
	assert.InDelta(t, 1.0, d[2], 1e-10)
	assert.InDelta(t, 1.0, d[3], 1e-10)
}

func TestGeodesicDistancesErrors(t *testing.T) {
	m := testStrip(t)

	_, err := GeodesicDistances(m, nil)
	assert.Error(t, err)

	_, err = GeodesicDistances(m, []int{99})
	assert.Error(t, err)
}

func TestInterpolationParameters(t *testing.T) {
	params := InterpolationParameters(3)

	require.Len(t, params, 4)
	assert.InDelta(t, 0.25, params[0], 1e-10)
	assert.InDelta(t, 0.5, params[1], 1e-10)
	assert.InDelta(t, 0.75, params[2], 1e-10)
	assert.Equal(t, 0.997, params[3])
}

func TestIsoCurveCount(t *testing.T) {
	assert.Equal(t, 10, isoCurveCount(10, 10, 1))
	assert.Equal(t, 1, isoCurveCount(0.1, 0.1, 1), "at least one curve")
}

func TestInterpolationSlicerOnStrip(t *testing.T) {
	m := testStrip(t)

	s, err := NewInterpolationSlicer(m, []int{0, 1}, []int{2, 3}, InterpolationConfig{
		AvgLayerHeight:   0.26,
		MinPointsPerPath: 3,
	})
	require.NoError(t, err)
	require.NoError(t, s.SliceModel())

	// span 1.0 / 0.26 -> 3 curves plus the trailing 0.997 parameter
	assert.Equal(t, 3, s.IsoCurveCount())
	r := s.Result()
	require.Len(t, r.Layers, 4)

	// heights follow the interpolation parameters on a straight strip
	wantT := []float64{0.25, 0.5, 0.75, 0.997}
	for i, layer := range r.Layers {
		require.Len(t, layer.Paths, 1)
		p := layer.Paths[0]
		assert.False(t, p.IsClosed)
		for _, pt := range p.Points {
			if math.Abs(pt.Z-wantT[i]) > 1e-6 {
				t.Errorf("layer %d: point z %v, want %v", i, pt.Z, wantT[i])
			}
		}
	}
}

func TestInterpolationSlicerErrors(t *testing.T) {
	m := testStrip(t)

	_, err := NewInterpolationSlicer(m, nil, []int{2}, InterpolationConfig{AvgLayerHeight: 1})
	assert.Error(t, err)

	_, err = NewInterpolationSlicer(m, []int{0}, []int{2}, InterpolationConfig{AvgLayerHeight: 0})
	assert.Error(t, err)
}
