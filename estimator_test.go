// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

package goppp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestEstimatorAddRemove(t *testing.T) {
	e := NewEstimator(nil)
	k1 := ParamKey{Type: TypeWetTropo, Sta: "STNA"}
	k2 := ParamKey{Type: TypeAmbiguity, Sta: "STNA", Sat: "G05"}

	require.NoError(t, e.AddParam(k1, 0.1, 1.0))
	require.NoError(t, e.AddParam(k2, 5.0, 4.0))
	assert.Error(t, e.AddParam(k1, 0, 0), "duplicate key must be rejected")
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.Has(k1))

	v, p, ok := e.State(k2)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 4.0, p)

	assert.True(t, e.RemoveParam(k1))
	assert.False(t, e.RemoveParam(k1))
	assert.Equal(t, 1, e.Len())
	_, _, ok = e.State(k1)
	assert.False(t, ok)

	v, p, ok = e.State(k2)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 4.0, p)
}

func TestEstimatorRemoveKeepsCrossCovariance(t *testing.T) {
	e := NewEstimator(nil)
	k := []ParamKey{
		{Type: TypeDX, Sta: "STNA"},
		{Type: TypeDY, Sta: "STNA"},
		{Type: TypeDZ, Sta: "STNA"},
	}
	for i, key := range k {
		require.NoError(t, e.AddParam(key, float64(i), 1.0))
	}
	// Correlate dx and dz through a measurement of their sum
	H := mat.NewDense(1, 3, []float64{1, 0, 1})
	R := mat.NewDense(1, 1, []float64{1})
	dy := mat.NewVecDense(1, []float64{0})
	require.NoError(t, e.MeasUpdate(H, R, dy))
	_, pBefore, _ := e.State(k[0])

	require.True(t, e.RemoveParam(k[1]))
	_, pAfter, ok := e.State(k[0])
	require.True(t, ok)
	assert.Equal(t, pBefore, pAfter, "removing dy must not disturb dx variance")
	assert.Equal(t, []ParamKey{k[0], k[2]}, e.Keys())
}

func TestEstimatorTimeUpdateTropo(t *testing.T) {
	e := NewEstimator(nil)
	key := ParamKey{Type: TypeWetTropo, Sta: "STATION_A"}
	require.NoError(t, e.AddParam(key, 0.1, 1.0))

	tropo := NewTropoRandomWalkModel()
	tropo.SetPreviousTime("STATION_A", gt(0))
	e.SetModel(TypeWetTropo, tropo)

	e.TimeUpdate(gt(3600), NewEpochFrame(gt(3600)))

	v, p, ok := e.State(key)
	require.True(t, ok)
	assert.Equal(t, 0.1, v, "a random walk does not decay the estimate")
	assert.InDelta(t, 1.0+1.8e-4, p, 1e-12)
	assert.Equal(t, gt(3600), e.Epoch())
}

func TestEstimatorTimeUpdateWhiteNoise(t *testing.T) {
	e := NewEstimator(nil)
	kx := ParamKey{Type: TypeDX, Sta: "STNA"}
	kt := ParamKey{Type: TypeWetTropo, Sta: "STNA"}
	require.NoError(t, e.AddParam(kx, 7.0, 1.0))
	require.NoError(t, e.AddParam(kt, 0.1, 1.0))

	// Correlate the two parameters first
	H := mat.NewDense(1, 2, []float64{1, 1})
	R := mat.NewDense(1, 1, []float64{1})
	require.NoError(t, e.MeasUpdate(H, R, mat.NewVecDense(1, []float64{0})))

	e.SetModel(TypeDX, NewWhiteNoiseModel(2.0))
	e.TimeUpdate(gt(30), NewEpochFrame(gt(30)))

	v, p, ok := e.State(kx)
	require.True(t, ok)
	assert.Equal(t, 0.0, v, "Phi = 0 discards the previous estimate")
	assert.Equal(t, 4.0, p, "the variance resets to sigma^2")
}

func TestEstimatorAmbiguityReset(t *testing.T) {
	e := NewEstimator(nil)
	key := ParamKey{Type: TypeAmbiguity, Sta: "STNA", Sat: "G05"}
	require.NoError(t, e.AddParam(key, 12.5, 0.01))

	amb := NewPhaseAmbiguityModel()
	amb.SetSigma(100.0)
	e.SetModel(TypeAmbiguity, amb)

	frame := func(sec, arc float64) *EpochFrame {
		f := NewEpochFrame(gt(sec))
		f.Put("STNA", "G05", TypeSatArc, arc)
		return f
	}

	// Continuous tracking: the ambiguity stays put
	e.TimeUpdate(gt(0), frame(0, 1))
	e.TimeUpdate(gt(30), frame(30, 1))
	v, p, _ := e.State(key)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, 0.01, p)

	// Arc change: the ambiguity becomes a new unknown
	e.TimeUpdate(gt(60), frame(60, 2))
	v, p, _ = e.State(key)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, 100.0*100.0, p)
}

func TestEstimatorUnboundTypeIsConstant(t *testing.T) {
	e := NewEstimator(nil)
	key := ParamKey{Type: TypeRecBias, Sta: "STNA"}
	require.NoError(t, e.AddParam(key, 3.0, 2.0))

	e.TimeUpdate(gt(30), NewEpochFrame(gt(30)))
	v, p, _ := e.State(key)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 2.0, p)
}

func TestEstimatorMeasUpdateScalar(t *testing.T) {
	e := NewEstimator(nil)
	key := ParamKey{Type: TypeDX, Sta: "STNA"}
	require.NoError(t, e.AddParam(key, 0.0, 1.0))

	H := mat.NewDense(1, 1, []float64{1})
	R := mat.NewDense(1, 1, []float64{1})
	dy := mat.NewVecDense(1, []float64{1})
	require.NoError(t, e.MeasUpdate(H, R, dy))

	// K = 1/(1+1) = 0.5
	v, p, _ := e.State(key)
	assert.InDelta(t, 0.5, v, 1e-12)
	assert.InDelta(t, 0.5, p, 1e-12)
}

func TestEstimatorMeasUpdateDims(t *testing.T) {
	e := NewEstimator(nil)
	require.NoError(t, e.AddParam(ParamKey{Type: TypeDX, Sta: "STNA"}, 0, 1))

	H := mat.NewDense(1, 2, nil)
	R := mat.NewDense(1, 1, nil)
	dy := mat.NewVecDense(1, nil)
	assert.Error(t, e.MeasUpdate(H, R, dy))

	H = mat.NewDense(1, 1, nil)
	R = mat.NewDense(2, 2, nil)
	assert.Error(t, e.MeasUpdate(H, R, dy))

	R = mat.NewDense(1, 1, nil)
	dy = mat.NewVecDense(2, nil)
	assert.Error(t, e.MeasUpdate(H, R, dy))
}

func TestEstimatorInitFromLS(t *testing.T) {
	e := NewEstimator(nil)
	require.NoError(t, e.AddParam(ParamKey{Type: TypeDX, Sta: "STNA"}, 0, 1e6))
	require.NoError(t, e.AddParam(ParamKey{Type: TypeDY, Sta: "STNA"}, 0, 1e6))

	G := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	W := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	dr := mat.NewVecDense(2, []float64{3, 4})
	require.NoError(t, e.InitFromLS(G, dr, W))

	v, p, _ := e.State(ParamKey{Type: TypeDX, Sta: "STNA"})
	assert.InDelta(t, 3.0, v, 1e-12)
	assert.InDelta(t, 1.0, p, 1e-12)
	v, _, _ = e.State(ParamKey{Type: TypeDY, Sta: "STNA"})
	assert.InDelta(t, 4.0, v, 1e-12)

	// Column mismatch
	G3 := mat.NewDense(2, 3, nil)
	assert.Error(t, e.InitFromLS(G3, dr, W))
}

func TestEstimatorConvergesOnDirectObservation(t *testing.T) {
	e := NewEstimator(nil)
	key := ParamKey{Type: TypeDX, Sta: "STNA"}
	require.NoError(t, e.AddParam(key, 0.0, 100.0))
	e.SetModel(TypeDX, &ConstantModel{})

	// Repeated direct observations of the value 2.0
	for i := 0; i < 50; i++ {
		e.TimeUpdate(gt(float64(30*i)), NewEpochFrame(gt(float64(30*i))))
		H := mat.NewDense(1, 1, []float64{1})
		R := mat.NewDense(1, 1, []float64{0.25})
		v, _, _ := e.State(key)
		dy := mat.NewVecDense(1, []float64{2.0 - v})
		require.NoError(t, e.MeasUpdate(H, R, dy))
	}

	v, p, _ := e.State(key)
	assert.InDelta(t, 2.0, v, 1e-6)
	assert.Less(t, p, 0.01)
}
