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
)

// Epoch helper: seconds into an arbitrary GPS week
func gt(sec float64) GTime {
	return GTime{Week: 2300, Sec: sec}
}

func TestConstantModelDefaults(t *testing.T) {
	m := &ConstantModel{}
	assert.Equal(t, 1.0, m.Phi())
	assert.Equal(t, 0.0, m.Q())

	// Prepare is a no-op
	m.Prepare(gt(0), "STNA", "G01", nil)
	assert.Equal(t, 1.0, m.Phi())
	assert.Equal(t, 0.0, m.Q())
}

func TestRandomWalkModelQ(t *testing.T) {
	m := NewRandomWalkModel()
	m.SetQprime(2.5e-3)
	m.SetPreviousTime(gt(0))

	m.Prepare(gt(30), "", "", nil)
	assert.Equal(t, 1.0, m.Phi())
	assert.InDelta(t, 2.5e-3*30, m.Q(), 1e-12)

	// The previous epoch advances with every Prepare
	m.Prepare(gt(90), "", "", nil)
	assert.InDelta(t, 2.5e-3*60, m.Q(), 1e-12)
}

func TestRandomWalkModelFirstCall(t *testing.T) {
	m := NewRandomWalkModel()
	m.Prepare(gt(0), "", "", nil)
	// previousTime starts at the beginning-of-time sentinel, so a fresh
	// parameter opens with effectively unbounded uncertainty.
	assert.Greater(t, m.Q(), 1e15)
}

func TestRandomWalkModelBackwardEpoch(t *testing.T) {
	m := NewRandomWalkModel()
	m.SetQprime(1.0)
	m.SetPreviousTime(gt(100))

	m.Prepare(gt(40), "", "", nil)
	assert.Equal(t, 0.0, m.Q(), "negative elapsed time must clamp to zero variance")

	// Duplicate epoch
	m.Prepare(gt(40), "", "", nil)
	assert.Equal(t, 0.0, m.Q())
}

func TestRandomWalkModelSetQprimeNotRetroactive(t *testing.T) {
	m := NewRandomWalkModel()
	m.SetQprime(1.0)
	m.SetPreviousTime(gt(0))

	m.Prepare(gt(10), "", "", nil)
	q1 := m.Q()
	m.SetQprime(100.0)
	assert.Equal(t, q1, m.Q(), "changing qprime must not change the already computed Q")

	m.Prepare(gt(20), "", "", nil)
	assert.InDelta(t, 100.0*10, m.Q(), 1e-9)
}

func TestWhiteNoiseModel(t *testing.T) {
	m := NewWhiteNoiseModel(2.0)
	// No Prepare required
	assert.Equal(t, 0.0, m.Phi())
	assert.Equal(t, 4.0, m.Q())

	m.SetSigma(3.0)
	assert.Equal(t, 9.0, m.Q())
}

func TestWhiteNoiseModelDefault(t *testing.T) {
	m := NewWhiteNoiseModel(DefSigmaWhiteNoise)
	assert.Equal(t, 300000.0*300000.0, m.Q())
}
