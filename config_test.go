// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

package goppp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, PosKinematic, c.Position.Mode)
	assert.Equal(t, DefSigmaWhiteNoise, c.Position.Sigma)
	assert.Equal(t, DefQpTropo, c.Tropo.Qprime)
	assert.Equal(t, DefQpTropoGrad, c.TropoGrad.Qprime)
	assert.Equal(t, DefQpIono, c.Iono.Qprime)
	assert.True(t, c.Iono.InsertInterrupt)
	assert.Equal(t, DefIonoSampling, c.Iono.Sampling)
	assert.Equal(t, DefQpRecBias, c.RecBias.Qprime)
	assert.Equal(t, DefQpSatBias, c.SatBias.Qprime)
	assert.Equal(t, DefQpISB, c.ISB.Qprime)
	assert.Equal(t, DefQpIFCB, c.IFCB.Qprime)
	assert.Equal(t, DefSigmaAmbiguity, c.Ambiguity.Sigma)
	assert.True(t, c.Ambiguity.WatchSatArc)
	require.NoError(t, c.Validate())
}

func TestLoadConfigPartial(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "tune.yml")
	body := `position:
  mode: static
  qprime: 0.01
tropo:
  qprime: 1.0e-7
iono:
  insert_interrupt: false
  initial_epoch: "2024/01/15 00:00:00"
ambiguity:
  watch_sat_arc: false
  cs_flag_type: csL2
`
	require.NoError(t, os.WriteFile(fn, []byte(body), 0644))

	c, err := LoadConfig(fn)
	require.NoError(t, err)

	// Overridden keys
	assert.Equal(t, PosStatic, c.Position.Mode)
	assert.Equal(t, 0.01, c.Position.Qprime)
	assert.Equal(t, 1.0e-7, c.Tropo.Qprime)
	assert.False(t, c.Iono.InsertInterrupt)
	assert.False(t, c.Ambiguity.WatchSatArc)

	// Untouched keys keep their defaults
	assert.Equal(t, DefQpTropoGrad, c.TropoGrad.Qprime)
	assert.Equal(t, DefQpIono, c.Iono.Qprime)
	assert.Equal(t, DefIonoSampling, c.Iono.Sampling)
	assert.Equal(t, DefSigmaAmbiguity, c.Ambiguity.Sigma)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "no_such.yml"))
	assert.Error(t, err)

	fn := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(fn, []byte("position: [not, a, map]\n"), 0644))
	_, err = LoadConfig(fn)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	c.Tropo.Qprime = -1.0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Position.Mode = "wobbly"
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Iono.InitialEpoch = "15-01-2024"
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Iono.InitialEpoch = "2024/01/15 00:00:00"
	assert.NoError(t, c.Validate())
}

func TestConfigModels(t *testing.T) {
	models := DefaultConfig().Models()
	for _, pt := range []ParamType{
		TypeDX, TypeDY, TypeDZ,
		TypeWetTropo, TypeTropoGradN, TypeTropoGradE,
		TypeIonoL1, TypeRecBias, TypeSatBias, TypeISB, TypeIFCB,
		TypeAmbiguity,
	} {
		assert.Contains(t, models, pt, string(pt))
	}

	// Kinematic coordinates have no memory
	assert.Equal(t, 0.0, models[TypeDX].Phi())
	assert.Equal(t, SQ(DefSigmaWhiteNoise), models[TypeDX].Q())

	// Each coordinate is a distinct instance
	assert.NotSame(t, models[TypeDX], models[TypeDY])
	assert.NotSame(t, models[TypeTropoGradN], models[TypeTropoGradE])
}

func TestConfigModelsStatic(t *testing.T) {
	c := DefaultConfig()
	c.Position.Mode = PosStatic
	c.Position.Qprime = 0.01
	models := c.Models()

	dx := models[TypeDX]
	assert.Equal(t, 1.0, dx.Phi())

	dx.Prepare(gt(0), "STNA", "", nil)
	dx.Prepare(gt(30), "STNA", "", nil)
	assert.InDelta(t, 0.01*30, dx.Q(), 1e-12)
}
