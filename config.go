// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

package goppp

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Position parameter modes
const (
	PosKinematic = "kinematic" // Coordinates as white noise (no memory between epochs)
	PosStatic    = "static"    // Coordinates as a random walk
)

// RWOpt tunes one random walk model.
type RWOpt struct {
	Qprime float64 `yaml:"qprime"` // Process spectral density [m^2/s]
}

// IonoOpt tunes the ionospheric model and its interrupt mechanism.
type IonoOpt struct {
	Qprime          float64 `yaml:"qprime"`
	InsertInterrupt bool    `yaml:"insert_interrupt"`
	Sampling        float64 `yaml:"sampling"`      // Interrupt interval [s]
	Tolerance       float64 `yaml:"tolerance"`     // Interrupt window half-width [s]
	InitialEpoch    string  `yaml:"initial_epoch"` // "2006/01/02 15:04:05", empty for beginning of time
}

// AmbOpt tunes the phase ambiguity model.
type AmbOpt struct {
	Sigma       float64 `yaml:"sigma"`         // Reinitialization sigma [m]
	WatchSatArc bool    `yaml:"watch_sat_arc"` // Arc-watching (true) or flag-watching (false)
	CSFlagType  string  `yaml:"cs_flag_type"`  // Flag field name for flag-watching mode
}

// PosOpt tunes the receiver coordinate parameters.
type PosOpt struct {
	Mode   string  `yaml:"mode"`   // "kinematic" or "static"
	Sigma  float64 `yaml:"sigma"`  // White noise sigma for kinematic mode [m]
	Qprime float64 `yaml:"qprime"` // Spectral density for static mode [m^2/s]
}

// Config is the tuning surface of the stochastic model family. All values
// are set once before processing, not per epoch.
type Config struct {
	Position  PosOpt  `yaml:"position"`
	Tropo     RWOpt   `yaml:"tropo"`
	TropoGrad RWOpt   `yaml:"tropo_grad"`
	Iono      IonoOpt `yaml:"iono"`
	RecBias   RWOpt   `yaml:"rec_bias"`
	SatBias   RWOpt   `yaml:"sat_bias"`
	ISB       RWOpt   `yaml:"isb"`
	IFCB      RWOpt   `yaml:"ifcb"`
	Ambiguity AmbOpt  `yaml:"ambiguity"`
}

// DefaultConfig returns the default tuning, matching the defaults of the
// individual model constructors.
func DefaultConfig() *Config {
	return &Config{
		Position:  PosOpt{Mode: PosKinematic, Sigma: DefSigmaWhiteNoise, Qprime: DefQpRandomWalk},
		Tropo:     RWOpt{Qprime: DefQpTropo},
		TropoGrad: RWOpt{Qprime: DefQpTropoGrad},
		Iono: IonoOpt{
			Qprime:          DefQpIono,
			InsertInterrupt: true,
			Sampling:        DefIonoSampling,
			Tolerance:       DefIonoTolerance,
		},
		RecBias:   RWOpt{Qprime: DefQpRecBias},
		SatBias:   RWOpt{Qprime: DefQpSatBias},
		ISB:       RWOpt{Qprime: DefQpISB},
		IFCB:      RWOpt{Qprime: DefQpIFCB},
		Ambiguity: AmbOpt{Sigma: DefSigmaAmbiguity, WatchSatArc: true, CSFlagType: string(TypeCSFlag)},
	}
}

// LoadConfig reads a YAML tuning file. Keys absent from the file keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the tuning for values the models cannot accept.
func (c *Config) Validate() error {
	for _, q := range []struct {
		name string
		v    float64
	}{
		{"position.qprime", c.Position.Qprime},
		{"tropo.qprime", c.Tropo.Qprime},
		{"tropo_grad.qprime", c.TropoGrad.Qprime},
		{"iono.qprime", c.Iono.Qprime},
		{"rec_bias.qprime", c.RecBias.Qprime},
		{"sat_bias.qprime", c.SatBias.Qprime},
		{"isb.qprime", c.ISB.Qprime},
		{"ifcb.qprime", c.IFCB.Qprime},
	} {
		if q.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", q.name, q.v)
		}
	}
	if c.Position.Mode != PosKinematic && c.Position.Mode != PosStatic {
		return fmt.Errorf("position.mode must be %q or %q, got %q", PosKinematic, PosStatic, c.Position.Mode)
	}
	if c.Iono.InitialEpoch != "" {
		if _, err := time.Parse("2006/01/02 15:04:05", c.Iono.InitialEpoch); err != nil {
			return fmt.Errorf("iono.initial_epoch: %w", err)
		}
	}
	return nil
}

// Models builds the stochastic model set described by the tuning, keyed by
// parameter type. Each call returns fresh model instances; instances hold
// per-entity state and must not be shared across data streams.
func (c *Config) Models() map[ParamType]StochasticModel {
	// Each coordinate and each gradient component gets its own instance: a
	// model prepared twice at one epoch would see zero elapsed time on the
	// second call.
	pos := func() StochasticModel {
		if c.Position.Mode == PosStatic {
			rw := NewRandomWalkModel()
			rw.SetQprime(c.Position.Qprime)
			return rw
		}
		return NewWhiteNoiseModel(c.Position.Sigma)
	}

	tropo := NewTropoRandomWalkModel()
	tropo.SetQprime(c.Tropo.Qprime)
	gradN := NewTropoGradRandomWalkModel()
	gradN.SetQprime(c.TropoGrad.Qprime)
	gradE := NewTropoGradRandomWalkModel()
	gradE.SetQprime(c.TropoGrad.Qprime)

	iono := NewIonoRandomWalkModel()
	iono.SetQprime(c.Iono.Qprime)
	iono.SetInsertInterrupt(c.Iono.InsertInterrupt)
	iono.SetSampling(c.Iono.Sampling)
	iono.SetTolerance(c.Iono.Tolerance)
	if c.Iono.InitialEpoch != "" {
		// Validate() has already checked the format
		if t, err := time.Parse("2006/01/02 15:04:05", c.Iono.InitialEpoch); err == nil {
			iono.SetInitialEpoch(*NewGTime(t.UTC()))
		}
	}

	recBias := NewRecBiasRandomWalkModel()
	recBias.SetQprime(c.RecBias.Qprime)
	satBias := NewSatBiasRandomWalkModel()
	satBias.SetQprime(c.SatBias.Qprime)
	isb := NewISBRandomWalkModel()
	isb.SetQprime(c.ISB.Qprime)
	ifcb := NewIFCBRandomWalkModel()
	ifcb.SetQprime(c.IFCB.Qprime)

	amb := NewPhaseAmbiguityModel()
	amb.SetSigma(c.Ambiguity.Sigma)
	amb.SetWatchSatArc(c.Ambiguity.WatchSatArc)
	if c.Ambiguity.CSFlagType != "" {
		amb.SetCSFlagType(ParamType(c.Ambiguity.CSFlagType))
	}

	return map[ParamType]StochasticModel{
		TypeDX:         pos(),
		TypeDY:         pos(),
		TypeDZ:         pos(),
		TypeWetTropo:   tropo,
		TypeTropoGradN: gradN,
		TypeTropoGradE: gradE,
		TypeIonoL1:     iono,
		TypeRecBias:    recBias,
		TypeSatBias:    satBias,
		TypeISB:        isb,
		TypeIFCB:       ifcb,
		TypeAmbiguity:  amb,
	}
}
