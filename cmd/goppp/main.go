// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

// Process-noise trace driver: builds the stochastic model set from a tuning
// file, tracks a synthetic station/satellite constellation through an epoch
// loop and prints how each parameter's uncertainty evolves, including the
// ambiguity reset caused by a satellite arc change.

package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"

	m "github.com/mkhts/goppp"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		os.Exit(1)
	}
}

type cmdOpt struct {
	cfgFn string
	stas  m.StaVar
	sats  m.SatVar
	n     int
	ti    int
	t0    time.Time
	slip  int
	dbg   int
}

// Parse command line arguments
func parseArgs() (cmdOpt, error) {
	args := cmdOpt{}
	t0 := ""
	flag.StringVar(&args.cfgFn, "c", "", "stochastic model tuning file (YAML, optional)")
	flag.Var(&args.stas, "sta", "comma separated station names (default ROVR)")
	flag.Var(&args.sats, "sat", "comma separated satellite names (default G05,G12,G21,E03)")
	flag.IntVar(&args.n, "n", 120, "number of epochs")
	flag.IntVar(&args.ti, "ti", 30, "epoch interval [s]")
	flag.StringVar(&t0, "t0", "2025/10/01 00:00:00", "start time (UTC)")
	flag.IntVar(&args.slip, "slip", 60, "epoch index to change the first satellite's arc number (0: off)")
	flag.IntVar(&args.dbg, "dbg", 0, "debug level (0-2)")
	flag.Parse()

	if len(args.stas) == 0 {
		args.stas = m.StaVar{"ROVR"}
	}
	if len(args.sats) == 0 {
		args.sats = m.SatVar{"G05", "G12", "G21", "E03"}
	}
	var ts m.TimeStr
	if err := ts.UnmarshalText([]byte(t0)); err != nil {
		return args, fmt.Errorf("invalid -t0: %w", err)
	}
	args.t0 = time.Time(ts).UTC()
	if args.n <= 0 || args.ti <= 0 {
		return args, fmt.Errorf("-n and -ti must be positive")
	}
	return args, nil
}

// Main application processing
func runApplication(args cmdOpt) error {

	logger, err := newLogger(args.dbg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Load the tuning file
	cfg := m.DefaultConfig()
	if len(args.cfgFn) > 0 {
		cfg, err = m.LoadConfig(args.cfgFn)
		if err != nil {
			return fmt.Errorf("failed to load tuning: %w", err)
		}
	}

	// Build the estimator and bind one model per parameter type
	est := m.NewEstimator(logger)
	for pt, mdl := range cfg.Models() {
		est.SetModel(pt, mdl)
	}

	if err := addParams(est, args); err != nil {
		return err
	}
	logger.Info("tracking started",
		zap.Int("params", est.Len()),
		zap.Int("epochs", args.n),
		zap.Int("interval", args.ti))

	return processEpochs(est, args, logger)
}

// Create the logger for the given debug level
func newLogger(dbg int) (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	switch {
	case dbg <= 0:
		c.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case dbg == 1:
		c.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return c.Build()
}

// Register the tracked parameters: coordinates, troposphere and receiver
// bias per station, satellite bias per satellite, ionosphere and ambiguity
// per station and satellite.
func addParams(est *m.Estimator, args cmdOpt) error {
	const varP = 30.0 * 30.0
	for _, sta := range args.stas {
		for _, pt := range []m.ParamType{m.TypeDX, m.TypeDY, m.TypeDZ, m.TypeWetTropo, m.TypeRecBias} {
			if err := est.AddParam(m.ParamKey{Type: pt, Sta: sta}, 0, varP); err != nil {
				return err
			}
		}
	}
	for _, sat := range args.sats {
		if err := est.AddParam(m.ParamKey{Type: m.TypeSatBias, Sat: sat}, 0, varP); err != nil {
			return err
		}
	}
	for _, sta := range args.stas {
		for _, sat := range args.sats {
			for _, pt := range []m.ParamType{m.TypeIonoL1, m.TypeAmbiguity} {
				if err := est.AddParam(m.ParamKey{Type: pt, Sta: sta, Sat: sat}, 0, varP); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Process epochs
func processEpochs(est *m.Estimator, args cmdOpt, logger *zap.Logger) error {

	rng := rand.New(rand.NewSource(1))
	printHeader(est)

	for i := 0; i < args.n; i++ {
		epoch := m.NewGTime(args.t0.Add(time.Duration(i*args.ti) * time.Second))

		// Arc numbers as the upstream arc marker would deliver them, with
		// one injected discontinuity
		frame := m.NewEpochFrame(*epoch)
		for _, sta := range args.stas {
			for _, sat := range args.sats {
				arc := 1.0
				if args.slip > 0 && sat == args.sats[0] && i >= args.slip {
					arc = 2.0
				}
				frame.Put(sta, sat, m.TypeSatArc, arc)
			}
		}

		est.TimeUpdate(*epoch, frame)

		// Pseudo position observations keep the filter busy between the
		// pure propagation steps
		if err := observePosition(est, args.stas[0], rng); err != nil {
			logger.Warn("measurement update skipped", zap.Error(err))
		}

		printEpoch(est, *epoch)
	}
	return nil
}

// Direct pseudo observations of the first station's coordinates
func observePosition(est *m.Estimator, sta m.StationType, rng *rand.Rand) error {
	const sigma = 0.5
	keys := est.Keys()
	H := mat.NewDense(3, len(keys), nil)
	for i, pt := range []m.ParamType{m.TypeDX, m.TypeDY, m.TypeDZ} {
		for j, k := range keys {
			if k.Type == pt && k.Sta == sta {
				H.Set(i, j, 1)
			}
		}
	}
	R := mat.NewDense(3, 3, nil)
	dy := mat.NewVecDense(3, nil)
	for i := 0; i < 3; i++ {
		R.Set(i, i, sigma*sigma)
		dy.SetVec(i, rng.NormFloat64()*sigma)
	}
	return est.MeasUpdate(H, R, dy)
}

// Print the trace header
func printHeader(est *m.Estimator) {
	fmt.Printf("%% params: %d\n", est.Len())
	fmt.Printf("%% time                     type        sta   sat   est        sigma\n")
}

// Print one trace line per parameter
func printEpoch(est *m.Estimator, epoch m.GTime) {
	ts := epoch.ToTime().UTC().Format("2006-01-02T15:04:05.000")
	for _, k := range est.Keys() {
		v, p, _ := est.State(k)
		fmt.Printf("%s  %-10s  %-4s  %-3s  %9.4f  %12.4e\n", ts, k.Type, k.Sta, k.Sat, v, math.Sqrt(p))
	}
}
