// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

package goppp

// PhaseAmbiguityModel models a carrier-phase ambiguity: constant between
// cycle slips, white noise when a cycle slip happens. While tracking is
// continuous Phi = 1 and Q = 0; on a slip Phi = 0, discarding all
// correlation with the prior estimate, and Q is the reinitialization
// variance.
//
// By default the model watches the satellite arc number (TypeSatArc) the
// upstream arc marker writes into each record: a changed arc number for a
// (station, satellite) pair flags a slip. Call SetWatchSatArc(false) to use
// the cycle slip flag field directly instead; the flag type defaults to
// TypeCSFlag and can be changed with SetCSFlagType.
type PhaseAmbiguityModel struct {
	variance    float64   // Reinitialization variance
	cycleSlip   bool      // Whether there is a cycle slip at the current epoch
	watchSatArc bool      // Watch arc numbers instead of the cycle slip flag
	csFlagType  ParamType // Field read in flag-watching mode

	// Last seen arc number per station and satellite. Grows with the set of
	// pairs ever observed; never pruned.
	satArcMap map[StationType]map[SatType]float64
}

// NewPhaseAmbiguityModel creates an ambiguity model with the default
// reinitialization sigma, watching satellite arcs.
func NewPhaseAmbiguityModel() *PhaseAmbiguityModel {
	return &PhaseAmbiguityModel{
		variance:    DefSigmaAmbiguity * DefSigmaAmbiguity,
		watchSatArc: true,
		csFlagType:  TypeCSFlag,
		satArcMap:   map[StationType]map[SatType]float64{},
	}
}

// SetSigma sets the reinitialization standard deviation applied when a
// cycle slip is detected.
func (m *PhaseAmbiguityModel) SetSigma(sigma float64) {
	m.variance = sigma * sigma
}

// SetCS feeds the model an externally detected cycle slip state. It is
// overwritten by Prepare in arc-watching mode, and in flag-watching mode
// whenever the record carries the flag field.
func (m *PhaseAmbiguityModel) SetCS(cs bool) {
	m.cycleSlip = cs
}

// CS returns the cycle slip state of the last prepared epoch.
func (m *PhaseAmbiguityModel) CS() bool {
	return m.cycleSlip
}

// SetWatchSatArc selects between arc-watching (true, the default) and
// flag-watching (false) cycle slip detection.
func (m *PhaseAmbiguityModel) SetWatchSatArc(watchArc bool) {
	m.watchSatArc = watchArc
}

// SetCSFlagType sets the record field read in flag-watching mode. It has no
// effect while the model is watching satellite arcs.
func (m *PhaseAmbiguityModel) SetCSFlagType(pt ParamType) {
	m.csFlagType = pt
}

// CSFlagType returns the record field read in flag-watching mode.
func (m *PhaseAmbiguityModel) CSFlagType() ParamType {
	return m.csFlagType
}

func (m *PhaseAmbiguityModel) Phi() float64 {
	if m.cycleSlip {
		return 0.0
	}
	return 1.0
}

func (m *PhaseAmbiguityModel) Q() float64 {
	if m.cycleSlip {
		return m.variance
	}
	return 0.0
}

func (m *PhaseAmbiguityModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.checkCS(sta, sat, data)
}

// checkCS decides whether a cycle slip happened for the given station and
// satellite. A record missing the watched field carries no new information
// and leaves the slip state as previously set.
func (m *PhaseAmbiguityModel) checkCS(sta StationType, sat SatType, data EpochData) {
	if m.watchSatArc {
		arc, ok := data.Value(TypeSatArc)
		if !ok {
			return
		}
		arcs, ok := m.satArcMap[sta]
		if !ok {
			arcs = map[SatType]float64{}
			m.satArcMap[sta] = arcs
		}
		prev, seen := arcs[sat]
		if !seen {
			// First sight of this pair: record the arc, no slip.
			m.cycleSlip = false
		} else {
			m.cycleSlip = arc != prev
		}
		arcs[sat] = arc
		return
	}
	if v, ok := data.Value(m.csFlagType); ok {
		m.cycleSlip = v != 0.0
	}
}
