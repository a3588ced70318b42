// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

package goppp

// TropoRandomWalkModel models the zenith wet tropospheric delay as a random
// walk, tracking multiple stations simultaneously with one clock per
// station.
//
// Q returned after Prepare corresponds to the station of that Prepare call
// only. Station clocks are never evicted.
type TropoRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[StationType]
	variance float64
}

// NewTropoRandomWalkModel creates a troposphere model with the default
// spectral density of 5e-8 m*m/s (about 1.8 cm*cm/h).
func NewTropoRandomWalkModel() *TropoRandomWalkModel {
	return &TropoRandomWalkModel{
		qprime: DefQpTropo,
		clocks: clockMap[StationType]{},
	}
}

// SetQprime sets the process spectral density for all stations. Units are
// sigma*sigma per SECOND. Epochs already prepared are unaffected.
func (m *TropoRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// station.
func (m *TropoRandomWalkModel) SetPreviousTime(sta StationType, prevTime GTime) {
	m.clocks.at(sta).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one station.
func (m *TropoRandomWalkModel) SetCurrentTime(sta StationType, currTime GTime) {
	m.clocks.at(sta).currentTime = currTime
}

func (m *TropoRandomWalkModel) Phi() float64 { return 1.0 }

func (m *TropoRandomWalkModel) Q() float64 { return m.variance }

func (m *TropoRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sta, epoch)
}

// TropoGradRandomWalkModel models a tropospheric gradient component as a
// random walk per station. Identical to TropoRandomWalkModel except for the
// much slower default spectral density of the directional component.
type TropoGradRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[StationType]
	variance float64
}

// NewTropoGradRandomWalkModel creates a gradient model with the default
// spectral density of 5e-10 m*m/s.
func NewTropoGradRandomWalkModel() *TropoGradRandomWalkModel {
	return &TropoGradRandomWalkModel{
		qprime: DefQpTropoGrad,
		clocks: clockMap[StationType]{},
	}
}

// SetQprime sets the process spectral density for all stations.
func (m *TropoGradRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// station.
func (m *TropoGradRandomWalkModel) SetPreviousTime(sta StationType, prevTime GTime) {
	m.clocks.at(sta).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one station.
func (m *TropoGradRandomWalkModel) SetCurrentTime(sta StationType, currTime GTime) {
	m.clocks.at(sta).currentTime = currTime
}

func (m *TropoGradRandomWalkModel) Phi() float64 { return 1.0 }

func (m *TropoGradRandomWalkModel) Q() float64 { return m.variance }

func (m *TropoGradRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sta, epoch)
}
