// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

// Random walk models for the hardware bias family: receiver bias, satellite
// bias, inter-system bias (ISB) and inter-frequency bias (IFCB). They share
// one algorithm and differ in entity key granularity and default spectral
// density.

package goppp

// RecBiasRandomWalkModel models the receiver uncalibrated hardware delay as
// a random walk per station. The bias is shared by all satellites observed
// at that station.
type RecBiasRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[StationType]
	variance float64
}

// NewRecBiasRandomWalkModel creates a receiver bias model with the default
// spectral density of 1e-4 m*m/s.
func NewRecBiasRandomWalkModel() *RecBiasRandomWalkModel {
	return &RecBiasRandomWalkModel{
		qprime: DefQpRecBias,
		clocks: clockMap[StationType]{},
	}
}

// SetQprime sets the process spectral density for all stations.
func (m *RecBiasRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// station.
func (m *RecBiasRandomWalkModel) SetPreviousTime(sta StationType, prevTime GTime) {
	m.clocks.at(sta).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one station.
func (m *RecBiasRandomWalkModel) SetCurrentTime(sta StationType, currTime GTime) {
	m.clocks.at(sta).currentTime = currTime
}

func (m *RecBiasRandomWalkModel) Phi() float64 { return 1.0 }

func (m *RecBiasRandomWalkModel) Q() float64 { return m.variance }

func (m *RecBiasRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sta, epoch)
}

// SatBiasRandomWalkModel models the satellite uncalibrated hardware delay
// as a random walk per satellite. The bias is assumed identical for all
// stations observing that satellite.
type SatBiasRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[SatType]
	variance float64
}

// NewSatBiasRandomWalkModel creates a satellite bias model with the default
// spectral density of 3e-6 m*m/s (about 10 cm*cm/h).
func NewSatBiasRandomWalkModel() *SatBiasRandomWalkModel {
	return &SatBiasRandomWalkModel{
		qprime: DefQpSatBias,
		clocks: clockMap[SatType]{},
	}
}

// SetQprime sets the process spectral density for all satellites.
func (m *SatBiasRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// satellite.
func (m *SatBiasRandomWalkModel) SetPreviousTime(sat SatType, prevTime GTime) {
	m.clocks.at(sat).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one
// satellite.
func (m *SatBiasRandomWalkModel) SetCurrentTime(sat SatType, currTime GTime) {
	m.clocks.at(sat).currentTime = currTime
}

func (m *SatBiasRandomWalkModel) Phi() float64 { return 1.0 }

func (m *SatBiasRandomWalkModel) Q() float64 { return m.variance }

func (m *SatBiasRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sat, epoch)
}

// ISBRandomWalkModel models the inter-system bias between GNSS
// constellations as a random walk per station. Designed mainly for BDS and
// GAL against GPS; a GLONASS ISB only fits when FDMA inter-frequency biases
// are handled elsewhere (see IFCBRandomWalkModel).
type ISBRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[StationType]
	variance float64
}

// NewISBRandomWalkModel creates an inter-system bias model with the default
// spectral density of 9e-4 m*m/s.
func NewISBRandomWalkModel() *ISBRandomWalkModel {
	return &ISBRandomWalkModel{
		qprime: DefQpISB,
		clocks: clockMap[StationType]{},
	}
}

// SetQprime sets the process spectral density for all stations.
func (m *ISBRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// station.
func (m *ISBRandomWalkModel) SetPreviousTime(sta StationType, prevTime GTime) {
	m.clocks.at(sta).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one station.
func (m *ISBRandomWalkModel) SetCurrentTime(sta StationType, currTime GTime) {
	m.clocks.at(sta).currentTime = currTime
}

func (m *ISBRandomWalkModel) Phi() float64 { return 1.0 }

func (m *ISBRandomWalkModel) Q() float64 { return m.variance }

func (m *ISBRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(sta, epoch)
}

// ifcbKey identifies one station and satellite pair.
type ifcbKey struct {
	Sta StationType
	Sat SatType
}

// IFCBRandomWalkModel models the GLONASS FDMA inter-frequency bias as a
// random walk keyed by station and satellite, since the bias depends on the
// frequency channel of each satellite as seen by each receiver.
type IFCBRandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clocks   clockMap[ifcbKey]
	variance float64
}

// NewIFCBRandomWalkModel creates an inter-frequency bias model with the
// default spectral density of 1e-4 m*m/s.
func NewIFCBRandomWalkModel() *IFCBRandomWalkModel {
	return &IFCBRandomWalkModel{
		qprime: DefQpIFCB,
		clocks: clockMap[ifcbKey]{},
	}
}

// SetQprime sets the process spectral density for all pairs.
func (m *IFCBRandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement for one
// station and satellite pair.
func (m *IFCBRandomWalkModel) SetPreviousTime(sta StationType, sat SatType, prevTime GTime) {
	m.clocks.at(ifcbKey{sta, sat}).previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement for one station
// and satellite pair.
func (m *IFCBRandomWalkModel) SetCurrentTime(sta StationType, sat SatType, currTime GTime) {
	m.clocks.at(ifcbKey{sta, sat}).currentTime = currTime
}

func (m *IFCBRandomWalkModel) Phi() float64 { return 1.0 }

func (m *IFCBRandomWalkModel) Q() float64 { return m.variance }

func (m *IFCBRandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clocks.step(ifcbKey{sta, sat}, epoch)
}
