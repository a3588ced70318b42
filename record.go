// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.18
//

package goppp

import (
	"golang.org/x/exp/slices"
)

// EpochData holds the values of one station (and, when nested in an
// EpochFrame, one satellite) for one epoch, keyed by parameter type.
// Auxiliary signals such as the satellite arc number and the cycle slip
// flag travel in the same map as observation-derived values.
type EpochData map[ParamType]float64

// Value looks up one field. The second result is false when the field is
// absent; absence is never an error for this package.
func (d EpochData) Value(pt ParamType) (float64, bool) {
	if d == nil {
		return 0, false
	}
	v, ok := d[pt]
	return v, ok
}

// EpochFrame carries the per-station, per-satellite records of one epoch.
// Records scoped to a station alone (troposphere, receiver bias, ISB) are
// stored under the empty satellite name.
type EpochFrame struct {
	Time GTime
	Data map[StationType]map[SatType]EpochData
}

func NewEpochFrame(t GTime) *EpochFrame {
	return &EpochFrame{
		Time: t,
		Data: map[StationType]map[SatType]EpochData{},
	}
}

// At returns the record for the given station and satellite. A missing
// record yields nil, which behaves as an empty EpochData.
func (f *EpochFrame) At(sta StationType, sat SatType) EpochData {
	if f == nil {
		return nil
	}
	if ss, ok := f.Data[sta]; ok {
		return ss[sat]
	}
	return nil
}

// Put sets one field, creating the intermediate maps as needed.
func (f *EpochFrame) Put(sta StationType, sat SatType, pt ParamType, v float64) {
	ss, ok := f.Data[sta]
	if !ok {
		ss = map[SatType]EpochData{}
		f.Data[sta] = ss
	}
	d, ok := ss[sat]
	if !ok {
		d = EpochData{}
		ss[sat] = d
	}
	d[pt] = v
}

// Stations returns the station names present in the frame, sorted.
func (f *EpochFrame) Stations() []StationType {
	s := make([]StationType, 0, len(f.Data))
	for k := range f.Data {
		s = append(s, k)
	}
	slices.Sort(s)
	return s
}

// Sats returns the satellite names present for one station, excluding the
// station-scoped record, sorted in system order.
func (f *EpochFrame) Sats(sta StationType) []SatType {
	s := make([]SatType, 0, len(f.Data[sta]))
	for k := range f.Data[sta] {
		if k != "" {
			s = append(s, k)
		}
	}
	return Sorted(s)
}
