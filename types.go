// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.18
//

package goppp

import (
	"sort"
	"strconv"
)

// Type representing satellite name like "G10"
type SatType string

// Type representing satellite system like 'G'
type SysType byte

// Type representing a station (receiver) name like "STNA"
type StationType string

// Extract satellite system from satellite name
func (p *SatType) Sys() SysType {
	if len(*p) == 0 {
		return 0
	}
	return SysType((*p)[0])
}

// Check validity of satellite system
func (p *SysType) IsValid() bool {
	return *p == 'G' || *p == 'J' || *p == 'E' || *p == 'R' || *p == 'C' || *p == 'S'
}

// Extract satellite number from satellite name
func (p *SatType) Num() int {
	if len(*p) < 3 {
		return 0
	}
	i, err := strconv.Atoi(string((*p)[1:3]))
	if err != nil {
		return 0
	}
	return i
}

// ParamType identifies one kind of scalar tracked by the filter, or one of
// the auxiliary fields carried alongside observations in an epoch record.
type ParamType string

const (
	// Estimated parameters
	TypeDX         ParamType = "dx"         // Receiver coordinate X
	TypeDY         ParamType = "dy"         // Receiver coordinate Y
	TypeDZ         ParamType = "dz"         // Receiver coordinate Z
	TypeWetTropo   ParamType = "wetTropo"   // Zenith wet tropospheric delay
	TypeTropoGradN ParamType = "tropoGradN" // North tropospheric gradient
	TypeTropoGradE ParamType = "tropoGradE" // East tropospheric gradient
	TypeIonoL1     ParamType = "ionoL1"     // Slant ionospheric delay on L1
	TypeRecBias    ParamType = "recBias"    // Receiver hardware bias
	TypeSatBias    ParamType = "satBias"    // Satellite hardware bias
	TypeISB        ParamType = "isb"        // Inter-system bias
	TypeIFCB       ParamType = "ifcb"       // Inter-frequency bias (GLONASS FDMA)
	TypeAmbiguity  ParamType = "ambL1"      // Carrier-phase ambiguity on L1

	// Auxiliary fields read from epoch records
	TypeSatArc ParamType = "satArc" // Satellite arc number set by the upstream arc marker
	TypeCSFlag ParamType = "csL1"   // Cycle slip flag set by the upstream slip detector
)

// ParamKey identifies one scalar parameter in the filter state. Station-only
// parameters leave Sat empty; satellite-only parameters leave Sta empty.
type ParamKey struct {
	Type ParamType
	Sta  StationType
	Sat  SatType
}

// Sort the list of satellite names
func Sorted(s []SatType) []SatType {
	s2 := make([]SatType, len(s))
	copy(s2, s)
	sort.Slice(s2, func(i, j int) bool {
		m := map[byte]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5}
		if m[s2[i][0]] == m[s2[j][0]] {
			return s2[i] < s2[j]
		} else {
			return m[s2[i][0]] < m[s2[j][0]]
		}
	})
	return s2
}
