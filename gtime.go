// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.12
//

package goppp

import (
	"math"
	"time"
)

// GTime is a GPS time epoch expressed as week number and seconds of week.
type GTime struct {
	Week int
	Sec  float64
}

// Seconds in one GPS week
const secWeek = 3600 * 24 * 7

// BeginningOfTime is the sentinel used as the previous epoch of an entity
// that has never been prepared. Subtracting it from any real epoch yields a
// very large elapsed time, so the first process-noise value of a random-walk
// parameter is effectively unbounded.
var BeginningOfTime = GTime{Week: -9999, Sec: 0.0}

func NewGTime(dt time.Time) *GTime {
	t := dt.Unix()
	t -= time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // Elapsed seconds since 1980/1/6 00:00:00
	return &GTime{
		Week: int(t / secWeek),
		Sec:  float64(t%secWeek) + float64(dt.Nanosecond())/1000000000,
	}
}

func (p *GTime) ToTime() time.Time {
	o := time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // GPS time starts from 1980/1/6 00:00:00
	i := int64(math.Trunc(p.Sec))
	t := int64(secWeek*p.Week) + i + o
	n := int64((p.Sec - float64(i)) * 1e9)
	return time.Unix(t, n) // Unix time is the elapsed seconds since 1970/1/1 00:00:00
}

// Sub returns the elapsed time p - b in seconds. The result is negative
// when p is earlier than b.
func (p *GTime) Sub(b GTime) float64 {
	return float64(p.Week-b.Week)*secWeek + p.Sec - b.Sec
}

// AddSec returns the epoch sec seconds after p, normalized so that
// 0 <= Sec < secWeek.
func (p *GTime) AddSec(sec float64) GTime {
	s := p.Sec + sec
	w := int(math.Floor(s / secWeek))
	return GTime{Week: p.Week + w, Sec: s - float64(w)*secWeek}
}

func (p *GTime) Less(b GTime, roundSec bool) bool {
	if p.Week == b.Week {
		if roundSec {
			return math.Round(p.Sec) < math.Round(b.Sec)
		} else {
			return p.Sec < b.Sec
		}
	} else {
		return p.Week < b.Week
	}
}

func (p *GTime) LessOrEqual(b GTime, roundSec bool) bool {
	if p.Week == b.Week {
		if roundSec {
			return math.Round(p.Sec) <= math.Round(b.Sec)
		} else {
			return p.Sec <= b.Sec
		}
	} else {
		return p.Week < b.Week
	}
}

// IsBeginning reports whether the epoch is the BeginningOfTime sentinel.
func (p *GTime) IsBeginning() bool {
	return p.Week == BeginningOfTime.Week && p.Sec == BeginningOfTime.Sec
}

func (p *GTime) Divisible(sec int) bool {
	return int(math.Round(p.Sec))%sec == 0
}
