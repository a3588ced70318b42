// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

package goppp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGTimeSub(t *testing.T) {
	a := GTime{Week: 2300, Sec: 100.0}
	b := GTime{Week: 2300, Sec: 40.5}
	assert.InDelta(t, 59.5, a.Sub(b), 1e-9)
	assert.InDelta(t, -59.5, b.Sub(a), 1e-9)

	// Across a week boundary
	c := GTime{Week: 2301, Sec: 10.0}
	assert.InDelta(t, 604800-90, c.Sub(a), 1e-9)
}

func TestGTimeSubBeginningOfTime(t *testing.T) {
	epoch := NewGTime(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	dt := epoch.Sub(BeginningOfTime)
	// The sentinel is far enough in the past that any real epoch sees an
	// enormous elapsed time.
	assert.Greater(t, dt, 1e9)
	assert.True(t, BeginningOfTime.IsBeginning())
	assert.False(t, epoch.IsBeginning())
}

func TestGTimeAddSec(t *testing.T) {
	a := GTime{Week: 2300, Sec: 604700.0}
	b := a.AddSec(250.0)
	assert.Equal(t, 2301, b.Week)
	assert.InDelta(t, 150.0, b.Sec, 1e-9)
	assert.InDelta(t, 250.0, b.Sub(a), 1e-9)

	c := b.AddSec(-250.0)
	assert.Equal(t, a.Week, c.Week)
	assert.InDelta(t, a.Sec, c.Sec, 1e-9)
}

func TestGTimeRoundTrip(t *testing.T) {
	dt := time.Date(2025, 10, 1, 12, 30, 15, 0, time.UTC)
	g := NewGTime(dt)
	assert.Equal(t, dt.Unix(), g.ToTime().Unix())
}

func TestGTimeOrdering(t *testing.T) {
	a := GTime{Week: 2300, Sec: 100.0}
	b := GTime{Week: 2300, Sec: 100.4}
	assert.True(t, a.Less(b, false))
	assert.False(t, a.Less(b, true)) // Rounds to the same second
	assert.True(t, a.LessOrEqual(b, true))
	assert.True(t, BeginningOfTime.Less(a, false))
}

func TestGTimeDivisible(t *testing.T) {
	a := GTime{Week: 2300, Sec: 90.0}
	assert.True(t, a.Divisible(30))
	assert.False(t, a.Divisible(7))
}
