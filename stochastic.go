// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

// Stochastic models supplying the state transition coefficient (Phi) and the
// process noise variance (Q) used to propagate each filter parameter from one
// epoch to the next.

package goppp

// StochasticModel is the capability the estimator consumes for every tracked
// parameter. For each epoch the estimator calls Prepare exactly once and then
// reads Phi and Q, in that order.
//
// Phi and Q always reflect the most recently prepared entity. Models keyed by
// station or satellite return values that are only valid for the station and
// satellite of the immediately preceding Prepare call; callers must not
// interleave reads across entities without re-preparing.
//
// Models store internal per-entity state, so one model instance must be
// driven by exactly one stream of epoch-ordered calls. None of the methods
// are safe for concurrent use.
type StochasticModel interface {
	// Phi returns the state transition coefficient for the current epoch
	// transition.
	Phi() float64

	// Q returns the process noise variance to add to the parameter's
	// uncertainty for the current epoch transition. Q is always >= 0.
	Q() float64

	// Prepare updates the model's internal state for the given epoch,
	// station, satellite and epoch record. Calling Phi or Q without a prior
	// Prepare yields the model's initial configuration, never undefined
	// behavior.
	Prepare(epoch GTime, sta StationType, sat SatType, data EpochData)
}

// elapsedSec returns the elapsed seconds curr - prev clamped to zero.
// Out-of-order or duplicate epochs therefore produce zero process noise
// instead of a negative variance. The clamp is silent; callers owning the
// epoch ordering contract may add their own diagnostics.
func elapsedSec(curr, prev GTime) float64 {
	dt := curr.Sub(prev)
	if dt < 0 {
		return 0
	}
	return dt
}

// entityClock holds the epoch history of one tracked entity. The zero value
// is not valid; use newEntityClock so the previous epoch starts at the
// beginning-of-time sentinel.
type entityClock struct {
	previousTime GTime // Epoch of previous measurement
	currentTime  GTime // Epoch of current measurement
}

func newEntityClock() *entityClock {
	return &entityClock{
		previousTime: BeginningOfTime,
		currentTime:  BeginningOfTime,
	}
}

// step advances the clock to epoch and returns the clamped elapsed time in
// seconds since the previous measurement.
func (c *entityClock) step(epoch GTime) float64 {
	c.currentTime = epoch
	dt := elapsedSec(c.currentTime, c.previousTime)
	c.previousTime = c.currentTime
	return dt
}

// clockMap holds one entityClock per tracked entity, created lazily on
// first reference. Entries are never removed, so the map grows with the set
// of entities ever seen; eviction is the caller's responsibility.
type clockMap[K comparable] map[K]*entityClock

// at returns the clock for key, creating it if needed.
func (m clockMap[K]) at(key K) *entityClock {
	c, ok := m[key]
	if !ok {
		c = newEntityClock()
		m[key] = c
	}
	return c
}

// step advances the clock for key to epoch and returns the clamped elapsed
// seconds for that entity. Other entities are untouched.
func (m clockMap[K]) step(key K, epoch GTime) float64 {
	return m.at(key).step(epoch)
}

// ConstantModel keeps a parameter constant between epochs: Phi = 1, Q = 0.
// It is the behavior an estimator gets for a parameter with no bound model.
type ConstantModel struct{}

func (m *ConstantModel) Phi() float64 { return 1.0 }

func (m *ConstantModel) Q() float64 { return 0.0 }

func (m *ConstantModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {}

// RandomWalkModel models a parameter as a pure random walk with a single
// global entity: Phi = 1 and Q grows linearly with elapsed time.
//
// The default spectral density is extremely large, so a freshly constructed
// model yields effectively unbounded process noise; this is the intended
// mechanism for wide-open uncertainty on the first appearance of a
// parameter such as a receiver coordinate.
//
// A RandomWalkModel stores its epoch history, so the same instance must not
// be used to process different data streams.
type RandomWalkModel struct {
	qprime   float64 // Process spectral density [m^2/s]
	clock    entityClock
	variance float64
}

// NewRandomWalkModel creates a random walk model with the default, very
// large spectral density.
func NewRandomWalkModel() *RandomWalkModel {
	return &RandomWalkModel{
		qprime: DefQpRandomWalk,
		clock:  *newEntityClock(),
	}
}

// SetQprime sets the process spectral density, d(variance)/d(time).
//
// Beware of units: spectral density is sigma*sigma/time with sigma in
// meters and time in SECONDS. Changing it only affects epochs prepared
// afterwards.
func (m *RandomWalkModel) SetQprime(qp float64) {
	m.qprime = qp
}

// SetPreviousTime sets the epoch of the previous measurement.
func (m *RandomWalkModel) SetPreviousTime(prevTime GTime) {
	m.clock.previousTime = prevTime
}

// SetCurrentTime sets the epoch of the current measurement.
func (m *RandomWalkModel) SetCurrentTime(currTime GTime) {
	m.clock.currentTime = currTime
}

func (m *RandomWalkModel) Phi() float64 { return 1.0 }

func (m *RandomWalkModel) Q() float64 { return m.variance }

func (m *RandomWalkModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {
	m.variance = m.qprime * m.clock.step(epoch)
}

// WhiteNoiseModel models a parameter with no memory between epochs:
// Phi = 0, so the previous estimate contributes nothing, and Q is a fixed
// variance resetting the uncertainty every epoch. The default sigma is
// deliberately enormous.
type WhiteNoiseModel struct {
	variance float64
}

// NewWhiteNoiseModel creates a white noise model from the standard
// deviation sigma of the process.
func NewWhiteNoiseModel(sigma float64) *WhiteNoiseModel {
	return &WhiteNoiseModel{variance: sigma * sigma}
}

// SetSigma sets the white noise standard deviation.
func (m *WhiteNoiseModel) SetSigma(sigma float64) {
	m.variance = sigma * sigma
}

func (m *WhiteNoiseModel) Phi() float64 { return 0.0 }

func (m *WhiteNoiseModel) Q() float64 { return m.variance }

func (m *WhiteNoiseModel) Prepare(epoch GTime, sta StationType, sat SatType, data EpochData) {}
