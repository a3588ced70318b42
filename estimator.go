// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.2
//

// Implements the recursive estimator that consumes the stochastic models.
// The state vector grows and shrinks with the set of tracked parameters;
// each epoch transition is driven by the Phi/Q values of the model bound to
// each parameter's type.

package goppp

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Estimator is a Kalman-style recursive least squares estimator over a
// dynamically keyed set of scalar parameters.
//
// For every epoch the caller runs TimeUpdate, which invokes Prepare on the
// stochastic model bound to each parameter's type and propagates estimate
// and covariance with the returned Phi/Q, then MeasUpdate with the design
// matrix, observation covariance and prefit residuals produced upstream.
//
// An Estimator is not safe for concurrent use.
type Estimator struct {
	keys   []ParamKey
	index  map[ParamKey]int
	x      *mat.VecDense
	P      *mat.Dense
	models map[ParamType]StochasticModel
	epoch  GTime
	logger *zap.Logger
}

// Shared fallback for parameter types with no bound model
var constModel = &ConstantModel{}

// NewEstimator creates an empty estimator. A nil logger disables logging.
func NewEstimator(logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		index:  map[ParamKey]int{},
		x:      mat.NewVecDense(1, nil), // Replaced on first AddParam; gonum forbids empty vectors
		P:      mat.NewDense(1, 1, nil),
		models: map[ParamType]StochasticModel{},
		epoch:  BeginningOfTime,
		logger: logger,
	}
}

// SetModel binds a stochastic model to a parameter type. Parameters of an
// unbound type are propagated as constants (Phi = 1, Q = 0).
//
// The model keeps per-entity state across epochs, so it must not be shared
// with another estimator or driven out of band.
func (e *Estimator) SetModel(pt ParamType, m StochasticModel) {
	e.models[pt] = m
}

// Model returns the model bound to a parameter type, or nil.
func (e *Estimator) Model(pt ParamType) StochasticModel {
	return e.models[pt]
}

// Len returns the number of tracked parameters.
func (e *Estimator) Len() int {
	return len(e.keys)
}

// Epoch returns the epoch of the last time update.
func (e *Estimator) Epoch() GTime {
	return e.epoch
}

// Keys returns the tracked parameter keys in state vector order.
func (e *Estimator) Keys() []ParamKey {
	return slices.Clone(e.keys)
}

// Has reports whether a parameter is tracked.
func (e *Estimator) Has(key ParamKey) bool {
	_, ok := e.index[key]
	return ok
}

// State returns the estimate and variance of one parameter.
func (e *Estimator) State(key ParamKey) (val, variance float64, ok bool) {
	i, ok := e.index[key]
	if !ok {
		return 0, 0, false
	}
	return e.x.AtVec(i), e.P.At(i, i), true
}

// AddParam starts tracking a parameter with the given initial estimate and
// variance. Cross covariances with existing parameters start at zero.
func (e *Estimator) AddParam(key ParamKey, x0, var0 float64) error {
	if _, ok := e.index[key]; ok {
		return fmt.Errorf("parameter already tracked: %+v", key)
	}
	n := len(e.keys)
	x := mat.NewVecDense(n+1, nil)
	P := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, e.x.AtVec(i))
		for j := 0; j < n; j++ {
			P.Set(i, j, e.P.At(i, j))
		}
	}
	x.SetVec(n, x0)
	P.Set(n, n, var0)
	e.keys = append(e.keys, key)
	e.index[key] = n
	e.x = x
	e.P = P
	return nil
}

// RemoveParam stops tracking a parameter, splicing its row and column out
// of the covariance. Cross covariances between the survivors are kept.
// Entity state held inside the stochastic models is deliberately not
// touched, so a parameter re-added later continues the entity's epoch
// history.
func (e *Estimator) RemoveParam(key ParamKey) bool {
	k, ok := e.index[key]
	if !ok {
		return false
	}
	n := len(e.keys)
	if n == 1 {
		e.keys = nil
		e.index = map[ParamKey]int{}
		e.x = mat.NewVecDense(1, nil)
		e.P = mat.NewDense(1, 1, nil)
		return true
	}
	x := mat.NewVecDense(n-1, nil)
	P := mat.NewDense(n-1, n-1, nil)
	for i, ii := 0, 0; i < n; i++ {
		if i == k {
			continue
		}
		x.SetVec(ii, e.x.AtVec(i))
		for j, jj := 0, 0; j < n; j++ {
			if j == k {
				continue
			}
			P.Set(ii, jj, e.P.At(i, j))
			jj++
		}
		ii++
	}
	e.keys = slices.Delete(e.keys, k, k+1)
	delete(e.index, key)
	for i, kk := range e.keys {
		e.index[kk] = i
	}
	e.x = x
	e.P = P
	return true
}

// TimeUpdate propagates every tracked parameter to the given epoch. For
// each parameter, in state vector order, the bound model's Prepare is
// called with the parameter's station, satellite and epoch record, then Phi
// and Q are read exactly once:
//
//	x_i <- Phi * x_i
//	P_i,* <- Phi * P_i,*, P_*,i <- Phi * P_*,i
//	P_i,i <- P_i,i + Q
//
// Successive calls must carry non-decreasing epochs; the models clamp
// negative elapsed time to zero rather than reporting it.
func (e *Estimator) TimeUpdate(epoch GTime, frame *EpochFrame) {
	n := len(e.keys)
	for i, key := range e.keys {
		mdl, ok := e.models[key.Type]
		if !ok {
			mdl = constModel
		}
		mdl.Prepare(epoch, key.Sta, key.Sat, frame.At(key.Sta, key.Sat))
		phi := mdl.Phi()
		q := mdl.Q()
		if phi != 1.0 {
			e.x.SetVec(i, phi*e.x.AtVec(i))
			for j := 0; j < n; j++ {
				e.P.Set(i, j, phi*e.P.At(i, j))
				if j != i {
					e.P.Set(j, i, phi*e.P.At(j, i))
				}
			}
		}
		e.P.Set(i, i, e.P.At(i, i)+q)
		e.logger.Debug("time update",
			zap.String("type", string(key.Type)),
			zap.String("sta", string(key.Sta)),
			zap.String("sat", string(key.Sat)),
			zap.Float64("phi", phi),
			zap.Float64("q", q))
	}
	e.epoch = epoch
}

// MeasUpdate applies one measurement update with design matrix H (nv x nx),
// observation covariance R (nv x nv) and prefit residual vector dy (nv).
//
//	K = P H^t (H P H^t + R)^-1
//	x <- x + K dy
//	P <- (I - K H) P
func (e *Estimator) MeasUpdate(H mat.Matrix, R mat.Matrix, dy mat.Vector) error {
	nx := len(e.keys)
	hr, hc := H.Dims()
	if hc != nx {
		return fmt.Errorf("invalid matrix size. H(%d x %d), state(%d)", hr, hc, nx)
	}
	rr, rc := R.Dims()
	if rr != hr || rc != hr {
		return fmt.Errorf("invalid matrix size. H(%d x %d), R(%d x %d)", hr, hc, rr, rc)
	}
	if dy.Len() != hr {
		return fmt.Errorf("invalid matrix size. H(%d x %d), dy(%d x 1)", hr, hc, dy.Len())
	}

	// K = P H^t (H P H^t + R)^-1
	var HP, S mat.Dense
	HP.Mul(H, e.P)
	S.Mul(&HP, H.T())
	S.Add(&S, R)
	if err := S.Inverse(&S); err != nil {
		return fmt.Errorf("innovation covariance is singular: %w", err)
	}
	var PHt, K mat.Dense
	PHt.Mul(e.P, H.T())
	K.Mul(&PHt, &S)

	// x <- x + K dy
	var dx mat.VecDense
	dx.MulVec(&K, dy)
	e.x.AddVec(e.x, &dx)

	// P <- (I - K H) P
	I := mat.NewDense(nx, nx, nil)
	for j := 0; j < nx; j++ {
		I.Set(j, j, 1)
	}
	var KH, IKH, P mat.Dense
	KH.Mul(&K, H)
	IKH.Sub(I, &KH)
	P.Mul(&IKH, e.P)
	e.P = &P
	return nil
}

// InitFromLS seeds the whole state from a weighted least squares solution
// of G x = dr with weight matrix W:
//
//	x = (G^t W G)^-1 G^t W dr, P = (G^t W G)^-1
//
// The number of columns of G must equal the number of tracked parameters.
func (e *Estimator) InitFromLS(G mat.Matrix, dr mat.Vector, W mat.Matrix) error {
	nx := len(e.keys)
	n1, m1 := G.Dims()
	if m1 != nx {
		return fmt.Errorf("invalid matrix size. G(%d x %d), state(%d)", n1, m1, nx)
	}
	n2, m2 := W.Dims()
	if n1 != n2 || n2 != m2 {
		return fmt.Errorf("invalid matrix size. G(%d x %d), W(%d x %d)", n1, m1, n2, m2)
	}
	if dr.Len() != n1 {
		return fmt.Errorf("invalid matrix size. W(%d x %d), dr(%d x 1)", n2, m2, dr.Len())
	}

	// A (G^t W G)
	var WG, A mat.Dense
	WG.Mul(W, G)
	A.Mul(G.T(), &WG)

	// b (G^t W dr)
	var GtW mat.Dense
	GtW.Mul(G.T(), W)
	var b mat.VecDense
	b.MulVec(&GtW, dr)

	// Solve for x (x = A^-1 b)
	var x mat.VecDense
	if err := x.SolveVec(&A, &b); err != nil {
		return err
	}

	// Set (G^t W G)^-1 as the covariance matrix
	var cov mat.Dense
	if err := cov.Inverse(&A); err != nil {
		return err
	}

	for i := 0; i < nx; i++ {
		e.x.SetVec(i, x.AtVec(i))
		for j := 0; j < nx; j++ {
			e.P.Set(i, j, cov.At(i, j))
		}
	}
	return nil
}
