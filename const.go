// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.25
//

package goppp

// Default process spectral densities [m^2/s] and sigmas [m] for the
// stochastic model family. Time units are always seconds.
const (
	DefQpRandomWalk = 9.0e10  // Effectively unconstrained parameter
	DefQpTropo      = 5.0e-8  // Zenith wet tropospheric delay
	DefQpTropoGrad  = 5.0e-10 // Tropospheric gradient
	DefQpIono       = 1.0e-3  // Slant ionospheric delay on L1
	DefQpRecBias    = 1.0e-4  // Receiver hardware bias
	DefQpSatBias    = 3.0e-6  // Satellite hardware bias
	DefQpISB        = 9.0e-4  // Inter-system bias
	DefQpIFCB       = 1.0e-4  // Inter-frequency bias

	DefSigmaWhiteNoise = 300000.0 // White noise sigma
	DefSigmaAmbiguity  = 2.0e4    // Ambiguity reinitialization sigma

	// Variance injected at an ionospheric interrupt boundary. The same
	// unconstrained magnitude as DefQpRandomWalk, so the filter reopens
	// the slant delay completely.
	IonoInterruptVar = 9.0e10

	DefIonoSampling  = 7200.0 // Interrupt interval [s]
	DefIonoTolerance = 0.5    // Interrupt window half-width [s]
)
