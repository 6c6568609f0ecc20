package circuit

import (
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/logger"
)

// Curve is the curve the circuit is compiled for.
const Curve = ecc.BN254

// Compile compiles AnonAadhaar into a sparse (PLONK) constraint system.
func Compile() (constraint.ConstraintSystem, error) {
	log := logger.Logger()
	start := time.Now()
	ccs, err := frontend.Compile(Curve.ScalarField(), scs.NewBuilder, &AnonAadhaar{})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	log.Info().
		Int("constraints", ccs.GetNbConstraints()).
		Int("public", ccs.GetNbPublicVariables()).
		Msg("Successfully compiled circuit, time: " + elapsed.String())
	return ccs, nil
}
