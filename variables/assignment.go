package variables

import (
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
)

// Assignment is a complete witness of the circuit: the decoded inputs and
// the public outputs derived from them.
type Assignment struct {
	Inputs  circuit.Inputs
	Signals circuit.PublicSignals
}

// Circuit returns the gnark assignment.
func (a *Assignment) Circuit() *circuit.AnonAadhaar {
	return a.Inputs.Assign(&a.Signals)
}

// Witness returns the full witness handed to the prover.
func (a *Assignment) Witness() (witness.Witness, error) {
	return frontend.NewWitness(a.Circuit(), circuit.Curve.ScalarField())
}

// PublicWitness returns the public part handed to the verifier.
func (a *Assignment) PublicWitness() (witness.Witness, error) {
	return PublicWitness(&a.Signals)
}

// PublicWitness builds a public witness from signals alone.
func PublicWitness(signals *circuit.PublicSignals) (witness.Witness, error) {
	var c circuit.AnonAadhaar
	signals.Assign(&c)
	return frontend.NewWitness(&c, circuit.Curve.ScalarField(), frontend.PublicOnly())
}
