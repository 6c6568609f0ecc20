package prover

import (
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
)

//go:generate mockgen -destination=mock/prover.go -package=mock_prover github.com/zkmopro/anon-aadhaar-prover/prover ReferenceStrings,Backend

// ReferenceStrings prepares the reference string of a circuit and derives
// its keys. srs.Manager implements it.
type ReferenceStrings interface {
	Ensure(c *artifact.Circuit, path string) error
	ProvingKey(c *artifact.Circuit, path string) (plonk.ProvingKey, plonk.VerifyingKey, error)
	VerificationKey(c *artifact.Circuit, path string) (plonk.VerifyingKey, error)
}

// Backend runs the proof system.
type Backend interface {
	Prove(ccs constraint.ConstraintSystem, pk plonk.ProvingKey, w witness.Witness) (plonk.Proof, error)
	Verify(p plonk.Proof, vk plonk.VerifyingKey, publicWitness witness.Witness) error
}

// PlonkBackend is the gnark PLONK backend.
type PlonkBackend struct{}

func (PlonkBackend) Prove(ccs constraint.ConstraintSystem, pk plonk.ProvingKey, w witness.Witness) (plonk.Proof, error) {
	return plonk.Prove(ccs, pk, w)
}

func (PlonkBackend) Verify(p plonk.Proof, vk plonk.VerifyingKey, publicWitness witness.Witness) error {
	return plonk.Verify(p, vk, publicWitness)
}
