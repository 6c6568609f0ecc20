// Package prover runs the prove and verify flows of the circuit: it prepares
// the reference string, encodes the witness, and calls the backend.
package prover

import (
	"time"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/proof"
	"github.com/zkmopro/anon-aadhaar-prover/srs"
	"github.com/zkmopro/anon-aadhaar-prover/variables"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

type Orchestrator struct {
	circuit *artifact.Circuit
	srs     ReferenceStrings
	backend Backend
	hook    Hook
}

type Option func(*Orchestrator)

func WithReferenceStrings(rs ReferenceStrings) Option {
	return func(o *Orchestrator) { o.srs = rs }
}

func WithBackend(b Backend) Option {
	return func(o *Orchestrator) { o.backend = b }
}

// WithStageHook reports every stage transition to h.
func WithStageHook(h Hook) Option {
	return func(o *Orchestrator) { o.hook = h }
}

// New returns an orchestrator for c. By default it uses a fresh srs.Manager
// and the gnark PLONK backend.
func New(c *artifact.Circuit, opts ...Option) *Orchestrator {
	o := &Orchestrator{circuit: c}
	for _, opt := range opts {
		opt(o)
	}
	if o.srs == nil {
		o.srs = srs.NewManager()
	}
	if o.backend == nil {
		o.backend = PlonkBackend{}
	}
	return o
}

func (o *Orchestrator) Circuit() *artifact.Circuit { return o.circuit }

// Prove returns a proof over inputs, given in the canonical input order.
func (o *Orchestrator) Prove(srsPath string, inputs []string) ([]byte, error) {
	log := logger.Logger()
	f := &flow{start: time.Now(), hook: o.hook}
	f.enter(Idle)

	if err := o.srs.Ensure(o.circuit, srsPath); err != nil {
		return nil, f.fail(zkerr.SRS("ensure srs", err))
	}
	f.enter(SrsEnsured)

	assignment, err := variables.Encode(inputs)
	if err != nil {
		return nil, f.fail(err)
	}
	w, err := assignment.Witness()
	if err != nil {
		return nil, f.fail(zkerr.Encoding("build witness", err))
	}
	f.enter(WitnessBuilt)

	pk, _, err := o.srs.ProvingKey(o.circuit, srsPath)
	if err != nil {
		return nil, f.fail(zkerr.Backend("derive proving key", err))
	}

	start := time.Now()
	p, err := o.backend.Prove(o.circuit.ConstraintSystem(), pk, w)
	if err != nil {
		return nil, f.fail(zkerr.Backend("prove", err))
	}
	elapsed := time.Since(start)
	log.Info().Msg("anon_aadhaar proof generation time: " + elapsed.String())

	b, err := proof.Encode(&assignment.Signals, p)
	if err != nil {
		return nil, f.fail(zkerr.Backend("serialize proof", err))
	}
	f.enter(Proved)
	log.Debug().Int("bytes", len(b)).Msg("Successfully created proof, time: " + time.Since(f.start).String())
	return b, nil
}

// Verify checks a proof produced by Prove. A proof that does not decode or
// does not verify yields false; an empty or oversized one is an error.
func (o *Orchestrator) Verify(srsPath string, b []byte) (bool, error) {
	f := &flow{start: time.Now(), hook: o.hook}
	f.enter(Idle)

	if err := o.srs.Ensure(o.circuit, srsPath); err != nil {
		return false, f.fail(zkerr.SRS("ensure srs", err))
	}
	f.enter(SrsEnsured)

	env, decodeErr := proof.Decode(b)
	if errors.Is(decodeErr, proof.ErrEmpty) || errors.Is(decodeErr, proof.ErrTooLarge) {
		return false, f.fail(zkerr.Encoding("decode proof", decodeErr))
	}

	vk, err := o.srs.VerificationKey(o.circuit, srsPath)
	if err != nil {
		return false, f.fail(zkerr.Backend("derive verification key", err))
	}
	f.enter(KeyDerived)

	return o.check(f, env, decodeErr, vk)
}

// VerifyWith checks a proof against a verifying key saved by SaveKeys, with
// no reference string or setup involved.
func (o *Orchestrator) VerifyWith(vk plonk.VerifyingKey, b []byte) (bool, error) {
	f := &flow{start: time.Now(), hook: o.hook}
	f.enter(Idle)

	env, decodeErr := proof.Decode(b)
	if errors.Is(decodeErr, proof.ErrEmpty) || errors.Is(decodeErr, proof.ErrTooLarge) {
		return false, f.fail(zkerr.Encoding("decode proof", decodeErr))
	}
	f.enter(KeyDerived)
	return o.check(f, env, decodeErr, vk)
}

func (o *Orchestrator) check(f *flow, env *proof.Envelope, decodeErr error, vk plonk.VerifyingKey) (bool, error) {
	log := logger.Logger()
	if decodeErr != nil {
		log.Debug().Err(decodeErr).Msg("rejecting undecodable proof")
		f.enter(Verified)
		return false, nil
	}

	pub, err := variables.PublicWitness(&env.Signals)
	if err != nil {
		return false, f.fail(zkerr.Encoding("build public witness", err))
	}

	start := time.Now()
	verdict := true
	if err := o.backend.Verify(env.Proof, vk, pub); err != nil {
		log.Debug().Err(err).Msg("proof rejected")
		verdict = false
	}
	elapsed := time.Since(start)
	log.Info().Msg("anon_aadhaar proof verification time: " + elapsed.String())
	log.Info().Bool("verdict", verdict).Msg("anon_aadhaar proof verification verdict")

	f.enter(Verified)
	return verdict, nil
}
