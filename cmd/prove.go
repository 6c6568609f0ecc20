package cmd

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/proof"
	"github.com/zkmopro/anon-aadhaar-prover/types"
)

var (
	fInput    string
	fProofOut string
)

// ProofDocument is the file written by prove and read by verify.
type ProofDocument struct {
	// Inputs are the public signals in decimal.
	Inputs []string      `json:"inputs"`
	Proof  hexutil.Bytes `json:"proof"`
	// Solidity is the proof laid out for the exported PlonkVerifier contract.
	Solidity hexutil.Bytes `json:"solidityProof,omitempty"`
}

func newProofDocument(b []byte) (*ProofDocument, error) {
	env, err := proof.Decode(b)
	if err != nil {
		return nil, err
	}
	// the solidity layout reads five wire openings and one per commitment
	claimed := len(env.Proof.BatchedProof.ClaimedValues)
	if want := 6 + len(env.Proof.Bsb22Commitments); claimed < want {
		return nil, errors.Wrapf(proof.ErrMalformed, "%d claimed values, the solidity layout needs %d", claimed, want)
	}
	return &ProofDocument{
		Inputs:   signalStrings(&env.Signals),
		Proof:    b,
		Solidity: env.Proof.MarshalSolidity(),
	}, nil
}

func signalStrings(s *circuit.PublicSignals) []string {
	elems := s.Elements()
	out := make([]string, len(elems))
	for i := range elems {
		out[i] = elems[i].BigInt(new(big.Int)).String()
	}
	return out
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "runs a proof generation in gnark over a Prover.toml or json input, writing the hex proof to a json file",
	RunE:  prove,
}

func prove(cmd *cobra.Command, args []string) error {
	input, err := types.ReadProverInput(fInput)
	if err != nil {
		return err
	}
	o, err := newOrchestrator()
	if err != nil {
		return err
	}

	log.Info().Msg("Creating proof")
	b, err := o.Prove(cfg.SRSPath, input.Flatten())
	if err != nil {
		return err
	}
	doc, err := newProofDocument(b)
	if err != nil {
		return err
	}
	log.Printf("Proof len: %d", len(b))

	out, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal proof")
	}
	if err := os.WriteFile(fProofOut, out, 0o644); err != nil {
		return errors.Wrap(err, "failed to write proof file")
	}
	log.Info().Msg("Successfully saved proof to " + fProofOut)
	return nil
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&fInput, "input", "Prover.toml", "prover input document (toml or json)")
	proveCmd.Flags().StringVar(&fProofOut, "out", "proof_with_witness.json", "proof output file")
}
