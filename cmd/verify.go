package cmd

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
)

var (
	fProofIn string
	fKeysIn  string
)

var errRejected = errors.New("proof rejected")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verifies a proof written by prove",
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(fProofIn)
	if err != nil {
		return errors.Wrap(err, "failed to read proof file")
	}
	var doc ProofDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "failed to decode proof file")
	}
	ok, err := verifyDocument(&doc)
	if err != nil {
		return err
	}
	if !ok {
		return errRejected
	}
	log.Info().Strs("inputs", doc.Inputs).Msg("Proof verified")
	return nil
}

// verifyDocument checks doc against a saved verifying key when --keys is
// set, and against the reference string otherwise.
func verifyDocument(doc *ProofDocument) (bool, error) {
	if fKeysIn != "" {
		vk, err := prover.LoadVerifyingKey(fKeysIn)
		if err != nil {
			return false, err
		}
		// the saved key stands in for the circuit
		return prover.New(nil).VerifyWith(vk, doc.Proof)
	}
	o, err := newOrchestrator()
	if err != nil {
		return false, err
	}
	return o.Verify(cfg.SRSPath, doc.Proof)
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&fProofIn, "proof", "proof_with_witness.json", "proof file written by prove")
	verifyCmd.Flags().StringVar(&fKeysIn, "keys", "", "directory written by setup, verifies with its vk.bin and skips the plonk setup")
}
