package cmd

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
)

var fSolidityOut string

var exportSolidityCmd = &cobra.Command{
	Use:   "export-solidity",
	Short: "writes the PlonkVerifier solidity contract of the circuit",
	RunE:  exportSolidity,
}

func exportSolidity(cmd *cobra.Command, args []string) error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	f, err := os.Create(fSolidityOut)
	if err != nil {
		return errors.Wrap(err, "failed to create solidity file")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := o.ExportSolidity(cfg.SRSPath, w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write solidity file")
	}
	log.Info().Msg("Successfully saved solidity verifier to " + fSolidityOut)
	return nil
}

func init() {
	rootCmd.AddCommand(exportSolidityCmd)
	exportSolidityCmd.Flags().StringVar(&fSolidityOut, "out", prover.SolidityFile, "solidity output file")
}
