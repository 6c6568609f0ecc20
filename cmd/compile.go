package cmd

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
)

var fArtifactOut string

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "compile the anon-aadhaar circuit into an artifact json file",
	RunE:  compile,
}

func compile(cmd *cobra.Command, args []string) error {
	ccs, err := circuit.Compile()
	if err != nil {
		return err
	}
	a, err := artifact.Build(ccs)
	if err != nil {
		return err
	}

	f, err := os.Create(fArtifactOut)
	if err != nil {
		return errors.Wrap(err, "failed to create artifact file")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := a.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write artifact")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write artifact")
	}
	log.Info().Str("hash", a.Hash).Msg("Successfully saved artifact to " + fArtifactOut)
	return nil
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&fArtifactOut, "out", artifact.Name+".json", "artifact output file")
}
