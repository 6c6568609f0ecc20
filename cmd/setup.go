package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var fKeysDir string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "ensure the reference string, then save pk, vk and the solidity verifier",
	RunE:  setup,
}

func setup(cmd *cobra.Command, args []string) error {
	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	dir := cfg.KeysDir
	if cmd.Flags().Changed("keys") {
		dir = fKeysDir
	}
	if err := o.SaveKeys(cfg.SRSPath, dir); err != nil {
		return err
	}
	log.Info().Msg("Successfully saved keys to " + dir)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&fKeysDir, "keys", "", "directory for the keys, keys_dir from the config when empty")
}
