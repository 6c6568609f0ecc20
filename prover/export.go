package prover

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

const (
	ProvingKeyFile   = "pk.bin"
	VerifyingKeyFile = "vk.bin"
	SolidityFile     = "PlonkVerifier.sol"
)

// ExportSolidity writes the Solidity verifier of the circuit to w.
func (o *Orchestrator) ExportSolidity(srsPath string, w io.Writer) error {
	if err := o.srs.Ensure(o.circuit, srsPath); err != nil {
		return zkerr.SRS("ensure srs", err)
	}
	vk, err := o.srs.VerificationKey(o.circuit, srsPath)
	if err != nil {
		return zkerr.Backend("derive verification key", err)
	}
	if err := vk.ExportSolidity(w); err != nil {
		return zkerr.Backend("export solidity", err)
	}
	return nil
}

// SaveKeys derives the keys of the circuit and writes them, with the
// Solidity verifier, to dir.
func (o *Orchestrator) SaveKeys(srsPath, dir string) error {
	log := logger.Logger()
	if err := o.srs.Ensure(o.circuit, srsPath); err != nil {
		return zkerr.SRS("ensure srs", err)
	}
	pk, vk, err := o.srs.ProvingKey(o.circuit, srsPath)
	if err != nil {
		return zkerr.Backend("derive keys", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create key directory")
	}

	log.Info().Msg("Saving proving key to " + filepath.Join(dir, ProvingKeyFile))
	start := time.Now()
	if err := writeTo(filepath.Join(dir, ProvingKeyFile), pk.WriteRawTo); err != nil {
		return errors.Wrap(err, "failed to save proving key")
	}
	elapsed := time.Since(start)
	log.Debug().Msg("Successfully saved proving key, time: " + elapsed.String())

	log.Info().Msg("Saving verifying key to " + filepath.Join(dir, VerifyingKeyFile))
	start = time.Now()
	if err := writeTo(filepath.Join(dir, VerifyingKeyFile), vk.WriteRawTo); err != nil {
		return errors.Wrap(err, "failed to save verifying key")
	}
	elapsed = time.Since(start)
	log.Info().Msg("Successfully saved verifying key, time: " + elapsed.String())

	start = time.Now()
	err = writeTo(filepath.Join(dir, SolidityFile), func(w io.Writer) (int64, error) {
		return 0, vk.ExportSolidity(w)
	})
	if err != nil {
		return errors.Wrap(err, "failed to create solidity file")
	}
	elapsed = time.Since(start)
	log.Info().Msg("Successfully saved solidity file, time: " + elapsed.String())
	return nil
}

// LoadVerifyingKey reads a verifying key saved by SaveKeys.
func LoadVerifyingKey(dir string) (plonk.VerifyingKey, error) {
	log := logger.Logger()
	f, err := os.Open(filepath.Join(dir, VerifyingKeyFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open vk file")
	}
	defer f.Close()

	vk := plonk.NewVerifyingKey(circuit.Curve)
	start := time.Now()
	if _, err := vk.ReadFrom(bufio.NewReader(f)); err != nil {
		return nil, errors.Wrap(err, "failed to read vk file")
	}
	elapsed := time.Since(start)
	log.Debug().Msg("Successfully loaded verifying key, time: " + elapsed.String())
	return vk, nil
}

func writeTo(path string, write func(io.Writer) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
