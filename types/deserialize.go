package types

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ReadProverInput reads a prover input document. Files ending in .json are
// decoded as JSON, everything else as TOML.
func ReadProverInput(path string) (*ProverInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read prover input")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadProverInputFromRequest(raw)
	}
	return ReadProverInputFromToml(raw)
}

func ReadProverInputFromToml(data []byte) (*ProverInput, error) {
	var input ProverInput
	if err := toml.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(err, "failed to decode prover input toml")
	}
	return &input, nil
}

func ReadProverInputFromRequest(data []byte) (*ProverInput, error) {
	var input ProverInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(err, "failed to decode prover input json")
	}
	return &input, nil
}
