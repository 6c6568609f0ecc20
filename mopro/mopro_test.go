package mopro

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmopro/anon-aadhaar-prover/types"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

func TestToError(t *testing.T) {
	assert.Nil(t, toError(nil))

	err := toError(zkerr.Backend("prove", zkerr.Encoding("encode witness", errors.New("bad input"))))
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, CodeEncoding, e.Code)
	assert.Equal(t, "encode witness", e.Step)
	assert.Contains(t, e.Message, "bad input")

	err = toError(errors.New("plain"))
	require.True(t, errors.As(err, &e))
	assert.Equal(t, CodeUnknown, e.Code)
}

func TestProveAndVerifyAnonAadhaarSimple(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the prover")
	}
	srsPath := filepath.Join(t.TempDir(), "anon_srs.local")

	input, err := types.ReadProverInput("../testdata/anon_aadhaar_inputs.json")
	require.NoError(t, err)

	proof, err := ProveAnonAadhaarSimple(srsPath, input.Flatten())
	require.NoError(t, err)
	assert.NotEmpty(t, proof, "Proof should not be empty")

	ok, err := VerifyAnonAadhaarSimple(srsPath, proof)
	require.NoError(t, err)
	assert.True(t, ok, "Proof verification should succeed")

	_, err = VerifyAnonAadhaarSimple(srsPath, nil)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, CodeEncoding, e.Code)
}

func TestProveRejectsShortInput(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles the circuit")
	}
	_, err := ProveAnonAadhaarSimple(filepath.Join(t.TempDir(), "anon_srs.local"), []string{"1", "2"})
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, CodeEncoding, e.Code)
	assert.Equal(t, "encode witness", e.Step)
}
