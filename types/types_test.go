package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
)

func TestReadProverInputToml(t *testing.T) {
	input, err := ReadProverInput("../testdata/Prover.toml")
	require.NoError(t, err)

	assert.Len(t, input.QrDataPadded.Storage, circuit.MaxDataLength)
	assert.Len(t, input.DelimiterIndices, circuit.DelimiterCount)
	assert.Len(t, input.SignatureLimbs, circuit.LimbCount)
	assert.Equal(t, "862", input.QrDataPadded.Len)
	assert.Equal(t, "896", input.QrDataPaddedLength)
	assert.Equal(t, "12345678", input.NullifierSeed)
	assert.Equal(t, "1001", input.SignalHash)
}

func TestTomlAndJsonAgree(t *testing.T) {
	fromToml, err := ReadProverInput("../testdata/Prover.toml")
	require.NoError(t, err)
	fromJson, err := ReadProverInput("../testdata/anon_aadhaar_inputs.json")
	require.NoError(t, err)

	assert.Equal(t, fromToml, fromJson)
}

func TestFlattenOrder(t *testing.T) {
	input, err := ReadProverInput("../testdata/Prover.toml")
	require.NoError(t, err)

	flat := input.Flatten()
	require.Len(t, flat, circuit.SlotCount())

	// storage cells first, signal hash last
	assert.Equal(t, input.QrDataPadded.Storage[0], flat[0])
	assert.Equal(t, input.QrDataPadded.Len, flat[circuit.MaxDataLength])
	assert.Equal(t, input.QrDataPaddedLength, flat[circuit.MaxDataLength+1])
	assert.Equal(t, input.DelimiterIndices[0], flat[circuit.MaxDataLength+2])

	n := len(flat)
	assert.Equal(t, input.RevealAgeAbove18, flat[n-6])
	assert.Equal(t, input.RevealGender, flat[n-5])
	assert.Equal(t, input.RevealPinCode, flat[n-4])
	assert.Equal(t, input.RevealState, flat[n-3])
	assert.Equal(t, input.NullifierSeed, flat[n-2])
	assert.Equal(t, input.SignalHash, flat[n-1])
}

func TestFlattenShortArraysAreKept(t *testing.T) {
	input := &ProverInput{DelimiterIndices: []string{"1", "2"}}
	assert.Len(t, input.Flatten(), 2+8)
}

func TestReadProverInputErrors(t *testing.T) {
	_, err := ReadProverInput("../testdata/missing.toml")
	assert.Error(t, err)

	_, err = ReadProverInputFromToml([]byte("qrDataPaddedLength = ["))
	assert.Error(t, err)

	_, err = ReadProverInputFromRequest([]byte("{"))
	assert.Error(t, err)
}
