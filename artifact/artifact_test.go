package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

func document(t *testing.T, a *Artifact) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func fake(bytecode []byte) *Artifact {
	return &Artifact{
		Name:     Name,
		Hash:     digest(bytecode),
		Curve:    circuit.Curve.String(),
		Backend:  Backend,
		ABI:      ABI(),
		Bytecode: bytecode,
	}
}

func TestLoadRejects(t *testing.T) {
	garbage := []byte("not a constraint system")
	tests := []struct {
		name   string
		doc    func() *Artifact
		sentry error
	}{
		{"missing bytecode", func() *Artifact { return fake(nil) }, ErrBytecodeMissing},
		{"hash mismatch", func() *Artifact {
			a := fake(garbage)
			a.Hash = digest([]byte("other"))
			return a
		}, ErrHashMismatch},
		{"abi reordered", func() *Artifact {
			a := fake(garbage)
			a.ABI[len(a.ABI)-1], a.ABI[len(a.ABI)-2] = a.ABI[len(a.ABI)-2], a.ABI[len(a.ABI)-1]
			return a
		}, ErrABIMismatch},
		{"abi truncated", func() *Artifact {
			a := fake(garbage)
			a.ABI = a.ABI[:3]
			return a
		}, ErrABIMismatch},
		{"wrong curve", func() *Artifact {
			a := fake(garbage)
			a.Curve = "bls12-381"
			return a
		}, ErrUnsupported},
		{"wrong backend", func() *Artifact {
			a := fake(garbage)
			a.Backend = "groth16"
			return a
		}, ErrUnsupported},
		{"undecodable bytecode", func() *Artifact { return fake(garbage) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(document(t, tt.doc()))
			require.Error(t, err)
			assert.Equal(t, zkerr.KindArtifact, zkerr.KindOf(err))
			if tt.sentry != nil {
				assert.True(t, errors.Is(err, tt.sentry), err.Error())
			}
		})
	}
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	for _, doc := range []string{"", "{", "[]", `{"bytecode": 12}`} {
		_, err := Load(strings.NewReader(doc))
		require.Error(t, err, doc)
		assert.Equal(t, zkerr.KindArtifact, zkerr.KindOf(err))
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "anon_aadhaar.json"))
	require.Error(t, err)
	assert.Equal(t, zkerr.KindArtifact, zkerr.KindOf(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles the circuit")
	}
	c, err := Default()
	require.NoError(t, err)
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, again)

	path := filepath.Join(t.TempDir(), "anon_aadhaar.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = c.Artifact.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Digest(), loaded.Digest())
	assert.Equal(t, c.Artifact.Bytecode, loaded.Artifact.Bytecode)
	assert.Equal(t, c.ConstraintSystem().GetNbConstraints(), loaded.ConstraintSystem().GetNbConstraints())
}
