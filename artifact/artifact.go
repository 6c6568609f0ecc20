// Package artifact loads the compiled circuit: a JSON document carrying the
// serialized constraint system ("bytecode") and the input ABI it was built for.
package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

const (
	Name    = "anon_aadhaar"
	Backend = "plonk"
)

var (
	ErrBytecodeMissing = errors.New("artifact has no bytecode")
	ErrHashMismatch    = errors.New("bytecode hash mismatch")
	ErrABIMismatch     = errors.New("artifact abi does not match the circuit schema")
	ErrUnsupported     = errors.New("unsupported curve or backend")
)

type ABIField struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

// Artifact is the on-disk form of a compiled circuit.
type Artifact struct {
	Name     string     `json:"name"`
	Hash     string     `json:"hash"`
	Curve    string     `json:"curve"`
	Backend  string     `json:"backend"`
	ABI      []ABIField `json:"abi"`
	Bytecode []byte     `json:"bytecode"`
}

// Circuit is a validated artifact together with its decoded constraint system.
type Circuit struct {
	Artifact *Artifact

	ccs    constraint.ConstraintSystem
	digest string
}

func (c *Circuit) ConstraintSystem() constraint.ConstraintSystem { return c.ccs }

// Digest identifies the bytecode. Equal digests mean equal circuits.
func (c *Circuit) Digest() string { return c.digest }

func digest(bytecode []byte) string {
	sum := sha256.Sum256(bytecode)
	return hex.EncodeToString(sum[:])
}

// ABI describes circuit.Schema.
func ABI() []ABIField {
	abi := make([]ABIField, len(circuit.Schema))
	for i, f := range circuit.Schema {
		abi[i] = ABIField{Name: f.Name, Arity: f.Arity}
	}
	return abi
}

// Build serializes ccs into an artifact.
func Build(ccs constraint.ConstraintSystem) (*Artifact, error) {
	var buf bytes.Buffer
	if _, err := ccs.WriteTo(&buf); err != nil {
		return nil, zkerr.Artifact("serialize constraint system", err)
	}
	return &Artifact{
		Name:     Name,
		Hash:     digest(buf.Bytes()),
		Curve:    circuit.Curve.String(),
		Backend:  Backend,
		ABI:      ABI(),
		Bytecode: buf.Bytes(),
	}, nil
}

// FromConstraintSystem wraps an already compiled constraint system.
func FromConstraintSystem(ccs constraint.ConstraintSystem) (*Circuit, error) {
	a, err := Build(ccs)
	if err != nil {
		return nil, err
	}
	return &Circuit{Artifact: a, ccs: ccs, digest: a.Hash}, nil
}

func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(raw)
	return int64(n), err
}

// Load reads and validates an artifact document.
func Load(r io.Reader) (*Circuit, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, zkerr.Artifact("decode artifact", err)
	}
	return open(&a)
}

func LoadFile(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zkerr.Artifact("open artifact", err)
	}
	defer f.Close()
	return Load(f)
}

func open(a *Artifact) (*Circuit, error) {
	if len(a.Bytecode) == 0 {
		return nil, zkerr.Artifact("validate artifact", ErrBytecodeMissing)
	}
	if a.Curve != circuit.Curve.String() || a.Backend != Backend {
		return nil, zkerr.Artifact("validate artifact",
			errors.Wrapf(ErrUnsupported, "%s/%s", a.Curve, a.Backend))
	}
	d := digest(a.Bytecode)
	if a.Hash != d {
		return nil, zkerr.Artifact("validate artifact",
			errors.Wrapf(ErrHashMismatch, "declared %q, computed %q", a.Hash, d))
	}
	if err := checkABI(a.ABI); err != nil {
		return nil, zkerr.Artifact("validate artifact", err)
	}

	ccs := plonk.NewCS(circuit.Curve)
	if _, err := ccs.ReadFrom(bytes.NewReader(a.Bytecode)); err != nil {
		return nil, zkerr.Artifact("decode bytecode", err)
	}
	return &Circuit{Artifact: a, ccs: ccs, digest: d}, nil
}

func checkABI(abi []ABIField) error {
	want := ABI()
	if len(abi) != len(want) {
		return errors.Wrapf(ErrABIMismatch, "%d fields, want %d", len(abi), len(want))
	}
	for i := range want {
		if abi[i] != want[i] {
			return errors.Wrapf(ErrABIMismatch, "field %d is %s[%d], want %s[%d]",
				i, abi[i].Name, abi[i].Arity, want[i].Name, want[i].Arity)
		}
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultCircuit *Circuit
	defaultErr     error
)

// Default returns the built-in circuit, compiled on first use.
func Default() (*Circuit, error) {
	defaultOnce.Do(func() {
		ccs, err := circuit.Compile()
		if err != nil {
			defaultErr = zkerr.Artifact("compile circuit", err)
			return
		}
		defaultCircuit, defaultErr = FromConstraintSystem(ccs)
	})
	return defaultCircuit, defaultErr
}
