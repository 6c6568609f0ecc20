// Package mopro is the surface exposed to mobile host applications. It
// takes and returns primitive types only.
package mopro

import (
	"fmt"
	"sync"

	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

// Error codes returned to the host.
const (
	CodeUnknown  = "UnknownError"
	CodeArtifact = "ArtifactError"
	CodeSRS      = "SrsError"
	CodeEncoding = "EncodingError"
	CodeBackend  = "BackendError"
)

// Error is what the host receives when an operation fails. Step names the
// step that failed.
type Error struct {
	Code    string
	Step    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Step, e.Message)
}

func toError(err error) error {
	if err == nil {
		return nil
	}
	code := CodeUnknown
	if k := zkerr.KindOf(err); k != zkerr.KindUnknown {
		code = k.String()
	}
	return &Error{Code: code, Step: zkerr.OpOf(err), Message: err.Error()}
}

var (
	once    sync.Once
	shared  *prover.Orchestrator
	initErr error
)

func orchestrator() (*prover.Orchestrator, error) {
	once.Do(func() {
		c, err := artifact.Default()
		if err != nil {
			initErr = err
			return
		}
		shared = prover.New(c)
	})
	return shared, initErr
}

// ProveAnonAadhaarSimple proves over inputs, given as decimal strings in the
// canonical input order, using the reference string at srsPath.
func ProveAnonAadhaarSimple(srsPath string, inputs []string) ([]byte, error) {
	o, err := orchestrator()
	if err != nil {
		return nil, toError(err)
	}
	proof, err := o.Prove(srsPath, inputs)
	return proof, toError(err)
}

// VerifyAnonAadhaarSimple verifies a proof returned by ProveAnonAadhaarSimple.
func VerifyAnonAadhaarSimple(srsPath string, proof []byte) (bool, error) {
	o, err := orchestrator()
	if err != nil {
		return false, toError(err)
	}
	ok, err := o.Verify(srsPath, proof)
	return ok, toError(err)
}
