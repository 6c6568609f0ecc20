package cmd

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/proof"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
	mock_prover "github.com/zkmopro/anon-aadhaar-prover/prover/mock"
	"github.com/zkmopro/anon-aadhaar-prover/types"
	"github.com/zkmopro/anon-aadhaar-prover/variables"
)

const srsPath = "anon_srs.local"

type api struct {
	srs     *mock_prover.MockReferenceStrings
	backend *mock_prover.MockBackend
	router  *gin.Engine
}

func newApi(t *testing.T) *api {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	a := &api{
		srs:     mock_prover.NewMockReferenceStrings(ctrl),
		backend: mock_prover.NewMockBackend(ctrl),
	}
	o := prover.New(&artifact.Circuit{},
		prover.WithReferenceStrings(a.srs),
		prover.WithBackend(a.backend),
	)
	a.router = newRouter(o, srsPath)
	return a
}

func (a *api) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func sampleInput(t *testing.T) *types.ProverInput {
	t.Helper()
	input, err := types.ReadProverInput("../testdata/anon_aadhaar_inputs.json")
	require.NoError(t, err)
	return input
}

// shapedProof has the claimed values of a proof without commitments.
func shapedProof() *plonk_bn254.Proof {
	return &plonk_bn254.Proof{
		BatchedProof: kzg_bn254.BatchOpeningProof{ClaimedValues: make([]fr.Element, 6)},
	}
}

func TestHealthCheck(t *testing.T) {
	a := newApi(t)
	w, resp := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestGenerateProof(t *testing.T) {
	a := newApi(t)
	a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	a.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, nil)
	a.backend.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any()).Return(shapedProof(), nil)

	w, resp := a.do(t, http.MethodPost, "/prove", ProveRequest{ID: "req-1", Document: sampleInput(t)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "req-1", resp["id"])

	inputs := resp["inputs"].([]interface{})
	require.Len(t, inputs, 8)
	assert.Equal(t, "12345678", inputs[0])
	assert.Equal(t, "1001", inputs[1])

	b, err := hexutil.Decode(resp["proof"].(string))
	require.NoError(t, err)
	_, err = proof.Decode(b)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp["solidityProof"])
}

func TestGenerateProofWithoutClaimedValues(t *testing.T) {
	a := newApi(t)
	a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	a.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, nil)
	a.backend.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any()).Return(&plonk_bn254.Proof{}, nil)

	w, resp := a.do(t, http.MethodPost, "/prove", ProveRequest{Inputs: sampleInput(t).Flatten()})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, resp["error"], "solidity layout")
}

func TestSignalStringsAreUnsignedDecimals(t *testing.T) {
	var signals circuit.PublicSignals
	signals.Nullifier.SetInt64(-1)
	signals.Gender.SetUint64('F')

	got := signalStrings(&signals)
	want := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	assert.Equal(t, want.String(), got[2])
	assert.Equal(t, "70", got[5])
	assert.Equal(t, "0", got[0])
}

func TestGenerateProofRejectsShortInput(t *testing.T) {
	a := newApi(t)
	a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)

	w, resp := a.do(t, http.MethodPost, "/prove", ProveRequest{Inputs: []string{"1", "2"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EncodingError", resp["code"])
	assert.Equal(t, "encode witness", resp["step"])
	assert.NotEmpty(t, resp["id"])
}

func TestGenerateProofBackendFailure(t *testing.T) {
	a := newApi(t)
	a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	a.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, nil)
	a.backend.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	w, resp := a.do(t, http.MethodPost, "/prove", ProveRequest{Inputs: sampleInput(t).Flatten()})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "BackendError", resp["code"])
}

func TestVerifyProof(t *testing.T) {
	assignment, err := variables.Encode(sampleInput(t).Flatten())
	require.NoError(t, err)
	b, err := proof.Encode(&assignment.Signals, &plonk_bn254.Proof{})
	require.NoError(t, err)

	for _, valid := range []bool{true, false} {
		a := newApi(t)
		var verifyErr error
		if !valid {
			verifyErr = errors.New("pairing check failed")
		}
		a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
		a.srs.EXPECT().VerificationKey(gomock.Any(), srsPath).Return(nil, nil)
		a.backend.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(verifyErr)

		w, resp := a.do(t, http.MethodPost, "/verify", VerifyRequest{Proof: b})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, valid, resp["valid"])
	}
}

func TestVerifyProofBadRequests(t *testing.T) {
	t.Run("empty proof", func(t *testing.T) {
		a := newApi(t)
		a.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)

		w, resp := a.do(t, http.MethodPost, "/verify", `{"id":"x","proof":"0x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "EncodingError", resp["code"])
		assert.Equal(t, "x", resp["id"])
	})

	t.Run("not hex", func(t *testing.T) {
		a := newApi(t)
		w, _ := a.do(t, http.MethodPost, "/verify", `{"proof":"zz"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
