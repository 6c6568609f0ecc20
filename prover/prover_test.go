package prover

import (
	"testing"
	"time"

	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/proof"
	mock_prover "github.com/zkmopro/anon-aadhaar-prover/prover/mock"
	"github.com/zkmopro/anon-aadhaar-prover/srs"
	"github.com/zkmopro/anon-aadhaar-prover/types"
	"github.com/zkmopro/anon-aadhaar-prover/variables"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

const srsPath = "anon_srs.local"

var errBoom = errors.New("boom")

func sampleInputs(t *testing.T) []string {
	t.Helper()
	input, err := types.ReadProverInput("../testdata/Prover.toml")
	require.NoError(t, err)
	return input.Flatten()
}

type recorder struct {
	stages []Stage
}

func (r *recorder) hook(s Stage, _ time.Duration) {
	r.stages = append(r.stages, s)
}

type fixture struct {
	srs     *mock_prover.MockReferenceStrings
	backend *mock_prover.MockBackend
	rec     *recorder
	o       *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		srs:     mock_prover.NewMockReferenceStrings(ctrl),
		backend: mock_prover.NewMockBackend(ctrl),
		rec:     &recorder{},
	}
	f.o = New(&artifact.Circuit{},
		WithReferenceStrings(f.srs),
		WithBackend(f.backend),
		WithStageHook(f.rec.hook),
	)
	return f
}

func TestProveStages(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil),
		f.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, nil),
		f.backend.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any()).Return(&plonk_bn254.Proof{}, nil),
	)

	inputs := sampleInputs(t)
	b, err := f.o.Prove(srsPath, inputs)
	require.NoError(t, err)
	assert.Equal(t, []Stage{Idle, SrsEnsured, WitnessBuilt, Proved}, f.rec.stages)

	want, err := variables.Encode(inputs)
	require.NoError(t, err)
	got, err := proof.Signals(b)
	require.NoError(t, err)
	assert.Equal(t, want.Signals.Elements(), got.Elements())
}

func TestProveSrsFailure(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(errBoom)

	b, err := f.o.Prove(srsPath, sampleInputs(t))
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Equal(t, zkerr.KindSRS, zkerr.KindOf(err))
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, []Stage{Idle, Failed}, f.rec.stages)
}

func TestProveEncodingFailure(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)

	inputs := sampleInputs(t)
	b, err := f.o.Prove(srsPath, inputs[:len(inputs)-1])
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Equal(t, zkerr.KindEncoding, zkerr.KindOf(err))
	assert.True(t, errors.Is(err, variables.ErrSlotCount))
	assert.Equal(t, []Stage{Idle, SrsEnsured, Failed}, f.rec.stages)
}

func TestProveBackendFailure(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	f.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, nil)
	f.backend.EXPECT().Prove(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errBoom)

	b, err := f.o.Prove(srsPath, sampleInputs(t))
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Equal(t, zkerr.KindBackend, zkerr.KindOf(err))
	assert.Equal(t, "prove", zkerr.OpOf(err))
	assert.Equal(t, []Stage{Idle, SrsEnsured, WitnessBuilt, Failed}, f.rec.stages)
}

func TestProveKeyNotEnsured(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	f.srs.EXPECT().ProvingKey(gomock.Any(), srsPath).Return(nil, nil, zkerr.SRS("lookup srs", srs.ErrNotEnsured))

	_, err := f.o.Prove(srsPath, sampleInputs(t))
	require.Error(t, err)
	assert.Equal(t, zkerr.KindSRS, zkerr.KindOf(err))
	assert.True(t, errors.Is(err, srs.ErrNotEnsured))
}

func encodedSample(t *testing.T) []byte {
	t.Helper()
	a, err := variables.Encode(sampleInputs(t))
	require.NoError(t, err)
	b, err := proof.Encode(&a.Signals, &plonk_bn254.Proof{})
	require.NoError(t, err)
	return b
}

func TestVerifyStages(t *testing.T) {
	for _, accept := range []bool{true, false} {
		f := newFixture(t)
		var verifyErr error
		if !accept {
			verifyErr = errBoom
		}
		gomock.InOrder(
			f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil),
			f.srs.EXPECT().VerificationKey(gomock.Any(), srsPath).Return(nil, nil),
			f.backend.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(verifyErr),
		)

		ok, err := f.o.Verify(srsPath, encodedSample(t))
		require.NoError(t, err)
		assert.Equal(t, accept, ok)
		assert.Equal(t, []Stage{Idle, SrsEnsured, KeyDerived, Verified}, f.rec.stages)
	}
}

func TestVerifyStructuralErrors(t *testing.T) {
	for _, b := range [][]byte{nil, {}, make([]byte, proof.MaxSize+1)} {
		f := newFixture(t)
		f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)

		ok, err := f.o.Verify(srsPath, b)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, zkerr.KindEncoding, zkerr.KindOf(err))
		assert.Equal(t, []Stage{Idle, SrsEnsured, Failed}, f.rec.stages)
	}
}

func TestVerifyUndecodableIsFalse(t *testing.T) {
	valid := encodedSample(t)
	for _, b := range [][]byte{make([]byte, len(valid)), valid[:len(valid)-3], {0x42}} {
		f := newFixture(t)
		f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
		f.srs.EXPECT().VerificationKey(gomock.Any(), srsPath).Return(nil, nil)

		ok, err := f.o.Verify(srsPath, b)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []Stage{Idle, SrsEnsured, KeyDerived, Verified}, f.rec.stages)
	}
}

func TestVerifyKeyFailure(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(nil)
	f.srs.EXPECT().VerificationKey(gomock.Any(), srsPath).Return(nil, zkerr.SRS("lookup srs", srs.ErrNotEnsured))

	ok, err := f.o.Verify(srsPath, encodedSample(t))
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, zkerr.KindSRS, zkerr.KindOf(err))
	assert.Equal(t, []Stage{Idle, SrsEnsured, Failed}, f.rec.stages)
}

func TestVerifySrsFailure(t *testing.T) {
	f := newFixture(t)
	f.srs.EXPECT().Ensure(gomock.Any(), srsPath).Return(errBoom)

	_, err := f.o.Verify(srsPath, encodedSample(t))
	require.Error(t, err)
	assert.Equal(t, zkerr.KindSRS, zkerr.KindOf(err))
	assert.Equal(t, []Stage{Idle, Failed}, f.rec.stages)
}

func TestVerifyWithSavedKey(t *testing.T) {
	for _, accept := range []bool{true, false} {
		f := newFixture(t)
		var verifyErr error
		if !accept {
			verifyErr = errBoom
		}
		f.backend.EXPECT().Verify(gomock.Any(), gomock.Nil(), gomock.Any()).Return(verifyErr)

		ok, err := f.o.VerifyWith(nil, encodedSample(t))
		require.NoError(t, err)
		assert.Equal(t, accept, ok)
		assert.Equal(t, []Stage{Idle, KeyDerived, Verified}, f.rec.stages)
	}

	f := newFixture(t)
	_, err := f.o.VerifyWith(nil, nil)
	assert.Equal(t, zkerr.KindEncoding, zkerr.KindOf(err))
	assert.Equal(t, []Stage{Idle, Failed}, f.rec.stages)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "SrsEnsured", SrsEnsured.String())
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "Unknown", Stage(42).String())
}
