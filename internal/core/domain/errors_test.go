package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestKindOf(t *testing.T) {
	cause := zerr.With(zerr.New("exit status 2"), "exit_code", 2)

	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "toolchain", err: domain.Annotate(domain.ErrMissingToolchain, "path", "/x"), want: domain.KindMissingToolchain},
		{name: "assets", err: domain.PhaseError(domain.ErrAssetGenerationFailed, cause), want: domain.KindAssetGenerationFailed},
		{name: "configure", err: domain.PhaseError(domain.ErrConfigureFailed, cause), want: domain.KindConfigureFailed},
		{name: "compile", err: zerr.Wrap(domain.PhaseError(domain.ErrCompileFailed, cause), "build"), want: domain.KindCompileFailed},
		{name: "artifact", err: domain.ErrArtifactMissing, want: domain.KindArtifactMissing},
		{name: "malformed", err: domain.PhaseError(domain.ErrMalformedRequest, errors.New("eof")), want: domain.KindMalformedRequest},
		{name: "other", err: errors.New("boom"), want: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestPhaseError_KeepsCause(t *testing.T) {
	cause := errors.New("cmake exited")
	err := domain.PhaseError(domain.ErrConfigureFailed, cause)

	assert.ErrorIs(t, err, domain.ErrConfigureFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "configure failed: cmake exited", domain.OneLine(err))
	assert.Equal(t, domain.ErrConfigureFailed, domain.PhaseError(domain.ErrConfigureFailed, nil))
}

func TestAnnotate(t *testing.T) {
	err := domain.Annotate(domain.ErrInvalidOutputName, "output_name", "../x")

	assert.ErrorIs(t, err, domain.ErrInvalidOutputName)
	assert.Equal(t, domain.ErrInvalidOutputName.Error(), err.Error())

	var z *zerr.Error
	if assert.True(t, errors.As(err, &z)) {
		assert.Equal(t, "../x", z.Metadata()["output_name"])
	}
}
