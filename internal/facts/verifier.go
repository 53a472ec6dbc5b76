package facts

import (
	"context"

	"github.com/avetrov/contentaudit/internal/model"
)

// Verification is what a verifier reports back for one claim.
type Verification struct {
	Status     model.VerificationStatus
	Sources    []model.VerificationSource
	Suggestion string
}

// Verifier checks a single claim text against an external source. The
// pipeline treats any returned error as a degraded result, never as a
// failure of the batch; timeout and retry policy belong to the
// implementation, not to the pipeline.
type Verifier interface {
	Verify(ctx context.Context, claimText string) (Verification, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, claimText string) (Verification, error)

func (f VerifierFunc) Verify(ctx context.Context, claimText string) (Verification, error) {
	return f(ctx, claimText)
}

// NoopVerifier is the default verifier: it reaches nothing and resolves
// every claim to unable_to_verify.
type NoopVerifier struct{}

func (NoopVerifier) Verify(_ context.Context, _ string) (Verification, error) {
	return Verification{
		Status:     model.StatusUnableToVerify,
		Suggestion: "No verifier is configured; verify this claim manually.",
	}, nil
}
