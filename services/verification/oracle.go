package verification

import (
	"context"
	"strings"
	"time"
)

// DocumentResult is the oracle's answer to a document check.
type DocumentResult struct {
	OK              bool
	ExtractedFields map[string]string // OCR output when OK
	Reason          string            // Human-readable failure reason, shown to the customer verbatim
}

// LivenessResult is the oracle's answer to a liveness check.
type LivenessResult struct {
	OK     bool
	Token  string
	Reason string
}

// MatchResult is the oracle's answer to a face comparison.
type MatchResult struct {
	OK     bool
	Score  float64
	Reason string
}

// IdentityOracle is the external verification provider. Calls may take
// seconds; implementations must honor context cancellation. A returned
// error means the provider was unreachable, which is retryable and distinct
// from a negative verification outcome.
type IdentityOracle interface {
	VerifyDocument(ctx context.Context, imageURL string) (DocumentResult, error)
	CheckLiveness(ctx context.Context, imageURL string) (LivenessResult, error)
	MatchFaces(ctx context.Context, docImageURL, selfieURL string) (MatchResult, error)
}

// MockIdentityOracle is the deterministic stand-in used outside production.
// Outcomes are driven by markers embedded in the image reference, so flows
// and tests can exercise every failure path.
type MockIdentityOracle struct {
	// Delay simulates provider latency when > 0.
	Delay time.Duration
}

func (o *MockIdentityOracle) wait(ctx context.Context) error {
	if o.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(o.Delay):
		return nil
	}
}

func (o *MockIdentityOracle) VerifyDocument(ctx context.Context, imageURL string) (DocumentResult, error) {
	if err := o.wait(ctx); err != nil {
		return DocumentResult{}, err
	}
	if strings.Contains(strings.ToLower(imageURL), "invalid") {
		return DocumentResult{
			OK:     false,
			Reason: "Document is invalid, expired, or not supported",
		}, nil
	}
	return DocumentResult{
		OK: true,
		ExtractedFields: map[string]string{
			"full_name":       "Mock User",
			"date_of_birth":   "1990-01-01",
			"document_number": "A12345678",
		},
	}, nil
}

func (o *MockIdentityOracle) CheckLiveness(ctx context.Context, imageURL string) (LivenessResult, error) {
	if err := o.wait(ctx); err != nil {
		return LivenessResult{}, err
	}
	if strings.Contains(strings.ToLower(imageURL), "spoof") {
		return LivenessResult{OK: false, Reason: "Liveness check failed"}, nil
	}
	return LivenessResult{OK: true, Token: "live-" + tokenSuffix(imageURL)}, nil
}

func (o *MockIdentityOracle) MatchFaces(ctx context.Context, docImageURL, selfieURL string) (MatchResult, error) {
	if err := o.wait(ctx); err != nil {
		return MatchResult{}, err
	}
	lowered := strings.ToLower(docImageURL + " " + selfieURL)
	if strings.Contains(lowered, "mismatch") {
		return MatchResult{OK: false, Score: 0.40, Reason: "Face does not match ID photo"}, nil
	}
	return MatchResult{OK: true, Score: 0.95}, nil
}

func tokenSuffix(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}
