package rules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
)

// SHA256Digest replaces a text value with its hex-encoded SHA-256 digest.
// Non-text values pass through for the field pass to reject.
func SHA256Digest() g.TransformFunc {
	return func(ctx context.Context, v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		h := sha256.Sum256([]byte(s))
		return hex.EncodeToString(h[:]), nil
	}
}

// BcryptDigest replaces a text value with its bcrypt hash at cost. Costs
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func BcryptDigest(cost int) g.TransformFunc {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return func(ctx context.Context, v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		h, err := bcrypt.GenerateFromPassword([]byte(s), cost)
		if err != nil {
			return nil, recskema.Issues{recskema.Issue{Path: "/", Code: recskema.CodeInvalidFormat, Message: err.Error(), Cause: err}}
		}
		return string(h), nil
	}
}

// MatchesBcrypt reports whether plain hashes to digest.
func MatchesBcrypt(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
