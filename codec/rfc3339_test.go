package codec

import (
	"context"
	"testing"
	"time"

	recskema "github.com/reoring/recskema"
)

func TestTimeRFC3339_Codec_Basic(t *testing.T) {
	c := TimeRFC3339()
	ctx := context.Background()

	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(ctx, in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := c.Encode(ctx, got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestTimeRFC3339_EncodeNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	s, err := TimeRFC3339().Encode(context.Background(), time.Date(2025, 1, 1, 9, 0, 0, 500, loc))
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if s != "2025-01-01T00:00:00.0000005Z" {
		t.Fatalf("unexpected canonical output: %q", s)
	}
}

func TestTimeRFC3339_DecodeInvalid(t *testing.T) {
	_, err := TimeRFC3339().Decode(context.Background(), "yesterday")
	iss, ok := recskema.AsIssues(err)
	if !ok || iss[0].Code != recskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %v", err)
	}
}

func TestTimeRFC3339_EncodeZero_Error(t *testing.T) {
	if _, err := TimeRFC3339().Encode(context.Background(), time.Time{}); err == nil {
		t.Fatalf("expected error for zero time")
	}
}
