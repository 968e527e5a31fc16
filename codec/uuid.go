package codec

import (
	"context"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
)

// UUIDText returns a Codec between canonical UUID text and uuid.UUID.
// Decoding accepts the forms uuid.Parse accepts; encoding always yields the
// lower-case hyphenated form.
func UUIDText() Codec[string, uuid.UUID] { return uuidCodec{} }

type uuidCodec struct{}

func (uuidCodec) Decode(ctx context.Context, a string) (uuid.UUID, error) {
	id, err := uuid.Parse(a)
	if err != nil {
		return uuid.Nil, recskema.Issues{{Path: "/", Code: recskema.CodeInvalidFormat, Message: "invalid UUID", Hint: "uuid", Cause: err}}
	}
	return id, nil
}

func (uuidCodec) Encode(ctx context.Context, b uuid.UUID) (string, error) {
	return b.String(), nil
}
