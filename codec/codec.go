// Package codec converts between wire representations (A) and domain
// representations (B) of scalar field values.
package codec

import "context"

// Codec performs bidirectional transformation and validation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error) // wire -> domain
	Encode(ctx context.Context, b B) (A, error) // domain -> wire (canonical form)
}
