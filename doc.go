// Package recskema provides:
//
//   - Declarative record schemas: ordered typed fields, defaults, aliases, frozen fields
//   - A validation pipeline (pre-coercion rules -> field coercion -> post-coercion rules)
//   - A stable error model via Issues (JSON Pointer, code, message)
//   - Native and wire-shaped serialization with include/exclude/alias control
//
// Design policy:
//   - Keep only the error model and shared options in the root package.
//   - Place the schema DSL under dsl/, bitmask categories under bitmask/, codecs under
//     codec/, reusable rules under rules/ and the CLI under cmd/recskema.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Record().
//		Field("name", dsl.String()).Required().
//		Field("email", dsl.Email()).Required().Frozen().
//		MustBuild()
//	raw, err := recskema.DecodeObjectBytes(body)
//	inst, err := s.Validate(ctx, raw)
//	out, err := s.Dump(ctx, inst, dsl.DumpOpt{Shape: recskema.ShapeWire})
package recskema
