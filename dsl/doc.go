// Package dsl provides the record schema DSL for recskema.
//
// Overview
//   - Builder API: declare ordered typed fields with Record()/Field()/Required()/Default()/MustBuild().
//   - Field types: String()/Int()/Float()/Bool()/Email()/SecretString()/Flags(set)/UUID()/Timestamp() and the UUIDList()/StringList() collections.
//   - Pipeline: Before rules see the raw map, Transform steps rewrite single raw fields, fields are coerced and checked, After rules see the typed Instance.
//   - Instances: Get/Value[T] for reads, Set re-validates assignments and enforces frozen fields.
//   - Serialization: Dump renders the native or wire shape with include/exclude/alias control and optional serializer hooks.
//   - Dynamic schemas: Spec/FieldDef describe a record as data; LoadSpecYAML reads one and BuildSchema applies variants.
//
// Entry points
//   - Record(): create a record builder; chain Field and its modifiers, then Build()/MustBuild().
//   - (*Schema).Validate(ctx, raw, opts...): build an Instance or return Issues.
//   - (*Schema).Dump / (*Schema).EncodeJSON: serialize an Instance.
//   - (*Schema).JSONSchema(): export the record as a JSON Schema document.
//
// File layout (roles)
//   - kind.go: field kinds and Type constructors.
//   - field.go: FieldSpec and rule/serializer function types.
//   - coerce.go: per-kind coercion with bounds and length checks.
//   - record_builder.go: recordBuilder/fieldStep and Build/MustBuild.
//   - record_schema.go: Schema accessors and JSON Schema export.
//   - validate.go: the validation pipeline.
//   - instance.go: Instance accessors, assignment and rendering.
//   - serialize.go: Dump and EncodeJSON.
//   - dynamic.go/dynamic_yaml.go: data-described schemas and variants.
//
// Example (quickstart)
//
//	package main
//
//	import (
//	    "context"
//
//	    g "github.com/reoring/recskema/dsl"
//	    "github.com/reoring/recskema"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    user := g.Record().Name("User").
//	        Field("name",     g.String()).Required().
//	        Field("email",    g.Email()).Required().Frozen().
//	        Field("password", g.SecretString()).Required().
//	        UnknownStrict().
//	        MustBuild()
//
//	    raw, _ := recskema.DecodeObjectBytes([]byte(`{"name":"ann","email":"ann@example.com","password":"pw"}`))
//	    inst, err := user.Validate(ctx, raw)
//	    if err != nil {
//	        // err is recskema.Issues
//	        return
//	    }
//	    _, _ = user.Dump(ctx, inst, g.DumpOpt{Shape: recskema.ShapeWire})
//	}
package dsl
