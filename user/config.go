package user

import (
	"strings"

	g "github.com/reoring/recskema/dsl"
)

// ConfigSchema is a user configuration record populated by field name or
// alias. Aliases are the upper-cased field names except username, which is
// "user". The record is frozen once built.
func ConfigSchema() *g.Schema {
	return g.Record().Name("UserConfig").
		AliasGenerator(strings.ToUpper).
		FrozenRecord().
		UnknownStrict().
		Field("username", g.String()).Required().Alias("user").
		Field("email", g.String()).Required().
		Field("age", g.Int()).
		Field("tags", g.StringList()).
		MustBuild()
}
