// Package user declares the user-facing record schemas built on dsl: the
// user account with roles, the public profile, the dynamic account model and
// the alias-driven configuration record.
package user

import (
	"context"

	"github.com/reoring/recskema/bitmask"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/rules"
)

// Role is the user role category. User is the base member (no bits).
var Role = bitmask.MustDefine("Role",
	bitmask.Explicit("User", 0),
	bitmask.Auto("Author"),
	bitmask.Auto("Editor"),
	bitmask.Auto("Admin"),
	bitmask.Auto("SuperAdmin"),
)

// Role members.
var (
	RoleUser       = Role.MustName("User")
	RoleAuthor     = Role.MustName("Author")
	RoleEditor     = Role.MustName("Editor")
	RoleAdmin      = Role.MustName("Admin")
	RoleSuperAdmin = Role.MustName("SuperAdmin")
)

// BasicSchema is the minimal user record: required name, frozen email and
// secret password, with role defaulting to the base member.
func BasicSchema() *g.Schema {
	return g.Record().Name("User").
		Field("name", g.String()).Required().
		Field("email", g.Email()).Required().Frozen().Describe("The email address of the user").
		Field("password", g.SecretString()).Required().Describe("The password of the user").
		Field("role", g.Flags(Role)).Default(0).Describe("The role of the user").
		MustBuild()
}

// Schema is the full user record. Passwords are checked on the raw input,
// then stored as a SHA-256 digest and never serialized. Only names in
// admins may hold the Admin role. The default wire form is {name, role}.
func Schema(admins ...string) *g.Schema {
	return g.Record().Name("User").
		Field("name", g.String()).Required().Rule("name_format", rules.NameFormat).
		Field("email", g.Email()).Required().Frozen().Describe("The email address of the user").
		Field("password", g.SecretString()).Required().Exclude().Describe("The password of the user").
		Field("role", g.Flags(Role)).Default("User").Describe("The role of the user").
		Before("name_and_password_required", rules.RequireKeys("name", "password")).
		Before("password_not_contains_name", rules.PasswordNotContains("name", "password")).
		Before("password_complexity", rules.PasswordComplexity("password")).
		Transform("password", "password_sha256", rules.SHA256Digest()).
		After("admin_allow_list", rules.RestrictFlags("role", "name", RoleAdmin, admins...)).
		Serializer(summary).
		MustBuild()
}

func summary(ctx context.Context, inst *g.Instance) (map[string]any, error) {
	name, _ := g.Value[string](inst, "name")
	role, _ := g.Value[bitmask.Value](inst, "role")
	return map[string]any{"name": name, "role": role.Name()}, nil
}
