package user

import (
	g "github.com/reoring/recskema/dsl"
)

// MinAdminAccessLevel is the lowest access level an admin account may hold.
const MinAdminAccessLevel = 5

// AccountSpec is the data form of the account model. The "admin" variant
// adds a required access level.
func AccountSpec() g.Spec {
	minLevel := float64(MinAdminAccessLevel)
	return g.Spec{
		Name: "Account",
		Fields: []g.FieldDef{
			{Name: "username", Type: "string", Required: true},
			{Name: "email", Type: "string", Required: true},
		},
		Variants: map[string][]g.FieldDef{
			"admin": {
				{Name: "access_level", Type: "int", Required: true, Min: &minLevel},
			},
		},
	}
}

// AccountSchema builds the account model, with the admin variant when
// admin is set.
func AccountSchema(admin bool) (*g.Schema, error) {
	if admin {
		return g.BuildSchema(AccountSpec(), "admin")
	}
	return g.BuildSchema(AccountSpec())
}
