package model

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of user roles. The persisted form is the lowercase
// code; anything else is rejected when read from or written to storage.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleOperator      Role = "operator"
	RoleSeller        Role = "seller"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdministrator, RoleOperator, RoleSeller}

// ErrUnknownRole is returned for role codes outside the closed set.
type ErrUnknownRole struct {
	Value string
}

func (e ErrUnknownRole) Error() string {
	return fmt.Sprintf("unknown role %q", e.Value)
}

// ParseRole maps a persisted or user-supplied code to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdministrator, RoleOperator, RoleSeller:
		return Role(s), nil
	}
	return "", ErrUnknownRole{Value: s}
}

// Name returns the human-readable label for the role.
func (r Role) Name() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleOperator:
		return "Operator"
	case RoleSeller:
		return "Seller"
	}
	return string(r)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole{Value: string(r)}
	}
	return string(r), nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src interface{}) error {
	s, err := scanString(src, "Role")
	if err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
