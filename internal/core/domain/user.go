package domain

type Role string

const (
	RoleCollaborator  Role = "collaborator"
	RoleManager       Role = "manager"
	RoleAdministrator Role = "administrator"
)

type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsPrivileged reports whether the user may act on publications submitted by
// others (edit descriptions, toggle visibility, see hidden rows).
func (u User) IsPrivileged() bool {
	return u.Role == RoleManager || u.Role == RoleAdministrator
}

// CanEdit mirrors the platform rule: the submitter always may, privileged
// roles always may.
func (u User) CanEdit(p *Publication) bool {
	return p.Submitter == u.Username || u.IsPrivileged()
}

// CanView allows anyone on visible publications and restricts hidden ones to
// the submitter and privileged roles.
func (u User) CanView(p *Publication) bool {
	if p.Visible {
		return true
	}
	return p.Submitter == u.Username || u.IsPrivileged()
}
