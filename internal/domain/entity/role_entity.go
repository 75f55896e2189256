package entity

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

const (
	// RegisterRedirect is where clients go after a successful registration.
	RegisterRedirect = "/login.html"
	// DefaultRedirect is the landing page for roles without a dedicated one.
	DefaultRedirect = "./home.html"
)

var roleRedirects = map[Role]string{
	RoleStudent:    "./home.html",
	RoleInstructor: "./instructor/dashboard.html",
	RoleAdmin:      "./admin/dashboard.html",
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// RequiresProfile reports whether accounts with this role must carry
// department and position.
func (r Role) RequiresProfile() bool {
	return r == RoleInstructor
}

// Redirect returns the landing page after login.
func (r Role) Redirect() string {
	if p, ok := roleRedirects[r]; ok {
		return p
	}
	return DefaultRedirect
}

func (r Role) String() string { return string(r) }
