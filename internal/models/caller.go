package models

// Caller is the verified identity of a requester, produced exclusively by
// the auth gate from the session cookie's custom claims. The claims are
// trusted without re-derivation.
type Caller struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// CanEdit reports whether the caller may mutate a project owned by
// authorEmail: the author or any admin.
func (c *Caller) CanEdit(authorEmail string) bool {
	return c.IsAdmin || c.Email == authorEmail
}
