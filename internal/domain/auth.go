package domain

// AuthPayload is the decoded body of an administrative token. The engine
// does not manage credentials; it only verifies tokens minted by the
// surrounding platform and reads the role claim.
type AuthPayload struct {
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	Role       string   `json:"role"`
	Permission []string `json:"permission"`
}

// IsAdmin reports whether the token holder may call administrative
// operations (manual end, disqualification, admin enrollment).
func (p AuthPayload) IsAdmin() bool {
	if p.Role == "admin" {
		return true
	}
	for _, perm := range p.Permission {
		if perm == "contest:admin" {
			return true
		}
	}
	return false
}
