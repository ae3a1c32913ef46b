package jwtx

// Role markers recognised by the default vocabulary. These are exact-match
// strings: "role_admin" or "ADMIN" do not count.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// RoleVocabulary names the role strings that map onto the IsAdmin/IsUser
// convenience flags of a Principal.
type RoleVocabulary struct {
	Admin string
	User  string
}

// DefaultRoles is the fleet-wide vocabulary.
var DefaultRoles = RoleVocabulary{Admin: RoleAdmin, User: RoleUser}

// Principal is the verified identity derived from a token. It is built
// fresh per successful verification, lives only for the request, and is
// never persisted.
type Principal struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"is_admin"`
	IsUser  bool     `json:"is_user"`
}

// NewPrincipal derives a Principal from verified claims under the given
// vocabulary.
func NewPrincipal(claims Claims, vocab RoleVocabulary) Principal {
	return Principal{
		Subject: claims.Subject,
		Roles:   claims.Roles,
		IsAdmin: claims.HasRole(vocab.Admin),
		IsUser:  claims.HasRole(vocab.User),
	}
}

// HasRole reports set membership of the exact role string.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of the
// required roles. An empty requirement admits everyone.
func (p Principal) HasAnyRole(required ...string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}
