package auth

// Authority is the capability granted to a principal, e.g. ROLE_ADMIN
type Authority string

// AuthorityPrefix is prepended to the role name to form its authority
const AuthorityPrefix = "ROLE_"

// DeriveAuthority maps a role to its single authority
func DeriveAuthority(role Role) Authority {
	return Authority(AuthorityPrefix + string(role))
}

// HasAuthority reports whether the principal holds any of the required authorities
func HasAuthority(p Principal, required ...Authority) bool {
	for _, a := range required {
		if p.Authority == a {
			return true
		}
	}
	return false
}
