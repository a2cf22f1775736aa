// Package auth validates bearer tokens issued by the identity provider.
// The API never handles credentials itself; it trusts HS256 tokens signed
// with the shared client secret and reads roles from the realm_access
// claim.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/savannah/config"
)

// ErrInvalidToken is returned for tokens that fail signature or claim
// validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// RealmAccess mirrors the provider's role claim.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims is the token payload the API reads.
type Claims struct {
	Username    string      `json:"preferred_username"`
	Email       string      `json:"email"`
	RealmAccess RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	Subject  string
	Username string
	Email    string
	Roles    []string
}

// HasRole reports whether the identity carries role.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Verifier checks tokens against the configured provider secret.
type Verifier struct {
	secret []byte
	realm  string
}

// NewVerifier builds a Verifier from the OIDC settings.
func NewVerifier(cfg config.OIDCConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.ClientSecret), realm: cfg.Realm}
}

// Verify parses and validates a raw token and returns the caller identity.
func (v *Verifier) Verify(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.RealmAccess.Roles,
	}, nil
}

// Issue signs a token for subject with the given roles, valid for ttl.
// Used by the seed tooling and tests; production tokens come from the
// provider.
func (v *Verifier) Issue(subject, username string, roles []string, ttl time.Duration) (string, error) {
	claims := Claims{
		Username:    username,
		RealmAccess: RealmAccess{Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.realm,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
