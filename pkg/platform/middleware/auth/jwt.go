package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/strings"
)

type tokenClaims struct {
	NAVident string   `json:"NAVident"`
	Groups   []string `json:"groups"`
	jwt.RegisteredClaims
}

// HMACValidator validates HS256 tokens and maps group ids to roles.
type HMACValidator struct {
	key        []byte
	issuer     string
	audience   string
	groupRoles map[string]id.Rolle
}

// NewHMACValidator builds a validator. groupRoles maps a group claim value to a role.
func NewHMACValidator(signingKey, issuer, audience string, groupRoles map[string]id.Rolle) *HMACValidator {
	return &HMACValidator{
		key:        []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		groupRoles: groupRoles,
	}
}

func (v *HMACValidator) ValidateToken(tokenString string) (*Claims, error) {
	var c tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &c,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	ident, err := id.ParseNavIdent(c.NAVident)
	if err != nil {
		return nil, fmt.Errorf("token NAVident: %w", err)
	}

	var roller []id.Rolle
	for _, g := range strings.DedupeAndTrim(c.Groups) {
		if rolle, ok := v.groupRoles[g]; ok {
			roller = append(roller, rolle)
		}
	}
	return &Claims{NavIdent: ident, Roller: roller}, nil
}

// Issue signs a token for ident with the given groups. Used by the admin CLI for
// local development and by tests.
func (v *HMACValidator) Issue(ident id.NavIdent, groups []string, now time.Time, ttl time.Duration) (string, error) {
	c := tokenClaims{
		NAVident: string(ident),
		Groups:   groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.key)
}
