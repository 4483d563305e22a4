package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

const ContextUserClaim = "context_user_claim"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type UserClaim struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (u *UserClaim) HasAnyRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if slices.Contains(u.Roles, role) {
			return true
		}
	}
	return false
}

// Identity is the subject, or the email for tokens issued without one.
func (u *UserClaim) Identity() string {
	if u == nil {
		return ""
	}
	if u.Subject != "" {
		return u.Subject
	}
	return u.Email
}

func CreateJwtSignedString(u UserClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, u)
	return token.SignedString([]byte(environment_variables.EnvironmentVariables.JWT_SECRET))
}

// ParseJwt validates tokenString against JWT_SECRET and returns its claims.
func ParseJwt(tokenString string) (*UserClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(environment_variables.EnvironmentVariables.JWT_SECRET), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaim)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
