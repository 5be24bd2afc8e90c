package models

import "github.com/golang-jwt/jwt/v5"

// Scope is a capability tag granted to an access token.
type Scope string

const (
	ScopeAdminAll       Scope = "service:admin"
	ScopeBulletin       Scope = "service:bulletin"
	ScopeFactrakLimited Scope = "service:factrak:limited"
	ScopeFactrakFull    Scope = "service:factrak:full"
	ScopeFactrakAdmin   Scope = "service:factrak:admin"
	ScopeEphmatch       Scope = "service:ephmatch"
)

// LevelAuthenticated is the lowest token level that identifies a signed-in user.
const LevelAuthenticated = 3

// AccessToken is the evaluated form of a bearer credential. The zero value grants nothing.
type AccessToken struct {
	UserID string  `json:"userID"`
	Name   string  `json:"name"`
	Scopes []Scope `json:"scopes"`
	Level  int     `json:"level"`
}

// TokenClaims is the JWT payload carried by bearer tokens.
type TokenClaims struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Scopes []Scope `json:"scopes"`
	Level  int     `json:"level"`
	jwt.RegisteredClaims
}
