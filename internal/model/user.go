package model

import "strings"

// AuthMethodKey identifies one of the supported identity providers.
type AuthMethodKey string

const (
	AuthMethodMS     AuthMethodKey = "MS"
	AuthMethodGoogle AuthMethodKey = "GOOGLE"
	AuthMethodGitHub AuthMethodKey = "GITHUB"
)

// AuthMethodKeys lists every supported provider key in display order.
var AuthMethodKeys = []AuthMethodKey{AuthMethodMS, AuthMethodGoogle, AuthMethodGitHub}

// ParseAuthMethodKey accepts a provider key in any letter case.
func ParseAuthMethodKey(s string) (AuthMethodKey, bool) {
	key := AuthMethodKey(strings.ToUpper(strings.TrimSpace(s)))

	switch key {
	case AuthMethodMS, AuthMethodGoogle, AuthMethodGitHub:
		return key, true
	}

	return "", false
}

// String returns the key as stored.
func (k AuthMethodKey) String() string {
	return string(k)
}

// Header returns the lower-cased form sent in the loginMethod header.
func (k AuthMethodKey) Header() string {
	return strings.ToLower(string(k))
}

// User is the logged-in administrator.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Photo    string `json:"photo,omitempty"`

	// Secret is the JB Manager secret issued at registration, if any
	Secret string `json:"jb_secret,omitempty"`
}
