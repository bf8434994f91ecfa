package console

import "crypto/subtle"

// Session tracks who is at the console.
type Session struct {
	admin bool
}

// IsAdmin reports whether the session holds admin rights.
func (s *Session) IsAdmin() bool {
	return s.admin
}

// Login grants admin rights when password matches want.
func (s *Session) Login(password, want string) bool {
	if want == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(want)) != 1 {
		return false
	}
	s.admin = true
	return true
}

// Logout drops admin rights.
func (s *Session) Logout() {
	s.admin = false
}
