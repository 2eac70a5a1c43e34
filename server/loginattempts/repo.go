// Package loginattempts counts failed logins per username inside a sliding
// lockout window.
package loginattempts

// Repo records failed login attempts.
type Repo interface {
	// Fail records one failed attempt and returns the number of failures in the current window.
	Fail(username string) (int, error)
	// Count returns the failures recorded in the current window.
	Count(username string) int
	// Reset forgets every failure for username, e.g. after a successful login.
	Reset(username string)
}
