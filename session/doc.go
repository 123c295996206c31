// Package session provides the optional Redis-backed session store used by
// the goCTM client to share one authenticated token across co-operating
// processes. Records are keyed by a hash of the login (never the login
// itself) and expire with the token.
package session
