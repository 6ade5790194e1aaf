package services

// UnknownUserHash exposes the digest compared against for unknown logins.
func UnknownUserHash() string {
	return unknownUserHash
}
