package session

// AuthError reports a rejected or malformed login exchange. The session is
// left untouched; the caller should re-prompt for credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// RegisterError reports a rejected registration. No session is created.
type RegisterError struct {
	Message string
}

func (e *RegisterError) Error() string { return e.Message }
