package domain

// Policy decides whether an identity may perform an operation. It holds no
// state; the zero value is ready to use.
type Policy struct{}

// Authorize allows the identity when its role is one of roles.
func (Policy) Authorize(id Identity, roles ...string) error {
	if id.Role == "" {
		return ErrInvalidToken
	}
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeSubject allows admins to act on any user and everyone else only
// on themselves.
func (Policy) AuthorizeSubject(id Identity, userID string) error {
	if id.IsAdmin() {
		return nil
	}
	if id.SubjectID == "" || id.SubjectID != userID {
		return ErrForbidden
	}
	return nil
}
