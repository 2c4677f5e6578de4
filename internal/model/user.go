// Package model defines domain entities for the application.
package model

// User is a registered attendee profile.
// ID is the stable identity; Role and Interests are optional.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// HasInterest reports whether the user lists the given interest.
func (u User) HasInterest(interest string) bool {
	for _, i := range u.Interests {
		if i == interest {
			return true
		}
	}
	return false
}

// Clone returns a copy of the user with its own interests slice.
func (u User) Clone() User {
	c := u
	if u.Interests != nil {
		c.Interests = append([]string(nil), u.Interests...)
	}
	return c
}

// UserPatch is a partial update to a user. Nil fields are left unchanged;
// the user ID itself is immutable.
type UserPatch struct {
	Name      *string   `json:"name"`
	Role      *string   `json:"role"`
	Interests *[]string `json:"interests"`
}

// Apply returns a copy of u with the patch fields laid over it.
func (p UserPatch) Apply(u User) User {
	out := u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.Interests != nil {
		out.Interests = append([]string(nil), (*p.Interests)...)
	}
	return out
}
