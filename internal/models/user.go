package models

// User represents a stored user record.
// The follower and following sets are stored as absent attributes when
// empty (nil slices with omitempty), so every reader treats a missing
// attribute as the empty set.
type User struct {
	Username  string   `json:"username" dynamodbav:"username"`
	Email     string   `json:"email" dynamodbav:"email"`
	Password  []byte   `json:"-" dynamodbav:"password"` // bcrypt hash, never serialized
	Bio       string   `json:"bio" dynamodbav:"bio,omitempty"`
	Image     string   `json:"image" dynamodbav:"image,omitempty"`
	Followers []string `json:"-" dynamodbav:"followers,omitempty"`
	Following []string `json:"-" dynamodbav:"following,omitempty"`
}

// IsFollowedBy reports whether username is in the user's followers set
func (u *User) IsFollowedBy(username string) bool {
	return contains(u.Followers, username)
}

// Follows reports whether the user follows username
func (u *User) Follows(username string) bool {
	return contains(u.Following, username)
}

// Profile is the public view of a user relative to an optional viewer
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// ProfileFor builds the user's profile as seen by viewer.
// The following bit is false without a viewer.
func (u *User) ProfileFor(viewer *User) Profile {
	p := Profile{
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}
	if viewer != nil {
		p.Following = u.IsFollowedBy(viewer.Username)
	}
	return p
}

// UserView is the authenticated-user response shape, carrying the token
type UserView struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// RegisterRequest is the registration input
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login input
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdateRequest is the partial profile-update input.
// Nil fields are left untouched.
type UserUpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

func contains(set []string, member string) bool {
	for _, s := range set {
		if s == member {
			return true
		}
	}
	return false
}

// withMember returns the set with member added, no-op if already present
func withMember(set []string, member string) []string {
	if contains(set, member) {
		return set
	}
	return append(set, member)
}

// withoutMember returns the set with member removed, nil when it becomes
// empty so the attribute is dropped from storage
func withoutMember(set []string, member string) []string {
	var out []string
	for _, s := range set {
		if s != member {
			out = append(out, s)
		}
	}
	return out
}

// AddFollower records that username follows the user
func (u *User) AddFollower(username string) {
	u.Followers = withMember(u.Followers, username)
}

// RemoveFollower records that username no longer follows the user
func (u *User) RemoveFollower(username string) {
	u.Followers = withoutMember(u.Followers, username)
}

// AddFollowing records that the user follows username
func (u *User) AddFollowing(username string) {
	u.Following = withMember(u.Following, username)
}

// RemoveFollowing records that the user no longer follows username
func (u *User) RemoveFollowing(username string) {
	u.Following = withoutMember(u.Following, username)
}
