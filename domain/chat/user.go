package chat

import "time"

// User is a registered account. Username never changes after creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public projection of a User.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// Identity is the caller resolved from a bearer credential.
// The zero value is Anonymous.
type Identity struct {
	UserID   string
	Username string
}

var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
