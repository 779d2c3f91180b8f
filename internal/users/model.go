package users

import "time"

// Profile is the account record created at sign-up. Email never changes
// after creation and only PhotoURL can be updated.
type Profile struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Photo is an uploaded profile picture.
type Photo struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}
