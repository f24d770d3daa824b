package user

import "time"

type User struct {
	ID        string
	Login     string
	Password  []byte
	CreatedAt time.Time
}

// Public is what the frontend gets to see, both in responses and in the
// session cookie payload.
type Public struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Login: u.Login}
}
