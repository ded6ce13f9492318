package models

import "time"

// User is the identity returned by the auth endpoints and kept in the session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"fullName"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Account is the server-side user record.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a *Account) ToPublic() User {
	return User{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
	}
}

// AuthResult is what a successful login or registration returns.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
