package models

// User account types.
const (
	UserTypeRenter = "renter"
	UserTypeRentor = "rentor"
	UserTypeBoth   = "both"
)

// User is an account known to the identity provider.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	JoinDate     string `json:"joinDate"`
	PasswordHash string `json:"-"`
}
