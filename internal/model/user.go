package model

// User roles. Admins manage person records; staff may record care.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is an account that can authenticate against the credential store.
type User struct {
	ID           int64  `db:"id" json:"id"`
	FirstName    string `db:"firstname" json:"first_name"`
	Surname      string `db:"surname" json:"surname"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=admin staff"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}
