package contract

const (
	PasswordMinLength = 8
	// bcrypt only consumes the first 72 bytes, longer inputs are rejected
	// instead of silently truncated.
	PasswordMaxLength = 72
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=20,nospaces"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=20,nospaces"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty"`
}

type UserResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}
