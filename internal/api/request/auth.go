package request

type RegisterRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// LoginRequest carries credentials. Form logins send the email as "username".
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
