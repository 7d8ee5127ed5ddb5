package dto

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50" example:"Aiko"`
	Email    string `json:"email" validate:"required,email" example:"aiko@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret123"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"aiko@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

type AuthResponse struct {
	ID    string `json:"id" example:"66c6248b98c56c39f018e7d2"`
	Name  string `json:"name" example:"Aiko"`
	Email string `json:"email" example:"aiko@example.com"`
	Token string `json:"token,omitempty"`
}
