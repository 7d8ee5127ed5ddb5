package dto

type SuccessResponse struct {
	Success    bool        `json:"success" example:"true"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type FieldError struct {
	Field   string `json:"field" example:"title"`
	Message string `json:"message" example:"Title must be between 3 and 200 characters"`
}

type ErrorResponse struct {
	Success bool         `json:"success" example:"false"`
	Message string       `json:"message,omitempty" example:"Blog post not found"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
