package dto

type UploadResponse struct {
	URL      string `json:"url" example:"http://localhost:5000/uploads/blog-images/0b5c1f1e-6c1d-4f5e-9a57-3c1f0f7e5c11.png"`
	PublicID string `json:"publicId" example:"blog-images/0b5c1f1e-6c1d-4f5e-9a57-3c1f0f7e5c11.png"`
}
