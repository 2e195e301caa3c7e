package dto

// RegisterReq represents the request body for POST /api/auth/register.
// Emails are not normalized; the value is stored exactly as sent.
type RegisterReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
