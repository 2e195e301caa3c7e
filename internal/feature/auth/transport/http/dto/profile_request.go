package dto

// UpdateProfileReq represents the request body for PUT /api/user/profile.
// Absent name or bio fields are left unchanged. An absent id never matches
// the caller, so the update is refused as forbidden.
type UpdateProfileReq struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}
