package dto

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Language    *string `json:"language,omitempty"`
	Country     *string `json:"country,omitempty"`
}
