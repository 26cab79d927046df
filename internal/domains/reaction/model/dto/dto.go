package dto

type ToggleReactionResponse struct {
	LocationID   string `json:"location_id"`
	Kind         string `json:"kind"`
	Active       bool   `json:"active"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
}
