// Package models contains the typed entities decoded from the platform's
// JSON API, together with the tolerant decoding rules that absorb its known
// inconsistencies.
package models

// Avatar is the platform's two-part avatar reference: a background color
// and a rendered image name.
type Avatar struct {
	BackgroundColor string `json:"b"`
	ImageName       string `json:"i"`
}

// AuthorInfo is the flattened author block the platform inlines into rants
// and comments.
type AuthorInfo struct {
	UserID      int     `json:"user_id"`
	Username    string  `json:"user_username"`
	UserScore   int     `json:"user_score"`
	Avatar      Avatar  `json:"user_avatar"`
	AvatarLarge Avatar  `json:"user_avatar_lg"`
	Premium     IntBool `json:"user_dpp"` // absent for non-subscribers, defaults to 0
}
