package models

import (
	"encoding/json"
	"fmt"
)

// ProfileContentType selects which content category a profile fetch pages
// through.
type ProfileContentType string

const (
	ProfileContentAll       ProfileContentType = "all"
	ProfileContentRants     ProfileContentType = "rants"
	ProfileContentUpvoted   ProfileContentType = "upvoted"
	ProfileContentComments  ProfileContentType = "comments"
	ProfileContentFavorites ProfileContentType = "favorites"
	ProfileContentViewed    ProfileContentType = "viewed"
)

// ProfileCounts carries the per-category totals reported alongside profile
// content.
type ProfileCounts struct {
	Rants     int `json:"rants"`
	Upvoted   int `json:"upvoted"`
	Comments  int `json:"comments"`
	Favorites int `json:"favorites"`
	Collabs   int `json:"collabs"`
}

// ProfileContent aggregates a user's content lists. Favorites and Viewed
// exist only on the requesting user's own profile and resolve to absent for
// everyone else.
type ProfileContent struct {
	Rants     []RantInFeed
	Upvoted   []RantInFeed
	Comments  []Comment
	Favorites []RantInFeed
	Viewed    []RantInFeed
	Counts    ProfileCounts
}

// Profile is a user's account page: metadata plus paged content.
type Profile struct {
	Username    string
	Score       int
	About       string
	Location    string
	CreatedTime int64
	Skills      string
	GitHub      string
	Website     string
	Premium     bool
	Avatar      Avatar
	AvatarSmall Avatar
	Content     ProfileContent
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var w struct {
		Username    string  `json:"username"`
		Score       int     `json:"score"`
		About       string  `json:"about"`
		Location    string  `json:"location"`
		CreatedTime int64   `json:"created_time"`
		Skills      string  `json:"skills"`
		GitHub      string  `json:"github"`
		Website     string  `json:"website"`
		Premium     IntBool `json:"dpp"` // defaults to 0 when absent
		Avatar      Avatar  `json:"avatar"`
		AvatarSmall Avatar  `json:"avatar_sm"`
		Content     struct {
			Content struct {
				Rants     []RantInFeed    `json:"rants"`
				Upvoted   []RantInFeed    `json:"upvoted"`
				Comments  []Comment       `json:"comments"`
				Favorites json.RawMessage `json:"favorites"`
				Viewed    json.RawMessage `json:"viewed"`
			} `json:"content"`
			Counts ProfileCounts `json:"counts"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if w.Username == "" {
		return &FieldError{Entity: "profile", Field: "username"}
	}
	if w.CreatedTime == 0 {
		return &FieldError{Entity: "profile", Field: "created_time"}
	}
	content := ProfileContent{
		Rants:    w.Content.Content.Rants,
		Upvoted:  w.Content.Content.Upvoted,
		Comments: w.Content.Content.Comments,
		Counts:   w.Content.Counts,
	}
	// own-profile-only lists; absent or malformed stays nil
	var favs []RantInFeed
	if tryUnmarshal(w.Content.Content.Favorites, &favs) {
		content.Favorites = favs
	}
	var viewed []RantInFeed
	if tryUnmarshal(w.Content.Content.Viewed, &viewed) {
		content.Viewed = viewed
	}
	*p = Profile{
		Username:    w.Username,
		Score:       w.Score,
		About:       w.About,
		Location:    w.Location,
		CreatedTime: w.CreatedTime,
		Skills:      w.Skills,
		GitHub:      w.GitHub,
		Website:     w.Website,
		Premium:     w.Premium.Bool(),
		Avatar:      w.Avatar,
		AvatarSmall: w.AvatarSmall,
		Content:     content,
	}
	return nil
}
