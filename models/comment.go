package models

import (
	"encoding/json"
	"fmt"
)

// Comment is a comment on a rant.
type Comment struct {
	ID          int
	RantID      int
	Body        string
	Score       int
	CreatedTime int64
	VoteState   VoteState
	Edited      bool
	AuthorInfo
	AttachedImage *AttachedImage
	Links         []Link
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	var w struct {
		ID          int        `json:"id"`
		RantID      int        `json:"rant_id"`
		Body        string     `json:"body"`
		Score       int        `json:"score"`
		CreatedTime int64      `json:"created_time"`
		VoteState   *VoteState `json:"vote_state"`
		Edited      IntBool    `json:"edited"`
		AuthorInfo
		AttachedImage json.RawMessage `json:"attached_image"`
		Links         json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	if w.ID == 0 {
		return &FieldError{Entity: "comment", Field: "id"}
	}
	if w.RantID == 0 {
		return &FieldError{Entity: "comment", Field: "rant_id"}
	}
	if w.VoteState == nil {
		return &FieldError{Entity: "comment", Field: "vote_state"}
	}
	if w.UserID == 0 {
		return &FieldError{Entity: "comment", Field: "user_id"}
	}
	*c = Comment{
		ID:            w.ID,
		RantID:        w.RantID,
		Body:          w.Body,
		Score:         w.Score,
		CreatedTime:   w.CreatedTime,
		VoteState:     *w.VoteState,
		Edited:        w.Edited.Bool(),
		AuthorInfo:    w.AuthorInfo,
		AttachedImage: decodeAttachedImage(w.AttachedImage),
		Links:         decodeLinks(w.Links, w.Body),
	}
	return nil
}
