package models

import (
	"encoding/json"
	"fmt"
)

// RantType selects the content category when posting.
type RantType int

const (
	RantTypeRant     RantType = 1
	RantTypeCollab   RantType = 2
	RantTypeMeme     RantType = 3
	RantTypeQuestion RantType = 4
	RantTypeDevDuck  RantType = 5
	RantTypeRandom   RantType = 6
)

// Rant is the full single-rant representation served by the rant detail
// endpoint.
type Rant struct {
	ID          int
	Text        string
	Score       int
	CreatedTime int64
	VoteState   VoteState
	NumComments int
	Tags        []string
	Edited      bool
	Favorited   bool
	Special     string
	AuthorInfo
	AttachedImage *AttachedImage
	Links         []Link
	Collab        *Collab
	Weekly        *WeeklyInfo
}

type rantWire struct {
	ID          int             `json:"id"`
	Text        string          `json:"text"`
	Score       int             `json:"score"`
	CreatedTime int64           `json:"created_time"`
	VoteState   *VoteState      `json:"vote_state"`
	NumComments int             `json:"num_comments"`
	Tags        []string        `json:"tags"`
	Edited      IntBool         `json:"edited"`
	Favorited   IntBool         `json:"favorited"`
	Special     json.RawMessage `json:"special"`
	AuthorInfo
	AttachedImage json.RawMessage `json:"attached_image"`
	Links         json.RawMessage `json:"links"`
	Weekly        json.RawMessage `json:"weekly"`
	collabWire
}

func (w *rantWire) require(entity string) error {
	if w.ID == 0 {
		return &FieldError{Entity: entity, Field: "id"}
	}
	if w.VoteState == nil {
		return &FieldError{Entity: entity, Field: "vote_state"}
	}
	if w.CreatedTime == 0 {
		return &FieldError{Entity: entity, Field: "created_time"}
	}
	if w.UserID == 0 {
		return &FieldError{Entity: entity, Field: "user_id"}
	}
	return nil
}

func (w *rantWire) special() string {
	// sentinel-typed: a string when set, occasionally the integer -1
	var fs FlexString
	if tryUnmarshal(w.Special, &fs) {
		return fs.String()
	}
	return ""
}

func (r *Rant) UnmarshalJSON(data []byte) error {
	var w rantWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("rant: %w", err)
	}
	if err := w.require("rant"); err != nil {
		return err
	}
	*r = Rant{
		ID:            w.ID,
		Text:          w.Text,
		Score:         w.Score,
		CreatedTime:   w.CreatedTime,
		VoteState:     *w.VoteState,
		NumComments:   w.NumComments,
		Tags:          w.Tags,
		Edited:        w.Edited.Bool(),
		Favorited:     w.Favorited.Bool(),
		Special:       w.special(),
		AuthorInfo:    w.AuthorInfo,
		AttachedImage: decodeAttachedImage(w.AttachedImage),
		Links:         decodeLinks(w.Links, w.Text),
		Collab:        w.collabWire.decode(),
		Weekly:        decodeWeekly(w.Weekly),
	}
	return nil
}

// RantInFeed is the trimmed rant representation served inside feed pages.
// It carries no favorite flag, collab block or weekly metadata.
type RantInFeed struct {
	ID          int
	Text        string
	Score       int
	CreatedTime int64
	VoteState   VoteState
	NumComments int
	Tags        []string
	Edited      bool
	AuthorInfo
	AttachedImage *AttachedImage
	Links         []Link
}

func (r *RantInFeed) UnmarshalJSON(data []byte) error {
	var w rantWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("feed rant: %w", err)
	}
	if err := w.require("feed rant"); err != nil {
		return err
	}
	*r = RantInFeed{
		ID:            w.ID,
		Text:          w.Text,
		Score:         w.Score,
		CreatedTime:   w.CreatedTime,
		VoteState:     *w.VoteState,
		NumComments:   w.NumComments,
		Tags:          w.Tags,
		Edited:        w.Edited.Bool(),
		AuthorInfo:    w.AuthorInfo,
		AttachedImage: decodeAttachedImage(w.AttachedImage),
		Links:         decodeLinks(w.Links, w.Text),
	}
	return nil
}

// RantInSubscribedFeed is the rant shape nested inside subscribed-feed
// activity items. It reaches the typed decoder only after the activity blob
// has been round-tripped through the flexible JSON value.
type RantInSubscribedFeed struct {
	ID          int
	Text        string
	Score       int
	CreatedTime int64
	VoteState   VoteState
	NumComments int
	Tags        []string
	AuthorInfo
	AttachedImage *AttachedImage
	Links         []Link
}

func (r *RantInSubscribedFeed) UnmarshalJSON(data []byte) error {
	var w rantWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("subscribed feed rant: %w", err)
	}
	if err := w.require("subscribed feed rant"); err != nil {
		return err
	}
	*r = RantInSubscribedFeed{
		ID:            w.ID,
		Text:          w.Text,
		Score:         w.Score,
		CreatedTime:   w.CreatedTime,
		VoteState:     *w.VoteState,
		NumComments:   w.NumComments,
		Tags:          w.Tags,
		AuthorInfo:    w.AuthorInfo,
		AttachedImage: decodeAttachedImage(w.AttachedImage),
		Links:         decodeLinks(w.Links, w.Text),
	}
	return nil
}
