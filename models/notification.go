package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// NotificationType is one of the six notification kinds the platform emits.
type NotificationType string

const (
	NotificationContentVote    NotificationType = "content_vote"
	NotificationCommentVote    NotificationType = "comment_vote"
	NotificationCommentContent NotificationType = "comment_content"
	NotificationCommentDiscuss NotificationType = "comment_discuss"
	NotificationCommentMention NotificationType = "comment_mention"
	NotificationRantSub        NotificationType = "rant_sub"
)

// Notification is one item of the notification feed.
type Notification struct {
	Type        NotificationType `json:"type"`
	RantID      int              `json:"rant_id"`
	CommentID   *int             `json:"comment_id,omitempty"`
	UserID      int              `json:"uid"`
	CreatedTime int64            `json:"created_time"`
	Read        IntBool          `json:"read"`
}

// NotifUser is one entry of the notification feed's username map: the
// server keys the object by user-id strings, so the id is recovered from
// the key rather than from the value.
type NotifUser struct {
	UserID string
	Name   string
	Avatar Avatar
}

// NotifUserMap decodes the notification-feed username map ({"<uid>":
// {"name": ..., "avatar": {...}}}). Entries are ordered by numeric user id;
// every key present in the source object is preserved.
type NotifUserMap []NotifUser

func (m *NotifUserMap) UnmarshalJSON(data []byte) error {
	var raw map[string]struct {
		Name   string `json:"name"`
		Avatar Avatar `json:"avatar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("notif username map: %w", err)
	}
	out := make(NotifUserMap, 0, len(raw))
	for uid, v := range raw {
		out = append(out, NotifUser{UserID: uid, Name: v.Name, Avatar: v.Avatar})
	}
	sortByUserID(out, func(u NotifUser) string { return u.UserID })
	*m = out
	return nil
}

// SubscribedUser is one entry of the subscribed feed's username map. Its
// field set is incompatible with NotifUser (flat avatar string plus score),
// so the two maps have independent decoders on purpose.
type SubscribedUser struct {
	UserID   string
	Username string
	Avatar   string
	Score    int
}

// SubscribedUserMap decodes the subscribed-feed username map ({"<uid>":
// {"username": ..., "avatar": ..., "score": ...}}).
type SubscribedUserMap []SubscribedUser

func (m *SubscribedUserMap) UnmarshalJSON(data []byte) error {
	var raw map[string]struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
		Score    int    `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("subscribed username map: %w", err)
	}
	out := make(SubscribedUserMap, 0, len(raw))
	for uid, v := range raw {
		out = append(out, SubscribedUser{
			UserID:   uid,
			Username: v.Username,
			Avatar:   v.Avatar,
			Score:    v.Score,
		})
	}
	sortByUserID(out, func(u SubscribedUser) string { return u.UserID })
	*m = out
	return nil
}

// sortByUserID orders entries by numeric id: numeric keys first in
// ascending order, then any non-numeric keys in string order. Comparing
// class before value keeps the ordering strict when the two kinds mix.
func sortByUserID[T any](entries []T, key func(T) string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := key(entries[i]), key(entries[j])
		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		switch {
		case errA == nil && errB == nil:
			return na < nb
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return a < b
	})
}

// NotificationFeed is the decoded notification-feed payload.
type NotificationFeed struct {
	CheckTime   int64          `json:"check_time"`
	Items       []Notification `json:"items"`
	UsernameMap NotifUserMap   `json:"username_map"`
}

// Unread counts items not yet marked read.
func (f *NotificationFeed) Unread() int {
	n := 0
	for _, item := range f.Items {
		if !item.Read.Bool() {
			n++
		}
	}
	return n
}
