package models

import "time"

// AuthToken is the session credential triple issued by the platform's auth
// endpoint, plus the owning user id. It is immutable; a refresh produces a
// new value rather than mutating this one.
type AuthToken struct {
	ID         int    `json:"id"`
	Key        string `json:"key"`
	ExpireTime int64  `json:"expire_time"`
	UserID     int    `json:"user_id"`
}

// Expired reports whether the token must be refreshed before use.
func (t AuthToken) Expired(now time.Time) bool {
	return t.ExpireTime <= now.Unix()
}
