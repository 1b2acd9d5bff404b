package models

// FeedSort selects rant feed ordering.
type FeedSort string

const (
	FeedSortAlgo   FeedSort = "algo"
	FeedSortRecent FeedSort = "recent"
	FeedSortTop    FeedSort = "top"
)

// FeedRange narrows the top sort to a time window.
type FeedRange string

const (
	FeedRangeDay   FeedRange = "day"
	FeedRangeWeek  FeedRange = "week"
	FeedRangeMonth FeedRange = "month"
	FeedRangeAll   FeedRange = "all"
)

// RantFeed is a decoded page of the main rant feed.
type RantFeed struct {
	Rants []RantInFeed
	// Set is the pagination cursor to echo back as prev_set on the next
	// page fetch.
	Set string
	// WeeklyRantWeek is the running weekly-topic week number.
	WeeklyRantWeek int
	// NumNotifs is the caller's unread notification count, piggybacked on
	// feed responses.
	NumNotifs int
}

// RecommendedUser is one entry of the subscribed feed's recommendation
// blob.
type RecommendedUser struct {
	UserID   int        `json:"user_id"`
	Username string     `json:"username"`
	Avatar   FlexString `json:"avatar"`
	Score    int        `json:"score"`
}

// SubscribedFeed is the decoded subscription feed. Its wire payload nests
// dynamically-shaped blobs inside a typed envelope, so each part below is
// produced by re-serializing a flexible-value subtree through the normal
// typed decoders.
type SubscribedFeed struct {
	Items            []RantInSubscribedFeed
	RecommendedUsers []RecommendedUser
	UsernameMap      SubscribedUserMap
}

// WeekItem is one entry of the weekly-topic list.
type WeekItem struct {
	Week     int    `json:"week"`
	Topic    string `json:"topic"`
	PrevLink string `json:"prev_link"`
	Date     string `json:"date"`
	NumRants int    `json:"num_rants"`
}
