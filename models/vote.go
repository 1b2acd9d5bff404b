package models

import (
	"encoding/json"
	"fmt"
)

// VoteState is the current user's vote on a rant or comment, as echoed by
// the platform.
type VoteState int

const (
	VoteStateUpvoted   VoteState = 1
	VoteStateUnvoted   VoteState = 0
	VoteStateDownvoted VoteState = -1
	// VoteStateUnvotable marks content the current user may not vote on
	// (their own, or deleted).
	VoteStateUnvotable VoteState = -2
)

// UnmarshalJSON rejects raw values outside the enumerated set; an unknown
// vote state must fail the owning entity's decode rather than default.
func (v *VoteState) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vote state: %w", err)
	}
	switch VoteState(n) {
	case VoteStateUpvoted, VoteStateUnvoted, VoteStateDownvoted, VoteStateUnvotable:
		*v = VoteState(n)
		return nil
	}
	return fmt.Errorf("vote state: unknown value %d", n)
}

func (v VoteState) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(v))
}

// Votable reports whether the current user may change this vote.
func (v VoteState) Votable() bool {
	return v != VoteStateUnvotable
}

func (v VoteState) String() string {
	switch v {
	case VoteStateUpvoted:
		return "upvoted"
	case VoteStateUnvoted:
		return "unvoted"
	case VoteStateDownvoted:
		return "downvoted"
	case VoteStateUnvotable:
		return "unvotable"
	}
	return fmt.Sprintf("VoteState(%d)", int(v))
}
