package client

import (
	"context"
	"encoding/json"
	"strconv"

	"gorant/cache"
	"gorant/models"
)

// Feed fetches a page of the main rant feed. When a cursor store is
// configured, the previous page's set cursor is echoed back and the new one
// is persisted best-effort.
func (c *Client) Feed(ctx context.Context, token *models.AuthToken, sort models.FeedSort, rng models.FeedRange, limit, skip int) (*models.RantFeed, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	q := c.baseValues(&tok)
	q.Set("sort", string(sort))
	if sort == models.FeedSortTop && rng != "" {
		q.Set("range", string(rng))
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	if c.cursors != nil {
		if set, found, _ := c.cursors.GetString(ctx, cache.KeyFeedSet); found && set != "" {
			q.Set("prev_set", set)
		}
	}

	body, err := c.get(ctx, "/devrant/rants", q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success   bool                `json:"success"`
		Rants     []models.RantInFeed `json:"rants"`
		Set       string              `json:"set"`
		Wrw       int                 `json:"wrw"`
		NumNotifs int                 `json:"num_notifs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success {
		return nil, apiFailure(body, err)
	}

	if c.cursors != nil && resp.Set != "" {
		// best-effort; a cursor write must never fail the fetch
		_ = c.cursors.SetString(ctx, cache.KeyFeedSet, resp.Set)
	}
	return &models.RantFeed{
		Rants:          resp.Rants,
		Set:            resp.Set,
		WeeklyRantWeek: resp.Wrw,
		NumNotifs:      resp.NumNotifs,
	}, nil
}

// WeekList fetches the weekly-topic list.
func (c *Client) WeekList(ctx context.Context, token *models.AuthToken) ([]models.WeekItem, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/devrant/weekly-list", c.baseValues(&tok))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool              `json:"success"`
		Weeks   []models.WeekItem `json:"weeks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success {
		return nil, apiFailure(body, err)
	}
	return resp.Weeks, nil
}

// SubscribedFeed fetches the subscription feed. The payload mixes a typed
// envelope with dynamically-shaped blobs, so every blob is round-tripped
// through the flexible JSON value and re-serialized before its typed
// decode. Activity items that do not decode as rants are skipped; the
// activity blob is heterogeneous by design.
func (c *Client) SubscribedFeed(ctx context.Context, token *models.AuthToken) (*models.SubscribedFeed, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/me/subscribed-feed", c.baseValues(&tok))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool            `json:"success"`
		Feed    json.RawMessage `json:"feed"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || len(resp.Feed) == 0 {
		return nil, apiFailure(body, err)
	}

	var root models.Value
	if err := root.UnmarshalJSON(resp.Feed); err != nil {
		return nil, apiFailure(body, err)
	}

	feed := &models.SubscribedFeed{}
	if activity, ok := root.Member("activity"); ok {
		if items, ok := activity.Member("items"); ok && items.Kind == models.ValueArray {
			for _, item := range items.Items {
				raw, err := item.MarshalJSON()
				if err != nil {
					continue
				}
				var rant models.RantInSubscribedFeed
				if json.Unmarshal(raw, &rant) == nil {
					feed.Items = append(feed.Items, rant)
				}
			}
		}
	}
	if rec, ok := root.Member("rec_users"); ok && rec.Kind == models.ValueArray {
		for _, item := range rec.Items {
			raw, err := item.MarshalJSON()
			if err != nil {
				continue
			}
			var user models.RecommendedUser
			if json.Unmarshal(raw, &user) == nil && user.UserID != 0 {
				feed.RecommendedUsers = append(feed.RecommendedUsers, user)
			}
		}
	}
	if um, ok := root.Member("username_map"); ok && um.Kind == models.ValueObject {
		raw, err := um.MarshalJSON()
		if err == nil {
			var m models.SubscribedUserMap
			if json.Unmarshal(raw, &m) == nil {
				feed.UsernameMap = m
			}
		}
	}
	return feed, nil
}
