package client

import (
	"context"
	"encoding/json"
	"strconv"

	"gorant/cache"
	"gorant/models"
)

// NotificationFeed fetches the current user's notifications. The reported
// check time is persisted best-effort when a cursor store is configured.
func (c *Client) NotificationFeed(ctx context.Context, token *models.AuthToken) (*models.NotificationFeed, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	q := c.baseValues(&tok)
	if c.cursors != nil {
		if last, found, _ := c.cursors.GetInt(ctx, cache.KeyNotifCheckTime); found {
			q.Set("last_time", strconv.FormatInt(last, 10))
		}
	}
	body, err := c.get(ctx, "/users/me/notif-feed", q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool                     `json:"success"`
		Data    *models.NotificationFeed `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Data == nil {
		return nil, apiFailure(body, err)
	}

	if c.cursors != nil && resp.Data.CheckTime != 0 {
		// best-effort; never fails the fetch
		_ = c.cursors.SetInt(ctx, cache.KeyNotifCheckTime, resp.Data.CheckTime)
	}
	return resp.Data, nil
}

// ClearNotifications marks the whole notification feed read.
func (c *Client) ClearNotifications(ctx context.Context, token *models.AuthToken) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	body, err := c.delete(ctx, "/users/me/notif-feed", c.baseValues(&tok))
	if err != nil {
		return err
	}
	return expectOK(body)
}
