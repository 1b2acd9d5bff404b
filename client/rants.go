package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorant/models"
)

// DownvoteReason must accompany a downvote.
type DownvoteReason int

const (
	DownvoteReasonNotForMe  DownvoteReason = 0
	DownvoteReasonRepost    DownvoteReason = 1
	DownvoteReasonOffensive DownvoteReason = 2
)

// Rant fetches a single rant together with its comments.
func (c *Client) Rant(ctx context.Context, token *models.AuthToken, rantID int) (*models.Rant, []models.Comment, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	body, err := c.get(ctx, fmt.Sprintf("/devrant/rants/%d", rantID), c.baseValues(&tok))
	if err != nil {
		return nil, nil, err
	}
	var resp struct {
		Success  bool             `json:"success"`
		Rant     *models.Rant     `json:"rant"`
		Comments []models.Comment `json:"comments"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Rant == nil {
		return nil, nil, apiFailure(body, err)
	}
	return resp.Rant, resp.Comments, nil
}

// VoteOnRant casts a vote and returns the server's authoritative echo of
// the rant, including the new vote state. The reason is sent only for
// downvotes.
func (c *Client) VoteOnRant(ctx context.Context, token *models.AuthToken, rantID int, vote models.VoteState, reason DownvoteReason) (*models.Rant, error) {
	if !vote.Votable() {
		return nil, models.NewValidationError("this rant can not be voted on")
	}
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	form := c.baseValues(&tok)
	form.Set("vote", strconv.Itoa(int(vote)))
	if vote == models.VoteStateDownvoted {
		form.Set("reason", strconv.Itoa(int(reason)))
	}
	body, err := c.postForm(ctx, fmt.Sprintf("/devrant/rants/%d/vote", rantID), form)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool         `json:"success"`
		Rant    *models.Rant `json:"rant"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Rant == nil {
		return nil, apiFailure(body, err)
	}
	return resp.Rant, nil
}

// PostRant publishes a new rant and returns its id. The image is optional.
func (c *Client) PostRant(ctx context.Context, token *models.AuthToken, rantType models.RantType, text string, tags []string, image []byte) (int, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return 0, err
	}
	form := c.baseValues(&tok)
	form.Set("rant", text)
	form.Set("tags", strings.Join(tags, ","))
	form.Set("type", strconv.Itoa(int(rantType)))

	var body []byte
	if len(image) > 0 {
		body, err = c.postMultipart(ctx, "/devrant/rants", form, image)
	} else {
		body, err = c.postForm(ctx, "/devrant/rants", form)
	}
	if err != nil {
		return 0, err
	}
	var resp struct {
		Success bool `json:"success"`
		RantID  int  `json:"rant_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success {
		return 0, apiFailure(body, err)
	}
	return resp.RantID, nil
}

// EditRant rewrites an existing rant's text, tags and image.
func (c *Client) EditRant(ctx context.Context, token *models.AuthToken, rantID int, text string, tags []string, image []byte) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	form := c.baseValues(&tok)
	form.Set("rant", text)
	form.Set("tags", strings.Join(tags, ","))

	var body []byte
	if len(image) > 0 {
		body, err = c.postMultipart(ctx, fmt.Sprintf("/devrant/rants/%d", rantID), form, image)
	} else {
		body, err = c.postForm(ctx, fmt.Sprintf("/devrant/rants/%d", rantID), form)
	}
	if err != nil {
		return err
	}
	return expectOK(body)
}

// DeleteRant removes a rant the current user owns.
func (c *Client) DeleteRant(ctx context.Context, token *models.AuthToken, rantID int) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	body, err := c.delete(ctx, fmt.Sprintf("/devrant/rants/%d", rantID), c.baseValues(&tok))
	if err != nil {
		return err
	}
	return expectOK(body)
}

// Favorite marks a rant as a favorite of the current user.
func (c *Client) Favorite(ctx context.Context, token *models.AuthToken, rantID int) error {
	return c.favorite(ctx, token, rantID, "favorite")
}

// Unfavorite removes a rant from the current user's favorites.
func (c *Client) Unfavorite(ctx context.Context, token *models.AuthToken, rantID int) error {
	return c.favorite(ctx, token, rantID, "unfavorite")
}

func (c *Client) favorite(ctx context.Context, token *models.AuthToken, rantID int, action string) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	body, err := c.postForm(ctx, fmt.Sprintf("/devrant/rants/%d/%s", rantID, action), c.baseValues(&tok))
	if err != nil {
		return err
	}
	return expectOK(body)
}
