package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorant/models"
)

// PostComment adds a comment to a rant. The image is optional.
func (c *Client) PostComment(ctx context.Context, token *models.AuthToken, rantID int, text string, image []byte) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	form := c.baseValues(&tok)
	form.Set("comment", text)

	var body []byte
	if len(image) > 0 {
		body, err = c.postMultipart(ctx, fmt.Sprintf("/devrant/rants/%d/comments", rantID), form, image)
	} else {
		body, err = c.postForm(ctx, fmt.Sprintf("/devrant/rants/%d/comments", rantID), form)
	}
	if err != nil {
		return err
	}
	return expectOK(body)
}

// EditComment rewrites an existing comment.
func (c *Client) EditComment(ctx context.Context, token *models.AuthToken, commentID int, text string, image []byte) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	form := c.baseValues(&tok)
	form.Set("comment", text)

	var body []byte
	if len(image) > 0 {
		body, err = c.postMultipart(ctx, fmt.Sprintf("/comments/%d", commentID), form, image)
	} else {
		body, err = c.postForm(ctx, fmt.Sprintf("/comments/%d", commentID), form)
	}
	if err != nil {
		return err
	}
	return expectOK(body)
}

// DeleteComment removes a comment the current user owns.
func (c *Client) DeleteComment(ctx context.Context, token *models.AuthToken, commentID int) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	body, err := c.delete(ctx, fmt.Sprintf("/comments/%d", commentID), c.baseValues(&tok))
	if err != nil {
		return err
	}
	return expectOK(body)
}

// VoteOnComment casts a vote and returns the server's authoritative echo of
// the comment.
func (c *Client) VoteOnComment(ctx context.Context, token *models.AuthToken, commentID int, vote models.VoteState, reason DownvoteReason) (*models.Comment, error) {
	if !vote.Votable() {
		return nil, models.NewValidationError("this comment can not be voted on")
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
	body, err := c.postForm(ctx, fmt.Sprintf("/comments/%d/vote", commentID), form)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool            `json:"success"`
		Comment *models.Comment `json:"comment"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Comment == nil {
		return nil, apiFailure(body, err)
	}
	return resp.Comment, nil
}
