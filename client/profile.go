package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorant/models"
)

// Profile fetches a user's profile, paging through the selected content
// category.
func (c *Client) Profile(ctx context.Context, token *models.AuthToken, userID int, content models.ProfileContentType, skip int) (*models.Profile, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	q := c.baseValues(&tok)
	q.Set("content", string(content))
	q.Set("skip", strconv.Itoa(skip))
	body, err := c.get(ctx, fmt.Sprintf("/users/%d", userID), q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool            `json:"success"`
		Profile *models.Profile `json:"profile"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Profile == nil {
		return nil, apiFailure(body, err)
	}
	return resp.Profile, nil
}

// ProfileEdit is the set of editable account fields. Empty strings clear
// the corresponding field on the server.
type ProfileEdit struct {
	About    string
	Skills   string
	GitHub   string
	Location string
	Website  string
}

// EditProfile writes the current user's account metadata.
func (c *Client) EditProfile(ctx context.Context, token *models.AuthToken, edit ProfileEdit) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	form := c.baseValues(&tok)
	form.Set("profile_about", edit.About)
	form.Set("profile_skills", edit.Skills)
	form.Set("profile_github", edit.GitHub)
	form.Set("profile_location", edit.Location)
	form.Set("profile_website", edit.Website)
	body, err := c.postForm(ctx, "/users/me/edit-profile", form)
	if err != nil {
		return err
	}
	return expectOK(body)
}

// UserID resolves a username to its user id. The endpoint needs no
// session.
func (c *Client) UserID(ctx context.Context, username string) (int, error) {
	q := c.baseValues(nil)
	q.Set("username", username)
	body, err := c.get(ctx, "/get-user-id", q)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Success bool `json:"success"`
		UserID  int  `json:"user_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success {
		return 0, apiFailure(body, err)
	}
	return resp.UserID, nil
}
