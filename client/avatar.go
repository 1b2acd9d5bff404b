package client

import (
	"context"
	"encoding/json"

	"gorant/models"
)

// AvatarCustomization fetches the avatar builder catalog. typeID narrows
// the catalog to one part category; leave it empty for the whole thing.
func (c *Client) AvatarCustomization(ctx context.Context, token *models.AuthToken, typeID string) (*models.AvatarCustomization, error) {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	q := c.baseValues(&tok)
	if typeID != "" {
		q.Set("type", typeID)
	}
	body, err := c.get(ctx, "/devrant/avatars", q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool                        `json:"success"`
		Avatars *models.AvatarCustomization `json:"avatars"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Avatars == nil {
		return nil, apiFailure(body, err)
	}
	return resp.Avatars, nil
}

// ConfirmAvatarCustomization commits a selected avatar image as the
// current user's avatar.
func (c *Client) ConfirmAvatarCustomization(ctx context.Context, token *models.AuthToken, imageID string) error {
	tok, err := c.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	form := c.baseValues(&tok)
	form.Set("image_id", imageID)
	body, err := c.postForm(ctx, "/users/me/avatar", form)
	if err != nil {
		return err
	}
	return expectOK(body)
}
