package client

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorant/cache"
	"gorant/config"
	"gorant/internal/mockrant"
	"gorant/keyring"
	"gorant/models"
	"gorant/session"
)

func testConfig(persist bool) *config.Config {
	return &config.Config{
		BaseURL:        "http://mockrant.test/api",
		AppID:          3,
		PersistSession: persist,
	}
}

// setupTestClient builds a persistent-mode client over an in-memory
// keyring, wired straight into the fake platform.
func setupTestClient(t *testing.T, srv *mockrant.Server, opts ...Option) *Client {
	t.Helper()
	ring, err := keyring.Open(":memory:", "test-seal-key")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ring.Close() })

	opts = append([]Option{
		WithTransport(mockrant.NewTransport(srv)),
		WithKeyring(ring),
	}, opts...)
	c, err := New(testConfig(true), opts...)
	require.NoError(t, err)
	return c
}

func setupCursorStore(t *testing.T) cache.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	store := cache.NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func login(t *testing.T, c *Client) models.AuthToken {
	t.Helper()
	token, err := c.LogIn(context.Background(), mockrant.Username, mockrant.Password)
	require.NoError(t, err)
	return token
}

func TestLogIn(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)

	token := login(t, c)
	assert.Equal(t, mockrant.TokenID, token.ID)
	assert.Equal(t, mockrant.TokenKey, token.Key)
	assert.Equal(t, mockrant.UserID, token.UserID)
	assert.False(t, token.Expired(time.Now()))
}

func TestLogInFailureSurfacesServerMessage(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)

	_, err := c.LogIn(context.Background(), mockrant.Username, "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
}

func TestFeed(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	feed, err := c.Feed(context.Background(), nil, models.FeedSortAlgo, "", 20, 0)
	require.NoError(t, err)
	require.Len(t, feed.Rants, 2)
	assert.Equal(t, "set-aa11", feed.Set)
	assert.Equal(t, 412, feed.WeeklyRantWeek)
	assert.Equal(t, 3, feed.NumNotifs)

	first := feed.Rants[0]
	assert.Equal(t, 101, first.ID)
	assert.Equal(t, models.VoteStateUpvoted, first.VoteState)
	assert.False(t, first.Edited)
	assert.Nil(t, first.AttachedImage, "empty-string attached_image resolves to absent")
	assert.True(t, first.Premium.Bool())

	require.Len(t, first.Links, 1)
	link := first.Links[0]
	require.NotNil(t, link.Range)
	assert.Equal(t, 6, link.Range.Start)
	assert.Equal(t, 11, link.Range.Length)

	second := feed.Rants[1]
	require.NotNil(t, second.AttachedImage)
	assert.Equal(t, 800, second.AttachedImage.Width)
	assert.False(t, second.Premium.Bool(), "absent user_dpp defaults to 0")
}

func TestFeedEchoesSetCursor(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv, WithCursorStore(setupCursorStore(t)))
	login(t, c)

	_, err := c.Feed(context.Background(), nil, models.FeedSortAlgo, "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, srv.PrevSet(), "first fetch has no cursor to echo")

	_, err = c.Feed(context.Background(), nil, models.FeedSortAlgo, "", 20, 20)
	require.NoError(t, err)
	assert.Equal(t, "set-aa11", srv.PrevSet())
}

func TestRantWithComments(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	rant, comments, err := c.Rant(context.Background(), nil, 101)
	require.NoError(t, err)
	assert.Equal(t, 101, rant.ID)
	require.NotNil(t, rant.Weekly)
	assert.Equal(t, 412, rant.Weekly.Week)

	require.Len(t, comments, 1)
	comment := comments[0]
	assert.Equal(t, 201, comment.ID)
	assert.Equal(t, 101, comment.RantID)
	require.Len(t, comment.Links, 1)
	assert.Equal(t, models.LinkTypeMention, comment.Links[0].Type)
	assert.Equal(t, "4", comment.Links[0].URL.String())
	require.NotNil(t, comment.Links[0].Range)
	assert.Equal(t, 11, comment.Links[0].Range.Start)
}

func TestRantNotFound(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	_, _, err := c.Rant(context.Background(), nil, 999)
	require.Error(t, err)
	assert.Equal(t, "rant not found", err.Error())
}

func TestCollabDecoding(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	rant, _, err := c.Rant(context.Background(), nil, 102)
	require.NoError(t, err)
	require.NotNil(t, rant.Collab)
	assert.Equal(t, 2, rant.Collab.TypeID)
	assert.Equal(t, "Open source project", rant.Collab.Type)
	assert.Equal(t, "-1", rant.Collab.TeamSize, "sentinel integer stringified")
	assert.Equal(t, "-1", rant.Special, "sentinel integer stringified")
}

func TestVoteOnRant(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	rant, err := c.VoteOnRant(context.Background(), nil, 101, models.VoteStateDownvoted, DownvoteReasonNotForMe)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateDownvoted, rant.VoteState)

	rant, err = c.VoteOnRant(context.Background(), nil, 101, models.VoteStateUnvoted, 0)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateUnvoted, rant.VoteState)
}

func TestVoteOnUnvotable(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	before := srv.AuthCalls.Load()
	_, err := c.VoteOnRant(context.Background(), nil, 101, models.VoteStateUnvotable, 0)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, before, srv.AuthCalls.Load(), "rejected locally, nothing sent")

	_, err = c.VoteOnComment(context.Background(), nil, 201, models.VoteStateUnvotable, 0)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestVoteOnComment(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	comment, err := c.VoteOnComment(context.Background(), nil, 201, models.VoteStateUpvoted, 0)
	require.NoError(t, err)
	assert.Equal(t, models.VoteStateUpvoted, comment.VoteState)
}

func TestPostRant(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	id, err := c.PostRant(context.Background(), nil, models.RantTypeRant, "my first rant", []string{"go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1001, id)

	// with an image the request is multipart; the fields must survive
	id, err = c.PostRant(context.Background(), nil, models.RantTypeRant, "with image", nil, []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 1002, id)
}

func TestPostRantValidationError(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	_, err := c.PostRant(context.Background(), nil, models.RantTypeRant, "", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Rant text is required", err.Error())
}

func TestEditAndDelete(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)
	ctx := context.Background()

	require.NoError(t, c.EditRant(ctx, nil, 101, "edited", []string{"go"}, nil))
	require.NoError(t, c.DeleteRant(ctx, nil, 101))
	require.NoError(t, c.PostComment(ctx, nil, 101, "nice rant", nil))
	require.NoError(t, c.EditComment(ctx, nil, 201, "nicer rant", nil))
	require.NoError(t, c.DeleteComment(ctx, nil, 201))
	require.NoError(t, c.Favorite(ctx, nil, 101))
	require.NoError(t, c.Unfavorite(ctx, nil, 101))
}

func TestProfile(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	profile, err := c.Profile(context.Background(), nil, mockrant.UserID, models.ProfileContentAll, 0)
	require.NoError(t, err)
	assert.Equal(t, mockrant.Username, profile.Username)
	assert.Equal(t, 420, profile.Score)
	assert.False(t, profile.Premium, "absent dpp defaults to 0")
	assert.Len(t, profile.Content.Rants, 1)
	assert.Len(t, profile.Content.Upvoted, 1)
	assert.Len(t, profile.Content.Comments, 1)
	assert.Nil(t, profile.Content.Favorites, "malformed favorites list resolves to absent")
	assert.Equal(t, 1, profile.Content.Counts.Rants)
}

func TestEditProfile(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	err := c.EditProfile(context.Background(), nil, ProfileEdit{
		About:  "new about",
		Skills: "go",
	})
	require.NoError(t, err)
}

func TestNotificationFeed(t *testing.T) {
	srv := mockrant.New()
	cursors := setupCursorStore(t)
	c := setupTestClient(t, srv, WithCursorStore(cursors))
	login(t, c)

	feed, err := c.NotificationFeed(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000500), feed.CheckTime)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, models.NotificationContentVote, feed.Items[0].Type)
	assert.Equal(t, 1, feed.Unread())

	require.Len(t, feed.UsernameMap, 1)
	entry := feed.UsernameMap[0]
	assert.Equal(t, "502", entry.UserID)
	assert.Equal(t, "bob", entry.Name)

	// check time persisted best-effort
	got, found, err := cursors.GetInt(context.Background(), cache.KeyNotifCheckTime)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1700000500), got)
}

func TestClearNotifications(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	require.NoError(t, c.ClearNotifications(context.Background(), nil))
	assert.True(t, srv.NotificationsCleared())
}

func TestAvatarCustomization(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	catalog, err := c.AvatarCustomization(context.Background(), nil, "hair")
	require.NoError(t, err)
	require.Len(t, catalog.Options, 2)
	assert.Equal(t, "10", catalog.Options[0].ID.String(), "numeric id normalized to string")
	assert.True(t, catalog.Options[0].Selected.Bool())
	assert.Equal(t, "f99a66", catalog.Options[0].Image.BackgroundColor)
	assert.Equal(t, "v-37_c-3_b-4.png", catalog.Options[0].Image.FullImage)
	assert.Equal(t, "v-37_c-3_b-4-mid.png", catalog.Options[0].Image.PreviewImage)
	require.Len(t, catalog.Types, 2)

	require.NoError(t, c.ConfirmAvatarCustomization(context.Background(), nil, "v-37_c-3_b-5.png"))
}

func TestUserID(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)

	id, err := c.UserID(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, mockrant.OtherUser, id)

	_, err = c.UserID(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, "user not found", err.Error())
}

func TestWeekList(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	weeks, err := c.WeekList(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, 412, weeks[0].Week)
	assert.Equal(t, 37, weeks[0].NumRants)
}

func TestSubscribedFeed(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)
	login(t, c)

	feed, err := c.SubscribedFeed(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, feed.Items, 2, "non-rant activity blobs are skipped")
	assert.Equal(t, 101, feed.Items[0].ID)
	assert.Nil(t, feed.Items[0].AttachedImage, "explicit null inside an item must not fail the feed")
	assert.Equal(t, 102, feed.Items[1].ID)

	require.Len(t, feed.RecommendedUsers, 1)
	assert.Equal(t, "bob", feed.RecommendedUsers[0].Username)

	require.Len(t, feed.UsernameMap, 2, "every map key survives")
	assert.Equal(t, "502", feed.UsernameMap[0].UserID)
	assert.Equal(t, "777", feed.UsernameMap[1].UserID)
	assert.Equal(t, 1200, feed.UsernameMap[1].Score)
}

func TestEphemeralModeRequiresExplicitToken(t *testing.T) {
	srv := mockrant.New()
	c, err := New(testConfig(false), WithTransport(mockrant.NewTransport(srv)))
	require.NoError(t, err)

	_, err = c.Feed(context.Background(), nil, models.FeedSortAlgo, "", 20, 0)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeAuth, appErr.Code)

	token, err := c.LogIn(context.Background(), mockrant.Username, mockrant.Password)
	require.NoError(t, err)

	feed, err := c.Feed(context.Background(), &token, models.FeedSortAlgo, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, feed.Rants, 2)
}

func TestConcurrentOperationsCoalesceRefresh(t *testing.T) {
	srv := mockrant.New()
	c := setupTestClient(t, srv)

	// pin the clock so the login token can be aged past its expiry
	var now atomic.Int64
	now.Store(time.Now().Unix())
	c.sessions = session.New(c.loginExchange, session.WithClock(func() time.Time {
		return time.Unix(now.Load(), 0)
	}))

	login(t, c)
	require.Equal(t, int32(1), srv.AuthCalls.Load())

	// age the first token past its hour of validity, and let the refreshed
	// one live long enough to stay valid under the pinned clock
	now.Add(2 * 3600)
	srv.TokenTTL = 100 * time.Hour
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Feed(context.Background(), nil, models.FeedSortAlgo, "", 20, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), srv.AuthCalls.Load(),
		"N concurrent operations against an expired session trigger exactly one re-authentication")
}

func TestTransportErrorClassified(t *testing.T) {
	c, err := New(testConfig(false), WithTransport(&failingTransport{}))
	require.NoError(t, err)

	token := models.AuthToken{ID: 1, Key: "k", UserID: 2, ExpireTime: time.Now().Add(time.Hour).Unix()}
	_, err = c.Feed(context.Background(), &token, models.FeedSortAlgo, "", 20, 0)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeTransport, appErr.Code)
}

type failingTransport struct{}

func (f *failingTransport) Exchange(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) (int, []byte, error) {
	return 0, nil, assert.AnError
}
