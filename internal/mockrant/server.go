// Package mockrant is an in-process fake of the platform API, serving the
// wire shapes (including their inconsistencies) that the decoders must
// absorb. Client and session tests drive it through the Transport adapter.
package mockrant

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Fixed fixture identities.
const (
	UserID    = 501
	Username  = "alice"
	Password  = "hunter2"
	TokenID   = 9001
	TokenKey  = "mock-token-key"
	OtherUser = 502
)

// Server is the fake platform.
type Server struct {
	app *fiber.App

	// AuthCalls counts login exchanges, for refresh-coalescing assertions.
	AuthCalls atomic.Int32
	// TokenTTL controls the expiry of tokens handed out.
	TokenTTL time.Duration

	mu        sync.Mutex
	voteState map[int]int
	favorites map[int]bool
	nextRant  int
	lastSet   string
	prevSet   string
	cleared   bool
}

// New builds the fake platform with its canned content.
func New() *Server {
	s := &Server{
		TokenTTL:  time.Hour,
		voteState: map[int]int{101: 1, 102: 0, 103: 0, 201: 0},
		favorites: map[int]bool{},
		nextRant:  1000,
		lastSet:   "set-aa11",
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/api/users/auth-token", s.handleAuth)
	app.Get("/api/get-user-id", s.handleUserID)
	app.Get("/api/devrant/rants", s.authed(s.handleFeed))
	app.Post("/api/devrant/rants", s.authed(s.handlePostRant))
	app.Get("/api/devrant/rants/:id", s.authed(s.handleRant))
	app.Post("/api/devrant/rants/:id", s.authed(s.handleOK))
	app.Delete("/api/devrant/rants/:id", s.authed(s.handleOK))
	app.Post("/api/devrant/rants/:id/vote", s.authed(s.handleRantVote))
	app.Post("/api/devrant/rants/:id/comments", s.authed(s.handleOK))
	app.Post("/api/devrant/rants/:id/favorite", s.authed(s.handleFavorite))
	app.Post("/api/devrant/rants/:id/unfavorite", s.authed(s.handleUnfavorite))
	app.Post("/api/comments/:id", s.authed(s.handleOK))
	app.Delete("/api/comments/:id", s.authed(s.handleOK))
	app.Post("/api/comments/:id/vote", s.authed(s.handleCommentVote))
	app.Get("/api/users/:id", s.authed(s.handleProfile))
	app.Post("/api/users/me/edit-profile", s.authed(s.handleOK))
	app.Get("/api/users/me/notif-feed", s.authed(s.handleNotifFeed))
	app.Delete("/api/users/me/notif-feed", s.authed(s.handleClearNotifs))
	app.Get("/api/devrant/avatars", s.authed(s.handleAvatars))
	app.Post("/api/users/me/avatar", s.authed(s.handleOK))
	app.Get("/api/devrant/weekly-list", s.authed(s.handleWeekly))
	app.Get("/api/me/subscribed-feed", s.authed(s.handleSubscribedFeed))

	s.app = app
	return s
}

// App exposes the underlying fiber app for the Transport adapter.
func (s *Server) App() *fiber.App { return s.app }

// PrevSet returns the prev_set cursor the last feed fetch carried.
func (s *Server) PrevSet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prevSet
}

// NotificationsCleared reports whether the clear endpoint was hit.
func (s *Server) NotificationsCleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// param reads an auth/body parameter from the form body or the query
// string, wherever the client put it.
func param(c *fiber.Ctx, key string) string {
	if v := c.FormValue(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (s *Server) handleAuth(c *fiber.Ctx) error {
	s.AuthCalls.Add(1)
	if param(c, "username") != Username || param(c, "password") != Password {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid username or password",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"auth_token": fiber.Map{
			"id":          TokenID,
			"key":         TokenKey,
			"expire_time": time.Now().Add(s.TokenTTL).Unix(),
			"user_id":     UserID,
		},
	})
}

// authed rejects requests without the fixture token.
func (s *Server) authed(next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if param(c, "token_key") != TokenKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid auth token",
			})
		}
		return next(c)
	}
}

func (s *Server) handleOK(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleUserID(c *fiber.Ctx) error {
	if c.Query("username") != "bob" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "user not found",
		})
	}
	return c.JSON(fiber.Map{"success": true, "user_id": OtherUser})
}

func (s *Server) handleFeed(c *fiber.Ctx) error {
	s.mu.Lock()
	s.prevSet = c.Query("prev_set")
	set := s.lastSet
	s.mu.Unlock()
	return c.JSON(fiber.Map{
		"success":    true,
		"rants":      []fiber.Map{s.feedRant(101), s.feedRant(102)},
		"set":        set,
		"wrw":        412,
		"num_notifs": 3,
	})
}

func (s *Server) handlePostRant(c *fiber.Ctx) error {
	if c.FormValue("rant") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Rant text is required",
		})
	}
	s.mu.Lock()
	s.nextRant++
	id := s.nextRant
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "rant_id": id})
}

func (s *Server) handleRant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || (id != 101 && id != 102) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "rant not found",
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"rant":     s.fullRant(id),
		"comments": []fiber.Map{s.comment(201, id)},
	})
}

func (s *Server) handleRantVote(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	vote, err := strconv.Atoi(c.FormValue("vote"))
	if err != nil || vote < -1 || vote > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid vote",
		})
	}
	s.mu.Lock()
	s.voteState[id] = vote
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "rant": s.fullRant(id)})
}

func (s *Server) handleCommentVote(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	vote, err := strconv.Atoi(c.FormValue("vote"))
	if err != nil || vote < -1 || vote > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid vote",
		})
	}
	s.mu.Lock()
	s.voteState[id] = vote
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "comment": s.comment(id, 101)})
}

func (s *Server) handleFavorite(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	s.mu.Lock()
	s.favorites[id] = true
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleUnfavorite(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	s.mu.Lock()
	delete(s.favorites, id)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id != UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "user not found",
		})
	}
	profile := fiber.Map{
		"username":     Username,
		"score":        420,
		"about":        "I rant, therefore I am",
		"location":     "The Terminal",
		"created_time": 1500000000,
		"skills":       "go, yelling at compilers",
		"github":       "alice",
		"website":      "https://alice.dev",
		"avatar":       avatarOf(UserID),
		"avatar_sm":    avatarOf(UserID),
		// dpp deliberately absent for the premium default
		"content": fiber.Map{
			"content": fiber.Map{
				"rants":    []fiber.Map{s.feedRant(101)},
				"upvoted":  []fiber.Map{s.feedRant(102)},
				"comments": []fiber.Map{s.comment(201, 101)},
				// favorites served malformed on purpose; the decoder must
				// resolve the list to absent, not fail the profile
				"favorites": "not-a-list",
			},
			"counts": fiber.Map{
				"rants":     1,
				"upvoted":   1,
				"comments":  1,
				"favorites": 0,
				"collabs":   0,
			},
		},
	}
	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

func (s *Server) handleNotifFeed(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"check_time": 1700000500,
			"items": []fiber.Map{
				{
					"type":         "content_vote",
					"rant_id":      101,
					"uid":          OtherUser,
					"created_time": 1700000100,
					"read":         0,
				},
				{
					"type":         "comment_mention",
					"rant_id":      101,
					"comment_id":   201,
					"uid":          OtherUser,
					"created_time": 1700000200,
					"read":         1,
				},
			},
			"username_map": fiber.Map{
				strconv.Itoa(OtherUser): fiber.Map{
					"name":   "bob",
					"avatar": avatarOf(OtherUser),
				},
			},
		},
	})
}

func (s *Server) handleClearNotifs(c *fiber.Ctx) error {
	s.mu.Lock()
	s.cleared = true
	s.mu.Unlock()
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleAvatars(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"avatars": fiber.Map{
			"options": []fiber.Map{
				{
					// id as a bare number; the decoder normalizes it
					"id":       10,
					"selected": 1,
					"image": fiber.Map{
						"b":    "f99a66",
						"full": "v-37_c-3_b-4.png",
						"mid":  "v-37_c-3_b-4-mid.png",
					},
				},
				{
					"id":       "11",
					"selected": 0,
					"image": fiber.Map{
						"b":    "7bc8a4",
						"full": "v-37_c-3_b-5.png",
						"mid":  "v-37_c-3_b-5-mid.png",
					},
				},
			},
			"types": []fiber.Map{
				{"id": "hair", "label": "Hair"},
				{"id": "glasses", "label": "Glasses"},
			},
		},
	})
}

func (s *Server) handleWeekly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"weeks": []fiber.Map{
			{"week": 412, "topic": "wk412: Worst interview", "prev_link": "/weekly/411", "date": "2026-08-24", "num_rants": 37},
			{"week": 411, "topic": "wk411: Legacy code", "prev_link": "/weekly/410", "date": "2026-08-17", "num_rants": 52},
		},
	})
}

func (s *Server) handleSubscribedFeed(c *fiber.Ctx) error {
	// live payloads carry explicit nulls inside activity items
	first := s.feedRant(101)
	first["attached_image"] = nil
	return c.JSON(fiber.Map{
		"success": true,
		"feed": fiber.Map{
			"activity": fiber.Map{
				"items": []fiber.Map{
					first,
					// heterogeneous blob: not a rant, must be skipped
					{"kind": "rec_header", "weight": 0.5},
					s.feedRant(102),
				},
			},
			"rec_users": []fiber.Map{
				{"user_id": OtherUser, "username": "bob", "avatar": "v-12.png", "score": 77},
			},
			"username_map": fiber.Map{
				strconv.Itoa(OtherUser): fiber.Map{
					"username": "bob",
					"avatar":   "v-12.png",
					"score":    77,
				},
				"777": fiber.Map{
					"username": "carol",
					"avatar":   "v-9.png",
					"score":    1200,
				},
			},
		},
	})
}

func avatarOf(id int) fiber.Map {
	return fiber.Map{"b": "f99a66", "i": "v-" + strconv.Itoa(id) + ".jpg"}
}

// feedRant serves the trimmed feed shape, with the platform's quirks: the
// attached_image of 101 is an empty string, and 102's special flag is the
// -1 sentinel integer.
func (s *Server) feedRant(id int) fiber.Map {
	s.mu.Lock()
	vote := s.voteState[id]
	s.mu.Unlock()
	switch id {
	case 102:
		return fiber.Map{
			"id":             102,
			"text":           "looking for gophers for a side project",
			"score":          8,
			"created_time":   1700000300,
			"vote_state":     vote,
			"num_comments":   0,
			"tags":           []string{"collab"},
			"edited":         false,
			"special":        -1,
			"user_id":        OtherUser,
			"user_username":  "bob",
			"user_score":     77,
			"user_avatar":    avatarOf(OtherUser),
			"user_avatar_lg": avatarOf(OtherUser),
			"attached_image": fiber.Map{
				"url":    "https://img.mockrant.test/102.png",
				"width":  800,
				"height": 600,
			},
			"c_type":        2,
			"c_type_long":   "Open source project",
			"c_description": "CLI ranting client",
			"c_tech_stack":  "Go, Redis",
			"c_team_size":   -1,
			"c_url":         "https://github.com/bob/gorant",
		}
	default:
		return fiber.Map{
			"id":             101,
			"text":           "go to example.com for more",
			"score":          42,
			"created_time":   1700000000,
			"vote_state":     vote,
			"num_comments":   1,
			"tags":           []string{"go", "rant"},
			"edited":         false,
			"user_id":        UserID,
			"user_username":  Username,
			"user_score":     420,
			"user_dpp":       1,
			"user_avatar":    avatarOf(UserID),
			"user_avatar_lg": avatarOf(UserID),
			"attached_image": "",
			"links": []fiber.Map{
				{
					"type":  "url",
					"url":   "https://example.com",
					"title": "example.com",
					"start": 6,
					"end":   17,
				},
			},
		}
	}
}

func (s *Server) fullRant(id int) fiber.Map {
	rant := s.feedRant(id)
	s.mu.Lock()
	rant["favorited"] = boolToInt(s.favorites[id])
	s.mu.Unlock()
	if id == 101 {
		rant["weekly"] = fiber.Map{"week": 412, "topic": "wk412: Worst interview", "date": "2026-08-24"}
	}
	return rant
}

func (s *Server) comment(id, rantID int) fiber.Map {
	s.mu.Lock()
	vote := s.voteState[id]
	s.mu.Unlock()
	return fiber.Map{
		"id":             id,
		"rant_id":        rantID,
		"body":           "mention of @bob here",
		"score":          5,
		"created_time":   1700000400,
		"vote_state":     vote,
		"user_id":        OtherUser,
		"user_username":  "bob",
		"user_score":     77,
		"user_avatar":    avatarOf(OtherUser),
		"user_avatar_lg": avatarOf(OtherUser),
		"attached_image": "",
		"links": []fiber.Map{
			{"type": "mention", "url": "4", "title": "@bob"},
		},
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
