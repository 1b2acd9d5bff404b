package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gorant/cache"
	"gorant/client"
	"gorant/config"
	"gorant/models"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login", "auth":
		cmdLogin(args)
	case "logout":
		cmdLogout(args)
	case "feed", "rants":
		cmdFeed(args)
	case "rant", "view":
		cmdRant(args)
	case "post":
		cmdPost(args)
	case "comment":
		cmdComment(args)
	case "vote":
		cmdVote(args)
	case "notifs", "notifications":
		cmdNotifs(args)
	case "profile":
		cmdProfile(args)
	case "whois":
		cmdWhois(args)
	case "weekly":
		cmdWeekly(args)
	case "subscribed":
		cmdSubscribed(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gorant - command line client for the devRant API

Usage: gorant <command> [options]

Commands:
  login               Authenticate and persist the session
  logout              Drop the persisted session
  feed                Read the rant feed
  rant                View one rant with its comments
  post                Post a new rant
  comment             Comment on a rant
  vote                Vote on a rant or comment
  notifs              Show the notification feed
  profile             Show a user profile
  whois               Resolve a username to its user id
  weekly              List weekly topics
  subscribed          Read the subscribed feed

Examples:
  gorant login --user alice
  gorant feed --sort recent --limit 10
  gorant rant --id 4310982
  gorant post --text "clients writing clients" --tags go,meta
  gorant vote --rant 4310982 --up
  gorant profile --user alice

Environment Variables:
  GORANT_BASE_URL         API base URL (default: https://devrant.com/api)
  GORANT_PERSIST_SESSION  Keep the session across runs (default: true)
  GORANT_KEYRING          Keyring database path
  REDIS_URL               Cursor cache (optional)
  GORANT_DEBUG            Log every exchange to stderr`)
}

// newClient wires a client from the environment. The cursor cache is only
// attached when a redis is configured.
func newClient() *client.Client {
	cfg := config.LoadConfig()
	opts := []client.Option{}
	if cfg.RedisURL != "" {
		opts = append(opts, client.WithCursorStore(cache.NewRedis(cfg.RedisURL)))
	}
	c, err := client.New(cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return c
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "Username (required)")
	pass := fs.String("pass", "", "Password (read from GORANT_PASSWORD when omitted)")
	fs.Parse(args)

	if *pass == "" {
		*pass = os.Getenv("GORANT_PASSWORD")
	}
	if *user == "" || *pass == "" {
		fmt.Fprintln(os.Stderr, "Error: --user and --pass (or GORANT_PASSWORD) are required")
		os.Exit(1)
	}

	c := newClient()
	token, err := c.LogIn(context.Background(), *user, *pass)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Logged in as %s (user id %d)\n", *user, token.UserID)
}

func cmdLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(args)

	c := newClient()
	c.LogOut()
	fmt.Println("✓ Logged out")
}

func cmdFeed(args []string) {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	sort := fs.String("sort", "algo", "Sort: algo, recent, top")
	rng := fs.String("range", "", "Range for top sort: day, week, month, all")
	limit := fs.Int("limit", 20, "Number of rants")
	skip := fs.Int("skip", 0, "Rants to skip")
	fs.Parse(args)

	c := newClient()
	feed, err := c.Feed(context.Background(), nil, models.FeedSort(*sort), models.FeedRange(*rng), *limit, *skip)
	if err != nil {
		fail(err)
	}

	if feed.NumNotifs > 0 {
		fmt.Printf("🔔 %d unread notification(s)\n", feed.NumNotifs)
	}
	for _, r := range feed.Rants {
		printRantSummary(&r)
	}
}

func cmdRant(args []string) {
	fs := flag.NewFlagSet("rant", flag.ExitOnError)
	id := fs.Int("id", 0, "Rant ID (required)")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "Error: --id is required")
		os.Exit(1)
	}

	c := newClient()
	rant, comments, err := c.Rant(context.Background(), nil, *id)
	if err != nil {
		fail(err)
	}

	fmt.Printf("\n%s (+%d)\n", rant.Username, rant.Score)
	fmt.Printf("%s\n", rant.Text)
	if len(rant.Tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(rant.Tags, ", "))
	}
	if rant.AttachedImage != nil {
		fmt.Printf("  image: %s\n", rant.AttachedImage.URL)
	}
	if rant.Collab != nil {
		fmt.Printf("  collab: %s (%s)\n", rant.Collab.Type, rant.Collab.TechStack)
	}
	if rant.Weekly != nil {
		fmt.Printf("  weekly #%d: %s\n", rant.Weekly.Week, rant.Weekly.Topic)
	}

	if len(comments) > 0 {
		fmt.Printf("\n--- Comments (%d) ---\n", len(comments))
		for _, cm := range comments {
			fmt.Printf("[%d] %s (+%d): %s\n", cm.ID, cm.Username, cm.Score, cm.Body)
		}
	}
}

func cmdPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	text := fs.String("text", "", "Rant text (required)")
	tags := fs.String("tags", "", "Comma-separated tags")
	image := fs.String("image", "", "Path to an image to attach")
	fs.Parse(args)

	if *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --text is required")
		os.Exit(1)
	}

	var tagList []string
	if *tags != "" {
		tagList = strings.Split(*tags, ",")
	}
	imageData := readImage(*image)

	c := newClient()
	id, err := c.PostRant(context.Background(), nil, models.RantTypeRant, *text, tagList, imageData)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Posted rant %d\n", id)
}

func cmdComment(args []string) {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	rantID := fs.Int("rant", 0, "Rant ID (required)")
	text := fs.String("text", "", "Comment text (required)")
	image := fs.String("image", "", "Path to an image to attach")
	fs.Parse(args)

	if *rantID == 0 || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --rant and --text are required")
		os.Exit(1)
	}

	c := newClient()
	if err := c.PostComment(context.Background(), nil, *rantID, *text, readImage(*image)); err != nil {
		fail(err)
	}
	fmt.Printf("✓ Commented on rant %d\n", *rantID)
}

func cmdVote(args []string) {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	rantID := fs.Int("rant", 0, "Rant ID")
	commentID := fs.Int("comment", 0, "Comment ID")
	up := fs.Bool("up", false, "Upvote")
	down := fs.Bool("down", false, "Downvote")
	clear := fs.Bool("clear", false, "Remove the vote")
	reason := fs.Int("reason", 0, "Downvote reason: 0 not-for-me, 1 repost, 2 offensive")
	fs.Parse(args)

	if (*rantID == 0) == (*commentID == 0) {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --rant or --comment is required")
		os.Exit(1)
	}

	vote := models.VoteStateUpvoted
	switch {
	case *clear:
		vote = models.VoteStateUnvoted
	case *down:
		vote = models.VoteStateDownvoted
	case !*up:
		fmt.Fprintln(os.Stderr, "Error: one of --up, --down or --clear is required")
		os.Exit(1)
	}

	c := newClient()
	ctx := context.Background()
	if *rantID != 0 {
		rant, err := c.VoteOnRant(ctx, nil, *rantID, vote, client.DownvoteReason(*reason))
		if err != nil {
			fail(err)
		}
		fmt.Printf("✓ Rant %d is now at +%d (%s)\n", rant.ID, rant.Score, rant.VoteState)
		return
	}
	comment, err := c.VoteOnComment(ctx, nil, *commentID, vote, client.DownvoteReason(*reason))
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Comment %d is now at +%d (%s)\n", comment.ID, comment.Score, comment.VoteState)
}

func cmdNotifs(args []string) {
	fs := flag.NewFlagSet("notifs", flag.ExitOnError)
	clear := fs.Bool("clear", false, "Mark everything read")
	fs.Parse(args)

	c := newClient()
	ctx := context.Background()

	if *clear {
		if err := c.ClearNotifications(ctx, nil); err != nil {
			fail(err)
		}
		fmt.Println("✓ Notifications cleared")
		return
	}

	feed, err := c.NotificationFeed(ctx, nil)
	if err != nil {
		fail(err)
	}

	names := map[string]string{}
	for _, u := range feed.UsernameMap {
		names[u.UserID] = u.Name
	}

	fmt.Printf("%d unread of %d\n", feed.Unread(), len(feed.Items))
	for _, n := range feed.Items {
		marker := " "
		if !n.Read.Bool() {
			marker = "*"
		}
		who := names[fmt.Sprint(n.UserID)]
		when := time.Unix(n.CreatedTime, 0).Format("Jan 2 15:04")
		fmt.Printf("%s %-16s %s rant %d (%s)\n", marker, n.Type, who, n.RantID, when)
	}
}

func cmdProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	user := fs.String("user", "", "Username (required)")
	content := fs.String("content", "rants", "Content: all, rants, upvoted, comments, favorites, viewed")
	skip := fs.Int("skip", 0, "Items to skip")
	fs.Parse(args)

	if *user == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}

	c := newClient()
	ctx := context.Background()
	id, err := c.UserID(ctx, *user)
	if err != nil {
		fail(err)
	}
	profile, err := c.Profile(ctx, nil, id, models.ProfileContentType(*content), *skip)
	if err != nil {
		fail(err)
	}

	fmt.Printf("\n%s (+%d)", profile.Username, profile.Score)
	if profile.Premium {
		fmt.Print(" ++")
	}
	fmt.Println()
	if profile.About != "" {
		fmt.Printf("  %s\n", profile.About)
	}
	if profile.Location != "" {
		fmt.Printf("  📍 %s\n", profile.Location)
	}
	if profile.Skills != "" {
		fmt.Printf("  skills: %s\n", profile.Skills)
	}
	fmt.Printf("  %d rants, %d comments, %d upvoted\n",
		profile.Content.Counts.Rants, profile.Content.Counts.Comments, profile.Content.Counts.Upvoted)
	for _, r := range profile.Content.Rants {
		printRantSummary(&r)
	}
}

func cmdWhois(args []string) {
	fs := flag.NewFlagSet("whois", flag.ExitOnError)
	user := fs.String("user", "", "Username (required)")
	fs.Parse(args)

	if *user == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}

	c := newClient()
	id, err := c.UserID(context.Background(), *user)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s = user id %d\n", *user, id)
}

func cmdWeekly(args []string) {
	fs := flag.NewFlagSet("weekly", flag.ExitOnError)
	fs.Parse(args)

	c := newClient()
	weeks, err := c.WeekList(context.Background(), nil)
	if err != nil {
		fail(err)
	}
	for _, w := range weeks {
		fmt.Printf("#%d %s (%s, %d rants)\n", w.Week, w.Topic, w.Date, w.NumRants)
	}
}

func cmdSubscribed(args []string) {
	fs := flag.NewFlagSet("subscribed", flag.ExitOnError)
	fs.Parse(args)

	c := newClient()
	feed, err := c.SubscribedFeed(context.Background(), nil)
	if err != nil {
		fail(err)
	}

	for _, r := range feed.Items {
		fmt.Printf("[%d] %s (+%d): %s\n", r.ID, r.Username, r.Score, firstLine(r.Text))
	}
	if len(feed.RecommendedUsers) > 0 {
		fmt.Println("\nYou might like:")
		for _, u := range feed.RecommendedUsers {
			fmt.Printf("  %s (+%d)\n", u.Username, u.Score)
		}
	}
}

func printRantSummary(r *models.RantInFeed) {
	fmt.Printf("[%d] %s (+%d, %d comments)\n", r.ID, r.Username, r.Score, r.NumComments)
	fmt.Printf("    %s\n", firstLine(r.Text))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func readImage(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}
	return data
}
