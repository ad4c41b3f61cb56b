package itch

import (
	"strings"
	"time"

	"gamepulse/internal/models"

	"github.com/mmcdole/gofeed"
)

const (
	defaultFeedURL = "https://itch.io/games/top-rated.rss"
	maxEntries     = 10
)

// Client reads the itch.io top-rated RSS feed. Everything listed there is
// treated as a free indie title.
type Client struct {
	feedURL string
	parser  *gofeed.Parser
}

func NewClient() *Client {
	return &Client{
		feedURL: defaultFeedURL,
		parser:  gofeed.NewParser(),
	}
}

// NewClientWithFeedURL is used by tests to point at a fake feed.
func NewClientWithFeedURL(feedURL string) *Client {
	c := NewClient()
	c.feedURL = feedURL
	return c
}

// TopRated fetches the feed and maps its first entries to snapshot rows.
func (c *Client) TopRated(now time.Time) ([]models.GameStat, error) {
	feed, err := c.parser.ParseURL(c.feedURL)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if len(items) > maxEntries {
		items = items[:maxEntries]
	}

	games := make([]models.GameStat, 0, len(items))
	for _, item := range items {
		genres := strings.Join(item.Categories, ", ")
		if genres == "" {
			genres = "Indie"
		}
		games = append(games, models.GameStat{
			GameID:      "itch_" + slugify(item.Title),
			Name:        item.Title,
			PlayerCount: 0,
			Price:       "Free",
			AvgPlaytime: 0,
			Genres:      genres,
			Source:      "itch.io",
			Timestamp:   now,
		})
	}
	return games, nil
}

func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
