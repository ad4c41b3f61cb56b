package youtube

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gamepulse/internal/models"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	maxCreators    = 3 // per game; API quota and downstream volume cap
)

// Client wraps the YouTube Data API v3 channel search and statistics calls.
type Client struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type channelsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
			ViewCount       string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func NewClient(apiKey string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  client,
	}
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// TopCreators searches channels mentioning the game, then fetches per-channel
// statistics. Results are capped to a small fixed count per game.
func (c *Client) TopCreators(gameName string, now time.Time) ([]models.CreatorStat, error) {
	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"key":        c.apiKey,
			"q":          gameName,
			"part":       "snippet",
			"type":       "channel",
			"maxResults": strconv.Itoa(maxCreators),
		}).
		Get(c.baseURL + "/search")
	if err != nil {
		return nil, err
	}

	var search searchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return nil, fmt.Errorf("failed to parse channel search for %q: %w", gameName, err)
	}
	if len(search.Items) == 0 {
		return []models.CreatorStat{}, nil
	}

	ids := make([]string, 0, len(search.Items))
	names := make(map[string]string, len(search.Items))
	for _, item := range search.Items {
		if item.ID.ChannelID == "" {
			continue
		}
		ids = append(ids, item.ID.ChannelID)
		names[item.ID.ChannelID] = item.Snippet.ChannelTitle
	}

	statsResp, err := c.client.R().
		SetQueryParams(map[string]string{
			"key":  c.apiKey,
			"id":   strings.Join(ids, ","),
			"part": "statistics",
		}).
		Get(c.baseURL + "/channels")
	if err != nil {
		return nil, err
	}

	var channels channelsResponse
	if err := json.Unmarshal(statsResp.Body(), &channels); err != nil {
		return nil, fmt.Errorf("failed to parse channel statistics: %w", err)
	}

	creators := make([]models.CreatorStat, 0, len(channels.Items))
	for _, ch := range channels.Items {
		subs, _ := strconv.ParseInt(ch.Statistics.SubscriberCount, 10, 64)
		videos, _ := strconv.ParseInt(ch.Statistics.VideoCount, 10, 64)
		views, _ := strconv.ParseInt(ch.Statistics.ViewCount, 10, 64)
		creators = append(creators, models.CreatorStat{
			CreatorID:       ch.ID,
			Name:            names[ch.ID],
			Platform:        "YouTube",
			SubscriberCount: subs,
			VideoCount:      videos,
			TotalViews:      views,
			GameName:        gameName,
			Timestamp:       now,
		})
	}
	return creators, nil
}
