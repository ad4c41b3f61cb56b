package twitch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gamepulse/internal/models"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAuthURL   = "https://id.twitch.tv/oauth2/token"
	defaultHelixURL  = "https://api.twitch.tv/helix"
	maxCreators      = 3  // per game; API quota and downstream volume cap
	videoSampleLimit = 20 // videos counted per channel
)

// Client wraps the Twitch Helix API. Every data call requires an app access
// token obtained via the OAuth2 client-credentials flow first.
type Client struct {
	clientID     string
	clientSecret string
	authURL      string
	helixURL     string
	client       *resty.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type searchChannelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
}

type followersResponse struct {
	Total int64 `json:"total"`
}

type videosResponse struct {
	Data []struct {
		ViewCount int64 `json:"view_count"`
	} `json:"data"`
}

func NewClient(clientID, clientSecret string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      defaultAuthURL,
		helixURL:     defaultHelixURL,
		client:       client,
	}
}

// NewClientWithBaseURLs is used by tests to point at fake servers.
func NewClientWithBaseURLs(clientID, clientSecret, authURL, helixURL string) *Client {
	c := NewClient(clientID, clientSecret)
	c.authURL = authURL
	c.helixURL = helixURL
	return c
}

// appToken runs the client-credentials flow. A failure here short-circuits
// the whole Twitch contribution for the run.
func (c *Client) appToken() (string, error) {
	resp, err := c.client.R().
		SetFormData(map[string]string{
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
			"grant_type":    "client_credentials",
		}).
		Post(c.authURL)
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("twitch token request rejected")
	}
	return token.AccessToken, nil
}

// TopCreators searches channels mentioning the game, then fetches follower
// and video statistics per channel. Capped to a small fixed count per game.
func (c *Client) TopCreators(gameName string, now time.Time) ([]models.CreatorStat, error) {
	token, err := c.appToken()
	if err != nil {
		return nil, err
	}

	resp, err := c.helixRequest(token).
		SetQueryParams(map[string]string{
			"query": gameName,
			"first": strconv.Itoa(maxCreators),
		}).
		Get(c.helixURL + "/search/channels")
	if err != nil {
		return nil, err
	}

	var search searchChannelsResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return nil, fmt.Errorf("failed to parse channel search for %q: %w", gameName, err)
	}

	creators := make([]models.CreatorStat, 0, len(search.Data))
	for _, ch := range search.Data {
		followers, err := c.followerCount(token, ch.ID)
		if err != nil {
			return nil, err
		}
		videoCount, totalViews, err := c.videoStats(token, ch.ID)
		if err != nil {
			return nil, err
		}
		creators = append(creators, models.CreatorStat{
			CreatorID:       ch.ID,
			Name:            ch.DisplayName,
			Platform:        "Twitch",
			SubscriberCount: followers,
			VideoCount:      videoCount,
			TotalViews:      totalViews,
			GameName:        gameName,
			Timestamp:       now,
		})
	}
	return creators, nil
}

func (c *Client) followerCount(token, broadcasterID string) (int64, error) {
	resp, err := c.helixRequest(token).
		SetQueryParam("broadcaster_id", broadcasterID).
		Get(c.helixURL + "/channels/followers")
	if err != nil {
		return 0, err
	}

	var followers followersResponse
	if err := json.Unmarshal(resp.Body(), &followers); err != nil {
		return 0, fmt.Errorf("failed to parse followers for %s: %w", broadcasterID, err)
	}
	return followers.Total, nil
}

func (c *Client) videoStats(token, userID string) (int64, int64, error) {
	resp, err := c.helixRequest(token).
		SetQueryParams(map[string]string{
			"user_id": userID,
			"first":   strconv.Itoa(videoSampleLimit),
		}).
		Get(c.helixURL + "/videos")
	if err != nil {
		return 0, 0, err
	}

	var videos videosResponse
	if err := json.Unmarshal(resp.Body(), &videos); err != nil {
		return 0, 0, fmt.Errorf("failed to parse videos for %s: %w", userID, err)
	}

	var total int64
	for _, v := range videos.Data {
		total += v.ViewCount
	}
	return int64(len(videos.Data)), total, nil
}

func (c *Client) helixRequest(token string) *resty.Request {
	return c.client.R().
		SetHeader("Client-Id", c.clientID).
		SetHeader("Authorization", "Bearer "+token)
}
