package steamspy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://steamspy.com/api.php"

// Client wraps the SteamSpy marketplace analytics API.
type Client struct {
	baseURL string
	client  *resty.Client
}

// TopGame is one entry of the top-100-by-recent-players list.
type TopGame struct {
	AppID int
	Name  string
}

type topGameEntry struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

type appDetailsResponse struct {
	AppID          int    `json:"appid"`
	Name           string `json:"name"`
	Average2Weeks  int    `json:"average_2weeks"` // minutes
	AverageForever int    `json:"average_forever"`
}

func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		baseURL: defaultBaseURL,
		client:  client,
	}
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// TopGames fetches the top-100-in-2-weeks list, ordered by appid for a
// deterministic walk. The upstream returns a map keyed by appid string.
func (c *Client) TopGames() ([]TopGame, error) {
	resp, err := c.client.R().
		SetQueryParam("request", "top100in2weeks").
		Get(c.baseURL)
	if err != nil {
		return nil, err
	}

	var raw map[string]topGameEntry
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse top games response: %w", err)
	}

	games := make([]TopGame, 0, len(raw))
	for appidStr, entry := range raw {
		appid := entry.AppID
		if appid == 0 {
			appid, _ = strconv.Atoi(appidStr)
		}
		name := entry.Name
		if name == "" {
			name = "Unknown"
		}
		games = append(games, TopGame{AppID: appid, Name: name})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].AppID < games[j].AppID })
	return games, nil
}

// AvgPlaytime returns the average playtime over the last two weeks in hours.
func (c *Client) AvgPlaytime(appid int) (float64, error) {
	resp, err := c.client.R().
		SetQueryParam("request", "appdetails").
		SetQueryParam("appid", strconv.Itoa(appid)).
		Get(c.baseURL)
	if err != nil {
		return 0, err
	}

	var details appDetailsResponse
	if err := json.Unmarshal(resp.Body(), &details); err != nil {
		return 0, fmt.Errorf("failed to parse app details for %d: %w", appid, err)
	}
	return float64(details.Average2Weeks) / 60.0, nil
}
