package steam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIBaseURL   = "https://api.steampowered.com"
	defaultStoreBaseURL = "https://store.steampowered.com"
)

// Client wraps the Steam Web API (live player counts) and the storefront
// appdetails endpoint (price and genre metadata).
type Client struct {
	apiKey       string
	apiBaseURL   string
	storeBaseURL string
	client       *resty.Client
}

// AppDetails is the storefront metadata needed for a snapshot row.
type AppDetails struct {
	RawPrice string // final_formatted as returned, "" when no price block
	Genres   string // comma-joined descriptions, "N/A" when absent
}

type playerCountResponse struct {
	Response struct {
		PlayerCount int `json:"player_count"`
		Result      int `json:"result"`
	} `json:"response"`
}

type storeAppData struct {
	Success bool `json:"success"`
	Data    struct {
		Name          string `json:"name"`
		PriceOverview struct {
			FinalFormatted string `json:"final_formatted"`
		} `json:"price_overview"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
	} `json:"data"`
}

func NewClient(apiKey string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		apiKey:       apiKey,
		apiBaseURL:   defaultAPIBaseURL,
		storeBaseURL: defaultStoreBaseURL,
		client:       client,
	}
}

// NewClientWithBaseURLs is used by tests to point at fake servers.
func NewClientWithBaseURLs(apiKey, apiBaseURL, storeBaseURL string) *Client {
	c := NewClient(apiKey)
	c.apiBaseURL = apiBaseURL
	c.storeBaseURL = storeBaseURL
	return c
}

// PlayerCount fetches the current concurrent player count for an app.
func (c *Client) PlayerCount(appid int) (int, error) {
	resp, err := c.client.R().
		SetQueryParam("key", c.apiKey).
		SetQueryParam("appid", strconv.Itoa(appid)).
		Get(c.apiBaseURL + "/ISteamUserStats/GetNumberOfCurrentPlayers/v1/")
	if err != nil {
		return 0, err
	}

	var pc playerCountResponse
	if err := json.Unmarshal(resp.Body(), &pc); err != nil {
		return 0, fmt.Errorf("failed to parse player count for %d: %w", appid, err)
	}
	return pc.Response.PlayerCount, nil
}

// Details fetches storefront price and genre metadata for an app.
func (c *Client) Details(appid int) (*AppDetails, error) {
	resp, err := c.client.R().
		SetQueryParam("appids", strconv.Itoa(appid)).
		Get(c.storeBaseURL + "/api/appdetails")
	if err != nil {
		return nil, err
	}

	// Response is keyed by the appid string
	var wrapper map[string]storeAppData
	if err := json.Unmarshal(resp.Body(), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse appdetails for %d: %w", appid, err)
	}
	app, ok := wrapper[strconv.Itoa(appid)]
	if !ok || !app.Success {
		return nil, fmt.Errorf("storefront returned unsuccessful response for %d", appid)
	}

	genres := make([]string, 0, len(app.Data.Genres))
	for _, g := range app.Data.Genres {
		genres = append(genres, g.Description)
	}
	joined := strings.Join(genres, ", ")
	if joined == "" {
		joined = "N/A"
	}

	return &AppDetails{
		RawPrice: app.Data.PriceOverview.FinalFormatted,
		Genres:   joined,
	}, nil
}
