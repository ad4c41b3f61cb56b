package steam

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUserStats/GetNumberOfCurrentPlayers/v1/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"response": {"player_count": 412345, "result": 1}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs("test-key", srv.URL, srv.URL)
	count, err := c.PlayerCount(570)
	require.NoError(t, err)
	assert.Equal(t, 412345, count)
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		w.Write([]byte(`{"730": {"success": true, "data": {
			"name": "Counter-Strike 2",
			"price_overview": {"final_formatted": "$14.99"},
			"genres": [{"description": "Action"}, {"description": "FPS"}]
		}}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs("test-key", srv.URL, srv.URL)
	details, err := c.Details(730)
	require.NoError(t, err)
	assert.Equal(t, "$14.99", details.RawPrice)
	assert.Equal(t, "Action, FPS", details.Genres)
}

func TestDetailsUnsuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"999999": {"success": false}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs("test-key", srv.URL, srv.URL)
	_, err := c.Details(999999)
	assert.Error(t, err)
}

func TestDetailsNoPriceBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"570": {"success": true, "data": {"name": "Dota 2"}}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs("test-key", srv.URL, srv.URL)
	details, err := c.Details(570)
	require.NoError(t, err)
	assert.Equal(t, "", details.RawPrice) // normalizes to "Free" downstream
	assert.Equal(t, "N/A", details.Genres)
}
