package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamepulse/internal/database"
	"gamepulse/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	SetupRoutes(router.Group("/"), db)
	return router, db
}

func getJSON(t *testing.T, router *gin.Engine, url string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	return rec.Code
}

func seedGames(t *testing.T, db *gorm.DB, rows []models.GameStat) {
	t.Helper()
	require.NoError(t, db.Create(&rows).Error)
}

var (
	dayOld = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	dayNew = time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
)

func TestTrendingGamesScopesToLatestDay(t *testing.T) {
	router, db := newTestRouter(t)
	seedGames(t, db, []models.GameStat{
		{GameID: "steam_1", Name: "Old Game", PlayerCount: 99999, Price: "Free", Genres: "Action", Source: "steam", Timestamp: dayOld},
		{GameID: "steam_2", Name: "New Game", PlayerCount: 10, Price: "Free", Genres: "Action", Source: "steam", Timestamp: dayNew},
	})

	var out []models.GameStat
	code := getJSON(t, router, "/trending-games", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 1)
	assert.Equal(t, "New Game", out[0].Name)
}

func TestTrendingGamesFilterSortLimit(t *testing.T) {
	router, db := newTestRouter(t)
	rows := []models.GameStat{
		{GameID: "steam_1", Name: "Alpha Quest", PlayerCount: 500, Price: "$4.60", Genres: "RPG, Action", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_2", Name: "Beta Brawl", PlayerCount: 500, Price: "Free", Genres: "RPG", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_3", Name: "Shooter X", PlayerCount: 900, Price: "Free", Genres: "FPS", Source: "steam", Timestamp: dayNew},
		{GameID: "itch_gem", Name: "Hidden Gem", PlayerCount: 0, Price: "Free", Genres: "RPG, Indie", Source: "itch.io", Timestamp: dayNew},
		{GameID: "steam_4", Name: "Card RPG", PlayerCount: 300, Price: "$9.99", Genres: "RPG, Card", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_5", Name: "Dungeon RPG", PlayerCount: 200, Price: "$12.00", Genres: "RPG", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_6", Name: "Puzzle Town", PlayerCount: 700, Price: "Free", Genres: "Puzzle", Source: "steam", Timestamp: dayNew},
	}
	seedGames(t, db, rows)

	var out []models.GameStat
	code := getJSON(t, router, "/trending-games?limit=5&genre=RPG", &out)
	assert.Equal(t, http.StatusOK, code)
	require.True(t, len(out) <= 5)
	require.Len(t, out, 5)
	for _, g := range out {
		assert.Contains(t, g.Genres, "RPG")
	}
	// player_count DESC, name ASC; Alpha Quest before Beta Brawl at 500
	names := []string{out[0].Name, out[1].Name, out[2].Name, out[3].Name, out[4].Name}
	assert.Equal(t, []string{"Alpha Quest", "Beta Brawl", "Card RPG", "Dungeon RPG", "Hidden Gem"}, names)

	// source filter
	code = getJSON(t, router, "/trending-games?genre=RPG&source=itch.io", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 1)
	assert.Equal(t, "Hidden Gem", out[0].Name)
}

func TestTopGenresSumsLatestDay(t *testing.T) {
	router, db := newTestRouter(t)
	seedGames(t, db, []models.GameStat{
		{GameID: "steam_1", Name: "A", PlayerCount: 100, Price: "Free", Genres: "Action, RPG", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_2", Name: "B", PlayerCount: 50, Price: "Free", Genres: "Action", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_3", Name: "C", PlayerCount: 70, Price: "Free", Genres: "Puzzle", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_9", Name: "Stale", PlayerCount: 9999, Price: "Free", Genres: "Stale Genre", Source: "steam", Timestamp: dayOld},
	})

	var out []struct {
		Genre        string `json:"genre"`
		TotalPlayers int64  `json:"total_players"`
	}
	code := getJSON(t, router, "/top-genres", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "Action", out[0].Genre)
	assert.Equal(t, int64(150), out[0].TotalPlayers)
	assert.Equal(t, "RPG", out[1].Genre)
	assert.Equal(t, "Puzzle", out[2].Genre)
}

func TestPlaytimeInsights(t *testing.T) {
	router, db := newTestRouter(t)
	seedGames(t, db, []models.GameStat{
		{GameID: "steam_1", Name: "Short", AvgPlaytime: 1.5, Genres: "Action", Source: "steam", Price: "Free", Timestamp: dayNew},
		{GameID: "steam_2", Name: "Long", AvgPlaytime: 40.0, Genres: "RPG", Source: "steam", Price: "Free", Timestamp: dayNew},
		{GameID: "steam_3", Name: "Mid", AvgPlaytime: 10.0, Genres: "FPS", Source: "steam", Price: "Free", Timestamp: dayNew},
	})

	var out []struct {
		Name        string  `json:"name"`
		AvgPlaytime float64 `json:"avg_playtime"`
	}
	code := getJSON(t, router, "/playtime-insights", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "Long", out[0].Name)
	assert.Equal(t, "Mid", out[1].Name)
	assert.Equal(t, "Short", out[2].Name)
}

func TestAffordableGames(t *testing.T) {
	router, db := newTestRouter(t)
	seedGames(t, db, []models.GameStat{
		{GameID: "steam_1", Name: "Free One", PlayerCount: 800, Price: "Free", Genres: "Action", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_2", Name: "Cheap One", PlayerCount: 700, Price: "$9.99", Genres: "RPG", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_3", Name: "Exactly Ten", PlayerCount: 600, Price: "$10", Genres: "FPS", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_4", Name: "Pricey", PlayerCount: 999, Price: "$59.99", Genres: "AAA", Source: "steam", Timestamp: dayNew},
		{GameID: "steam_5", Name: "Unknown Price", PlayerCount: 950, Price: "N/A", Genres: "Mystery", Source: "steam", Timestamp: dayNew},
	})

	var out []struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	code := getJSON(t, router, "/affordable-games", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "Free One", out[0].Name)
	assert.Equal(t, "Cheap One", out[1].Name)
	assert.Equal(t, "Exactly Ten", out[2].Name)
}

func seedCreators(t *testing.T, db *gorm.DB, rows []models.CreatorStat) {
	t.Helper()
	require.NoError(t, db.Create(&rows).Error)
}

func TestTopCreatorsEngagementScore(t *testing.T) {
	router, db := newTestRouter(t)
	seedCreators(t, db, []models.CreatorStat{
		{CreatorID: "yt_1", Name: "Streamer A", Platform: "YouTube", SubscriberCount: 5000, VideoCount: 100, TotalViews: 1000000, GameName: "Dota 2", Timestamp: dayNew},
		{CreatorID: "yt_2", Name: "Streamer B", Platform: "YouTube", SubscriberCount: 90000, VideoCount: 0, TotalViews: 0, GameName: "Dota 2", Timestamp: dayNew},
		{CreatorID: "tw_1", Name: "Streamer C", Platform: "Twitch", SubscriberCount: 100, VideoCount: 10, TotalViews: 500000, GameName: "Dota 2", Timestamp: dayNew},
	})

	var out []struct {
		Name            string  `json:"name"`
		EngagementScore float64 `json:"engagement_score"`
	}
	code := getJSON(t, router, "/top-creators?sort_by=engagement_score", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	// C: 500000/10=50000, A: 1000000/100=10000, B: video_count=0 -> 0
	assert.Equal(t, "Streamer C", out[0].Name)
	assert.InDelta(t, 50000, out[0].EngagementScore, 1e-9)
	assert.Equal(t, "Streamer A", out[1].Name)
	assert.Equal(t, "Streamer B", out[2].Name)
	assert.Equal(t, 0.0, out[2].EngagementScore)
}

func TestTopCreatorsFiltersAndDefaultSort(t *testing.T) {
	router, db := newTestRouter(t)
	seedCreators(t, db, []models.CreatorStat{
		{CreatorID: "yt_1", Name: "Alice", Platform: "YouTube", SubscriberCount: 10, VideoCount: 1, TotalViews: 300, GameName: "Dota 2", Timestamp: dayNew},
		{CreatorID: "yt_2", Name: "Bob", Platform: "YouTube", SubscriberCount: 20, VideoCount: 1, TotalViews: 500, GameName: "Elden Ring", Timestamp: dayNew},
		{CreatorID: "tw_1", Name: "Cara", Platform: "Twitch", SubscriberCount: 30, VideoCount: 1, TotalViews: 400, GameName: "Dota 2", Timestamp: dayNew},
		{CreatorID: "tw_9", Name: "Stale", Platform: "Twitch", SubscriberCount: 1, VideoCount: 1, TotalViews: 999999, GameName: "Dota 2", Timestamp: dayOld},
	})

	var out []struct {
		Name     string `json:"name"`
		Platform string `json:"platform"`
	}
	// default sort_by=total_views, latest day only
	code := getJSON(t, router, "/top-creators", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "Bob", out[0].Name)
	assert.Equal(t, "Cara", out[1].Name)
	assert.Equal(t, "Alice", out[2].Name)

	code = getJSON(t, router, "/top-creators?platform=Twitch", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 1)
	assert.Equal(t, "Cara", out[0].Name)

	code = getJSON(t, router, "/top-creators?game_name=Elden+Ring", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 1)
	assert.Equal(t, "Bob", out[0].Name)

	// unknown sort_by falls back to total_views rather than erroring
	code = getJSON(t, router, "/top-creators?sort_by=drop+table", &out)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out, 3)
	assert.Equal(t, "Bob", out[0].Name)
}

func TestEmptyTablesReturnEmptyArrays(t *testing.T) {
	router, _ := newTestRouter(t)

	var games []models.GameStat
	assert.Equal(t, http.StatusOK, getJSON(t, router, "/trending-games", &games))
	assert.Empty(t, games)

	var creators []any
	assert.Equal(t, http.StatusOK, getJSON(t, router, "/top-creators", &creators))
	assert.Empty(t, creators)
}
