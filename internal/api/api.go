package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"gamepulse/internal/models"
	"gamepulse/internal/pricing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Latest-day scoping: every read endpoint only sees rows from the day of the
// most recent collection run, not just the single latest row.
const (
	latestGameDay    = "DATE(timestamp) = (SELECT DATE(MAX(timestamp)) FROM game_stats)"
	latestCreatorDay = "DATE(timestamp) = (SELECT DATE(MAX(timestamp)) FROM creator_stats)"
)

const affordableLimit = 10.0 // dollars

// creatorSortColumns is the safe-list for the top-creators ORDER BY column.
// The user-supplied sort_by value is only ever used as a lookup key, never
// interpolated into SQL.
var creatorSortColumns = map[string]string{
	"total_views":      "total_views",
	"subscriber_count": "subscriber_count",
	"engagement_score": "CASE WHEN video_count > 0 THEN 1.0 * total_views / video_count ELSE 0 END",
}

type APIHandler struct {
	db *gorm.DB
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB) *APIHandler {
	handler := &APIHandler{db: db}

	r.GET("/trending-games", handler.TrendingGames)
	r.GET("/top-genres", handler.TopGenres)
	r.GET("/playtime-insights", handler.PlaytimeInsights)
	r.GET("/affordable-games", handler.AffordableGames)
	r.GET("/top-creators", handler.TopCreators)

	return handler
}

// TrendingGames: GET /trending-games?limit=10&genre=&source=
func (h *APIHandler) TrendingGames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	genre := strings.TrimSpace(c.Query("genre"))
	source := strings.TrimSpace(c.Query("source"))

	q := h.db.Model(&models.GameStat{}).Where(latestGameDay)
	if genre != "" {
		q = q.Where("genres LIKE ?", "%"+genre+"%")
	}
	if source != "" {
		q = q.Where("source = ?", source)
	}

	var games []models.GameStat
	if err := q.Order("player_count DESC, name ASC").Limit(limit).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query error: " + err.Error()})
		return
	}
	if games == nil {
		games = []models.GameStat{}
	}
	c.JSON(http.StatusOK, games)
}

// TopGenres: GET /top-genres
// Genre totals are aggregated in Go after fetching the latest day's rows;
// the comma-joined genres column keeps the SQL portable across engines.
func (h *APIHandler) TopGenres(c *gin.Context) {
	var games []models.GameStat
	if err := h.db.Model(&models.GameStat{}).
		Select("genres, player_count").
		Where(latestGameDay).
		Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query error: " + err.Error()})
		return
	}

	totals := make(map[string]int64)
	for _, g := range games {
		for _, genre := range strings.Split(g.Genres, ", ") {
			genre = strings.TrimSpace(genre)
			if genre == "" {
				continue
			}
			totals[genre] += int64(g.PlayerCount)
		}
	}

	type genreTotal struct {
		Genre        string `json:"genre"`
		TotalPlayers int64  `json:"total_players"`
	}
	out := make([]genreTotal, 0, len(totals))
	for genre, total := range totals {
		out = append(out, genreTotal{Genre: genre, TotalPlayers: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPlayers != out[j].TotalPlayers {
			return out[i].TotalPlayers > out[j].TotalPlayers
		}
		return out[i].Genre < out[j].Genre
	})
	if len(out) > 5 {
		out = out[:5]
	}
	c.JSON(http.StatusOK, out)
}

// PlaytimeInsights: GET /playtime-insights
func (h *APIHandler) PlaytimeInsights(c *gin.Context) {
	type insight struct {
		Name        string  `json:"name"`
		AvgPlaytime float64 `json:"avg_playtime"`
		Genres      string  `json:"genres"`
		Source      string  `json:"source"`
	}
	var out []insight
	if err := h.db.Model(&models.GameStat{}).
		Select("name, avg_playtime, genres, source").
		Where(latestGameDay).
		Order("avg_playtime DESC").
		Limit(5).
		Scan(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query error: " + err.Error()})
		return
	}
	if out == nil {
		out = []insight{}
	}
	c.JSON(http.StatusOK, out)
}

// AffordableGames: GET /affordable-games
// Price strings are normalized at write time, so the dollar filter runs in
// Go over the latest day's rows instead of regex-matching inside SQL.
func (h *APIHandler) AffordableGames(c *gin.Context) {
	var games []models.GameStat
	if err := h.db.Model(&models.GameStat{}).
		Where(latestGameDay).
		Order("player_count DESC, name ASC").
		Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query error: " + err.Error()})
		return
	}

	type affordable struct {
		Name        string `json:"name"`
		PlayerCount int    `json:"player_count"`
		Price       string `json:"price"`
		Genres      string `json:"genres"`
		Source      string `json:"source"`
	}
	out := make([]affordable, 0, 5)
	for _, g := range games {
		amount, ok := pricing.Amount(g.Price)
		if !ok || amount > affordableLimit {
			continue
		}
		out = append(out, affordable{
			Name:        g.Name,
			PlayerCount: g.PlayerCount,
			Price:       g.Price,
			Genres:      g.Genres,
			Source:      g.Source,
		})
		if len(out) == 5 {
			break
		}
	}
	c.JSON(http.StatusOK, out)
}

// TopCreators: GET /top-creators?limit=10&platform=&game_name=&sort_by=total_views
func (h *APIHandler) TopCreators(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	platform := strings.TrimSpace(c.Query("platform"))
	gameName := strings.TrimSpace(c.Query("game_name"))

	sortColumn, ok := creatorSortColumns[c.DefaultQuery("sort_by", "total_views")]
	if !ok {
		sortColumn = creatorSortColumns["total_views"]
	}

	q := h.db.Model(&models.CreatorStat{}).
		Select("creator_id, name, platform, subscriber_count, video_count, total_views, game_name, " +
			creatorSortColumns["engagement_score"] + " AS engagement_score").
		Where(latestCreatorDay)
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	if gameName != "" {
		q = q.Where("game_name = ?", gameName)
	}

	type creatorRow struct {
		CreatorID       string  `json:"creator_id"`
		Name            string  `json:"name"`
		Platform        string  `json:"platform"`
		SubscriberCount int64   `json:"subscriber_count"`
		VideoCount      int64   `json:"video_count"`
		TotalViews      int64   `json:"total_views"`
		GameName        string  `json:"game_name"`
		EngagementScore float64 `json:"engagement_score"`
	}
	var out []creatorRow
	if err := q.Order(sortColumn + " DESC, name ASC").Limit(limit).Scan(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query error: " + err.Error()})
		return
	}
	if out == nil {
		out = []creatorRow{}
	}
	c.JSON(http.StatusOK, out)
}
