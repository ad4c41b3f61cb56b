// Package ingest runs one synchronous collection pass: fetch from every
// source, normalize, and persist the snapshot rows. Providers fail
// independently; a dead provider reduces data completeness for the run
// instead of aborting it.
package ingest

import (
	"context"
	"log"
	"strconv"
	"time"

	"gamepulse/internal/models"
	"gamepulse/internal/pricing"
	"gamepulse/internal/services/steam"
	"gamepulse/internal/services/steamspy"

	"gorm.io/gorm"
)

// TrackedGames are the titles creator statistics are collected for.
var TrackedGames = []string{"Dota 2", "Counter-Strike 2", "Elden Ring"}

// Fixed pause between per-game Steam calls, per upstream rate limits.
const defaultCallDelay = time.Second

type TopGamesClient interface {
	TopGames() ([]steamspy.TopGame, error)
	AvgPlaytime(appid int) (float64, error)
}

type SteamClient interface {
	PlayerCount(appid int) (int, error)
	Details(appid int) (*steam.AppDetails, error)
}

type FeedClient interface {
	TopRated(now time.Time) ([]models.GameStat, error)
}

type CreatorClient interface {
	TopCreators(gameName string, now time.Time) ([]models.CreatorStat, error)
}

// ProviderReport records one provider's contribution to a run.
type ProviderReport struct {
	Provider string
	Records  int
	Err      error
}

// Report summarizes a full ingestion run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Providers  []ProviderReport
	Games      int
	Creators   int
}

// Runner orchestrates one ingestion run. Clients are injected; any nil
// client simply skips that provider.
type Runner struct {
	db      *gorm.DB
	spy     TopGamesClient
	steam   SteamClient
	feed    FeedClient
	youtube CreatorClient
	twitch  CreatorClient

	callDelay time.Duration
	maxGames  int
}

func NewRunner(db *gorm.DB, spy TopGamesClient, steam SteamClient, feed FeedClient, youtube, twitch CreatorClient) *Runner {
	return &Runner{
		db:        db,
		spy:       spy,
		steam:     steam,
		feed:      feed,
		youtube:   youtube,
		twitch:    twitch,
		callDelay: defaultCallDelay,
	}
}

// SetCallDelay overrides the inter-call pause (tests set it to zero).
func (r *Runner) SetCallDelay(d time.Duration) { r.callDelay = d }

// SetMaxGames caps how many top-list games get detail calls. Zero means all.
func (r *Runner) SetMaxGames(n int) { r.maxGames = n }

// Run executes the pipeline sequentially: marketplace top list, per-game
// details, indie feed, creator statistics, then a single write pass.
// Storage errors abort the run; provider errors only shrink it.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	now := time.Now()
	report := &Report{StartedAt: now}

	var games []models.GameStat
	var prices []models.PriceHistory
	var creators []models.CreatorStat

	if r.spy != nil && r.steam != nil {
		top, err := r.spy.TopGames()
		if err != nil {
			log.Printf("Error fetching top games: %v", err)
			report.Providers = append(report.Providers, ProviderReport{Provider: "steamspy", Err: err})
		} else {
			if r.maxGames > 0 && len(top) > r.maxGames {
				top = top[:r.maxGames]
			}
			count := 0
			for _, g := range top {
				if err := ctx.Err(); err != nil {
					return report, err
				}
				row := r.fetchGameDetails(g, now)
				games = append(games, row)
				prices = append(prices, models.PriceHistory{
					GameID:    row.GameID,
					Name:      row.Name,
					Price:     row.Price,
					Source:    row.Source,
					Timestamp: row.Timestamp,
				})
				count++
			}
			report.Providers = append(report.Providers, ProviderReport{Provider: "steamspy", Records: count})
		}
	}

	if r.feed != nil {
		indie, err := r.feed.TopRated(now)
		if err != nil {
			log.Printf("Error fetching indie feed: %v", err)
			report.Providers = append(report.Providers, ProviderReport{Provider: "itch.io", Err: err})
		} else {
			games = append(games, indie...)
			for _, row := range indie {
				prices = append(prices, models.PriceHistory{
					GameID:    row.GameID,
					Name:      row.Name,
					Price:     row.Price,
					Source:    row.Source,
					Timestamp: row.Timestamp,
				})
			}
			report.Providers = append(report.Providers, ProviderReport{Provider: "itch.io", Records: len(indie)})
		}
	}

	creators = append(creators, r.fetchCreators(ctx, "YouTube", r.youtube, now, report)...)
	creators = append(creators, r.fetchCreators(ctx, "Twitch", r.twitch, now, report)...)

	if err := r.write(games, prices, creators); err != nil {
		return report, err
	}

	report.Games = len(games)
	report.Creators = len(creators)
	report.FinishedAt = time.Now()
	logReport(report)
	return report, nil
}

// fetchGameDetails issues the three per-game calls. On any failure the game
// still gets a zero-valued placeholder row so every top-list title appears
// in the snapshot.
func (r *Runner) fetchGameDetails(g steamspy.TopGame, now time.Time) models.GameStat {
	row := models.GameStat{
		GameID:    "steam_" + strconv.Itoa(g.AppID),
		Name:      g.Name,
		Source:    "steam",
		Timestamp: now,
	}

	playerCount, err := r.steam.PlayerCount(g.AppID)
	if err == nil {
		var details *steam.AppDetails
		details, err = r.steam.Details(g.AppID)
		if err == nil {
			var playtime float64
			playtime, err = r.spy.AvgPlaytime(g.AppID)
			if err == nil {
				row.PlayerCount = playerCount
				row.Price = pricing.Clean(details.RawPrice)
				row.AvgPlaytime = playtime
				row.Genres = details.Genres
				r.pause()
				return row
			}
		}
	}

	log.Printf("Error fetching data for %s: %v", g.Name, err)
	row.PlayerCount = 0
	row.Price = "N/A"
	row.AvgPlaytime = 0
	row.Genres = "N/A"
	r.pause()
	return row
}

func (r *Runner) fetchCreators(ctx context.Context, provider string, client CreatorClient, now time.Time, report *Report) []models.CreatorStat {
	if client == nil {
		return nil
	}
	var all []models.CreatorStat
	for _, game := range TrackedGames {
		if ctx.Err() != nil {
			break
		}
		rows, err := client.TopCreators(game, now)
		if err != nil {
			log.Printf("Error fetching %s creators for %s: %v", provider, game, err)
			report.Providers = append(report.Providers, ProviderReport{Provider: provider, Err: err})
			return all
		}
		all = append(all, rows...)
		r.pause()
	}
	report.Providers = append(report.Providers, ProviderReport{Provider: provider, Records: len(all)})
	return all
}

func (r *Runner) pause() {
	if r.callDelay > 0 {
		time.Sleep(r.callDelay)
	}
}

func logReport(rep *Report) {
	for _, p := range rep.Providers {
		if p.Err != nil {
			log.Printf("Provider %s failed: %v", p.Provider, p.Err)
			continue
		}
		log.Printf("Provider %s contributed %d records", p.Provider, p.Records)
	}
	log.Printf("Run complete: %d game rows, %d creator rows in %s",
		rep.Games, rep.Creators, rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
}

