package models

import (
	"time"
)

// GameStat is one game row per collection run. Rows are append-only;
// a (game_id, timestamp) pair is inserted at most once.
type GameStat struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GameID      string    `json:"game_id" gorm:"size:64;uniqueIndex:idx_game_run;not null"`
	Name        string    `json:"name" gorm:"not null"`
	PlayerCount int       `json:"player_count"`
	Price       string    `json:"price" gorm:"size:16"` // "Free", "$<amount>" or "N/A"
	AvgPlaytime float64   `json:"avg_playtime"`         // hours
	Genres      string    `json:"genres"`               // comma-joined
	Source      string    `json:"source" gorm:"size:32;index"`
	Timestamp   time.Time `json:"timestamp" gorm:"uniqueIndex:idx_game_run;index"`
}

// PriceHistory is an append-only price log derived 1:1 from each GameStat
// at write time; kept for price-trend queries.
type PriceHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    string    `json:"game_id" gorm:"size:64;uniqueIndex:idx_price_run;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Price     string    `json:"price" gorm:"size:16"`
	Source    string    `json:"source" gorm:"size:32"`
	Timestamp time.Time `json:"timestamp" gorm:"uniqueIndex:idx_price_run;index"`
}

// CreatorStat is one content-creator row per collection run. The engagement
// score (total_views/video_count) is derived at query time, never stored.
type CreatorStat struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	CreatorID       string    `json:"creator_id" gorm:"size:128;uniqueIndex:idx_creator_run;not null"`
	Name            string    `json:"name" gorm:"not null"`
	Platform        string    `json:"platform" gorm:"size:16;index"` // YouTube, Twitch
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
	TotalViews      int64     `json:"total_views"`
	GameName        string    `json:"game_name" gorm:"index"`
	Timestamp       time.Time `json:"timestamp" gorm:"uniqueIndex:idx_creator_run;index"`
}

func (GameStat) TableName() string     { return "game_stats" }
func (PriceHistory) TableName() string { return "price_history" }
func (CreatorStat) TableName() string  { return "creator_stats" }
