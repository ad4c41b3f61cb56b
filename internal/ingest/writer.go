package ingest

import (
	"fmt"
	"log"

	"gamepulse/internal/models"

	"gorm.io/gorm/clause"
)

// write persists every collected record kind in its own batch. Duplicate
// keys are benign skips via insert-or-ignore; any other storage error
// aborts the run.
func (r *Runner) write(games []models.GameStat, prices []models.PriceHistory, creators []models.CreatorStat) error {
	ignoreDup := clause.OnConflict{DoNothing: true}

	if len(games) > 0 {
		res := r.db.Clauses(ignoreDup).Create(&games)
		if res.Error != nil {
			return fmt.Errorf("failed to insert game stats: %w", res.Error)
		}
		if skipped := int64(len(games)) - res.RowsAffected; skipped > 0 {
			log.Printf("Skipped %d duplicate game_stats rows", skipped)
		}
	}

	if len(prices) > 0 {
		res := r.db.Clauses(ignoreDup).Create(&prices)
		if res.Error != nil {
			return fmt.Errorf("failed to insert price history: %w", res.Error)
		}
		if skipped := int64(len(prices)) - res.RowsAffected; skipped > 0 {
			log.Printf("Skipped %d duplicate price_history rows", skipped)
		}
	}

	if len(creators) > 0 {
		res := r.db.Clauses(ignoreDup).Create(&creators)
		if res.Error != nil {
			return fmt.Errorf("failed to insert creator stats: %w", res.Error)
		}
		if skipped := int64(len(creators)) - res.RowsAffected; skipped > 0 {
			log.Printf("Skipped %d duplicate creator_stats rows", skipped)
		}
	}

	return nil
}
