package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// ProgressGateway persists one player's reveal progress.
// It implements reveal.Gateway.
type ProgressGateway struct {
	store    *Store
	playerID int64
}

// ProgressGateway returns the gateway for playerID.
func (s *Store) ProgressGateway(playerID int64) *ProgressGateway {
	return &ProgressGateway{store: s, playerID: playerID}
}

// Load reads the stored progress. A player with no row yields reveal.ErrNotFound.
func (g *ProgressGateway) Load(ctx context.Context) (reveal.Progress, error) {
	var p reveal.Progress
	var pixels string

	err := g.store.db.QueryRowContext(ctx,
		`SELECT total_clicks, current_level, current_pixels
		 FROM game_progress
		 WHERE player_id = ?`,
		g.playerID,
	).Scan(&p.TotalClicks, &p.CurrentLevel, &pixels)

	if errors.Is(err, sql.ErrNoRows) {
		return reveal.Progress{}, reveal.ErrNotFound
	}
	if err != nil {
		return reveal.Progress{}, fmt.Errorf("storage: cannot load progress: %w", err)
	}

	// A damaged pixel list only loses the in-progress level, not level or clicks.
	if err := json.Unmarshal([]byte(pixels), &p.CurrentPixels); err != nil || p.CurrentPixels == nil {
		p.CurrentPixels = []int{}
	}
	return p, nil
}

// Save upserts the fields carried by d in a single statement. Fields the
// delta does not carry keep their stored values.
func (g *ProgressGateway) Save(ctx context.Context, d reveal.Delta) error {
	if d.IsZero() {
		return nil
	}

	// Values for a first insert; untouched columns take the fresh-game defaults.
	fresh := reveal.DefaultProgress().Apply(d)
	if fresh.CurrentPixels == nil {
		fresh.CurrentPixels = []int{}
	}
	pixels, err := json.Marshal(fresh.CurrentPixels)
	if err != nil {
		return fmt.Errorf("storage: cannot encode pixels: %w", err)
	}

	var set []string
	if d.Has(reveal.FieldClicks) {
		set = append(set, "total_clicks = excluded.total_clicks")
	}
	if d.Has(reveal.FieldLevel) {
		set = append(set, "current_level = excluded.current_level")
	}
	if d.Has(reveal.FieldPixels) {
		set = append(set, "current_pixels = excluded.current_pixels")
	}
	set = append(set, "updated_at = excluded.updated_at")

	query := `INSERT INTO game_progress (player_id, total_clicks, current_level, current_pixels, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(player_id) DO UPDATE SET ` + strings.Join(set, ", ")

	if _, err := g.store.db.ExecContext(ctx, query,
		g.playerID, fresh.TotalClicks, fresh.CurrentLevel, string(pixels),
	); err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	return nil
}
