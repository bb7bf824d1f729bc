package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safeplate/safeplate/internal/allergen"
)

// Store wraps database operations for venues, menu items, and
// per-venue equipment risk data.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store instance.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect establishes a database connection pool. maxConns <= 0 keeps
// the pgx default.
func Connect(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetVenueBySlug looks up a venue by its public URL slug.
func (s *Store) GetVenueBySlug(ctx context.Context, slug string) (*Venue, error) {
	var v Venue
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, slug, representation FROM venues WHERE slug = $1
	`, slug).Scan(&v.ID, &v.Name, &v.Slug, &v.Representation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get venue %q: %w", slug, err)
	}
	return &v, nil
}

// ListActiveMenuItems returns the venue's active menu in display order.
// Both the tri-state profile and the precomputed confidence map are
// loaded; which one drives filtering depends on the source's declared
// representation.
func (s *Store) ListActiveMenuItems(ctx context.Context, venueID uuid.UUID) ([]MenuItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, ingredients, price, allergen_profile, allergen_confidence
		FROM menu_items
		WHERE venue_id = $1 AND is_active = true
		ORDER BY sort_order
	`, venueID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var it MenuItem
		var rawProfile, rawConf []byte
		if err := rows.Scan(&it.ID, &it.Name, &it.Ingredients, &it.Price, &rawProfile, &rawConf); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if len(rawProfile) > 0 {
			raw := map[string]string{}
			if err := json.Unmarshal(rawProfile, &raw); err != nil {
				return nil, fmt.Errorf("decode allergen profile for %q: %w", it.Name, err)
			}
			it.Profile = make(map[string]TriState, len(raw))
			for col, val := range raw {
				it.Profile[col] = NormalizeTriState(val)
			}
		}
		if len(rawConf) > 0 {
			if err := json.Unmarshal(rawConf, &it.Confidence); err != nil {
				return nil, fmt.Errorf("decode allergen confidence for %q: %w", it.Name, err)
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetEquipmentRisks returns the venue's per-allergen cross-contamination
// risk levels. Allergens without a row carry no adjustment.
func (s *Store) GetEquipmentRisks(ctx context.Context, venueID uuid.UUID) (map[string]allergen.RiskLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT allergen_id, risk_level FROM equipment_risks WHERE venue_id = $1
	`, venueID)
	if err != nil {
		return nil, fmt.Errorf("list equipment risks: %w", err)
	}
	defer rows.Close()

	risks := map[string]allergen.RiskLevel{}
	for rows.Next() {
		var allergenID, level string
		if err := rows.Scan(&allergenID, &level); err != nil {
			return nil, fmt.Errorf("scan equipment risk: %w", err)
		}
		risks[allergenID] = allergen.RiskLevel(level)
	}
	return risks, rows.Err()
}

// UpsertMenuItem writes an item along with its recomputed confidence
// map. Confidence is computed by the caller at write time so that
// query-time filtering stays purely deterministic.
func (s *Store) UpsertMenuItem(ctx context.Context, venueID uuid.UUID, item MenuItem, confidence map[string]float64) error {
	profile, err := json.Marshal(item.Profile)
	if err != nil {
		return fmt.Errorf("encode allergen profile: %w", err)
	}
	conf, err := json.Marshal(confidence)
	if err != nil {
		return fmt.Errorf("encode allergen confidence: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO menu_items (id, venue_id, name, ingredients, price, allergen_profile, allergen_confidence, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			ingredients = EXCLUDED.ingredients,
			price = EXCLUDED.price,
			allergen_profile = EXCLUDED.allergen_profile,
			allergen_confidence = EXCLUDED.allergen_confidence
	`, item.ID, venueID, item.Name, item.Ingredients, item.Price, profile, conf)
	if err != nil {
		return fmt.Errorf("upsert menu item %q: %w", item.Name, err)
	}
	return nil
}

// ItemLister provides menu items for a venue. *Store satisfies it;
// tests substitute fakes.
type ItemLister interface {
	ListActiveMenuItems(ctx context.Context, venueID uuid.UUID) ([]MenuItem, error)
}

// VenueSource adapts an ItemLister to the Source interface for one
// venue with its declared representation.
type VenueSource struct {
	lister         ItemLister
	venueID        uuid.UUID
	representation Representation
}

// NewVenueSource builds a Source for a venue.
func NewVenueSource(lister ItemLister, venueID uuid.UUID, rep Representation) *VenueSource {
	return &VenueSource{lister: lister, venueID: venueID, representation: rep}
}

func (v *VenueSource) Representation() Representation {
	return v.representation
}

func (v *VenueSource) Fetch(ctx context.Context) ([]MenuItem, error) {
	return v.lister.ListActiveMenuItems(ctx, v.venueID)
}
