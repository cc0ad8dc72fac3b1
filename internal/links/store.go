// internal/links/store.go
package links

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
)

const (
	slugCachePrefix = "links:slug:"
	slugCacheTTL    = 5 * time.Minute
)

// Store owns the link_profiles and link_items tables. Public slug
// lookups are cached; mutation paths drop the profile's cache entry.
type Store struct {
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

func NewStore(db *sql.DB, cache *redis.Client, log logger.Logger) *Store {
	return &Store{
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "links-store"}),
	}
}

// GetBySlug returns the active profile and its links in display order.
// An unknown or deactivated slug is a not-found error.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	cacheKey := slugCachePrefix + slug
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var page Page
			if err := json.Unmarshal([]byte(val), &page); err == nil {
				return &page, nil
			}
		}
	}

	var p Profile
	var bio, avatarURL sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, bio, avatar_url, is_active, created_at, updated_at
		FROM link_profiles
		WHERE slug = $1 AND is_active = true`, slug).
		Scan(&p.ID, &p.Slug, &p.Name, &bio, &avatarURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, stderrors.NewProfileNotFoundError(slug)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("profile lookup", err)
	}
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String

	items, err := s.listItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	page := &Page{Profile: p, Links: items}
	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			s.cache.Set(ctx, cacheKey, data, slugCacheTTL)
		}
	}
	return page, nil
}

func (s *Store) listItems(ctx context.Context, profileID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, title, url, COALESCE(icon, ''), order_num, is_active, created_at, updated_at
		FROM link_items
		WHERE profile_id = $1 AND is_active = true
		ORDER BY order_num ASC`, profileID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("link items list", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.ProfileID, &item.Title, &item.URL, &item.Icon,
			&item.OrderNum, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("link items scan", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("link items rows", err)
	}
	return items, nil
}

// CreateProfile makes a new empty profile for a slug.
func (s *Store) CreateProfile(ctx context.Context, slug, name string) (*Profile, error) {
	if slug == "" || name == "" {
		return nil, stderrors.NewValidationFailedError("slug and name are required")
	}

	var p Profile
	var bio, avatarURL sql.NullString
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO link_profiles (slug, name, is_active)
		VALUES ($1, $2, true)
		RETURNING id, slug, name, bio, avatar_url, is_active, created_at, updated_at`,
		slug, name).
		Scan(&p.ID, &p.Slug, &p.Name, &bio, &avatarURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("profile insert", err)
	}
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String
	return &p, nil
}

// UpdateProfile rewrites the editable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id, name, bio, avatarURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE link_profiles
		SET name = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $1`,
		id, name, nullIfEmpty(bio), nullIfEmpty(avatarURL))
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("profile update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewProfileNotFoundError(id)
	}
	s.invalidateProfile(ctx, id)
	return nil
}

// AddLink appends a new link at the end of the profile's list.
func (s *Store) AddLink(ctx context.Context, profileID, title, url, icon string) (*Item, error) {
	if title == "" || url == "" {
		return nil, stderrors.NewValidationFailedError("title and url are required")
	}

	var item Item
	var iconVal sql.NullString
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO link_items (profile_id, title, url, icon, order_num, is_active)
		VALUES ($1, $2, $3, $4,
			(SELECT COUNT(*) FROM link_items WHERE profile_id = $1), true)
		RETURNING id, profile_id, title, url, icon, order_num, is_active, created_at, updated_at`,
		profileID, title, url, nullIfEmpty(icon)).
		Scan(&item.ID, &item.ProfileID, &item.Title, &item.URL, &iconVal,
			&item.OrderNum, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("link insert", err)
	}
	item.Icon = iconVal.String
	s.invalidateProfile(ctx, profileID)
	return &item, nil
}

// UpdateLink rewrites a link's title, url and icon.
func (s *Store) UpdateLink(ctx context.Context, id, title, url, icon string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE link_items
		SET title = $2, url = $3, icon = $4, updated_at = NOW()
		WHERE id = $1`,
		id, title, url, nullIfEmpty(icon))
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("link update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewProfileNotFoundError(id)
	}
	s.invalidateLinkProfile(ctx, id)
	return nil
}

// DeleteLink removes a link from its profile.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	if s.cache != nil {
		var profileID string
		if err := s.db.QueryRowContext(ctx,
			`SELECT profile_id FROM link_items WHERE id = $1`, id).Scan(&profileID); err == nil {
			defer s.invalidateProfile(ctx, profileID)
		}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM link_items WHERE id = $1`, id)
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("link delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewProfileNotFoundError(id)
	}
	return nil
}

func (s *Store) invalidateLinkProfile(ctx context.Context, linkID string) {
	if s.cache == nil {
		return
	}
	var profileID string
	if err := s.db.QueryRowContext(ctx,
		`SELECT profile_id FROM link_items WHERE id = $1`, linkID).Scan(&profileID); err != nil {
		return
	}
	s.invalidateProfile(ctx, profileID)
}

func (s *Store) invalidateProfile(ctx context.Context, profileID string) {
	if s.cache == nil {
		return
	}
	var slug string
	if err := s.db.QueryRowContext(ctx,
		`SELECT slug FROM link_profiles WHERE id = $1`, profileID).Scan(&slug); err != nil {
		return
	}
	if err := s.cache.Del(ctx, slugCachePrefix+slug).Err(); err != nil {
		s.logger.Warn("slug cache invalidation failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
