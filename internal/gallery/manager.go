// internal/gallery/manager.go
package gallery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/common/metrics"
)

const (
	cacheKeyPrefix = "gallery:category:"
	cacheTTL       = 1 * time.Hour
)

// Manager owns the gallery table and its object storage. Public reads go
// through a Redis cache; every mutation drops the affected category key.
// A nil storage disables uploads; deletes still drop the row.
type Manager struct {
	db      *sql.DB
	storage ObjectStorage
	cache   *redis.Client
	logger  logger.Logger
}

func NewManager(db *sql.DB, storage ObjectStorage, cache *redis.Client, log logger.Logger) *Manager {
	return &Manager{
		db:      db,
		storage: storage,
		cache:   cache,
		logger:  log.WithFields(map[string]interface{}{"component": "gallery-manager"}),
	}
}

// ListByCategory returns the active items of a category in display order.
// limit <= 0 means all items. The unlimited list is what gets cached;
// limited views slice it.
func (m *Manager) ListByCategory(ctx context.Context, category Category, limit int) ([]Item, error) {
	if !category.Valid() {
		return nil, stderrors.NewValidationFailedError("unknown gallery category: " + string(category))
	}

	items, err := m.cachedCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (m *Manager) cachedCategory(ctx context.Context, category Category) ([]Item, error) {
	cacheKey := cacheKeyPrefix + string(category)
	if m.cache != nil {
		if val, err := m.cache.Get(ctx, cacheKey).Result(); err == nil {
			var items []Item
			if err := json.Unmarshal([]byte(val), &items); err == nil {
				return items, nil
			}
		}
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, image_url, category, COALESCE(caption, ''), alt, "order", active, created_at, updated_at
		FROM gallery
		WHERE category = $1 AND active = true
		ORDER BY "order" ASC`, category)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("gallery list", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			m.cache.Set(ctx, cacheKey, data, cacheTTL)
		}
	}
	return items, nil
}

// ListAll returns every item, inactive ones included, for the admin panel.
func (m *Manager) ListAll(ctx context.Context) ([]Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, image_url, category, COALESCE(caption, ''), alt, "order", active, created_at, updated_at
		FROM gallery
		ORDER BY category ASC, "order" ASC`)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("gallery list all", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Upload stores the image and inserts its gallery record. An insert
// failure after a successful storage write leaves the object behind; the
// admin retries with a fresh key.
func (m *Manager) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if !req.Category.Valid() {
		return "", stderrors.NewValidationFailedError("unknown gallery category: " + string(req.Category))
	}
	if len(req.Body) == 0 {
		return "", stderrors.NewValidationFailedError("empty file body")
	}
	if m.storage == nil {
		return "", stderrors.NewStoreNotConfiguredError("gallery object storage")
	}

	alt := req.Alt
	if alt == "" {
		alt = "Imagem " + string(req.Category)
	}

	key := objectKey(req.Category, req.FileName)
	imageURL, err := m.storage.Upload(ctx, key, req.ContentType, req.Body)
	if err != nil {
		metrics.GalleryUploads.WithLabelValues(string(req.Category), "failed").Inc()
		return "", err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO gallery (image_url, category, caption, alt, "order", active)
		VALUES ($1, $2, $3, $4, $5, true)`,
		imageURL, req.Category, nullIfEmpty(req.Caption), alt, req.Order)
	if err != nil {
		metrics.GalleryUploads.WithLabelValues(string(req.Category), "failed").Inc()
		m.logger.Error("gallery insert failed after upload", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", stderrors.NewQueryExecutionFailedError("gallery insert", err)
	}

	metrics.GalleryUploads.WithLabelValues(string(req.Category), "success").Inc()
	m.invalidate(ctx, req.Category)
	return imageURL, nil
}

// BulkUpload processes the files one by one and reports per-file
// outcomes. Earlier successes stand even when later files fail.
func (m *Manager) BulkUpload(ctx context.Context, files []UploadRequest, startOrder int) BulkResult {
	var result BulkResult
	for i, req := range files {
		req.Order = startOrder + i
		if _, err := m.Upload(ctx, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", req.FileName, err.Error()))
			continue
		}
		result.Success++
	}
	return result
}

// Delete removes the row first and then the stored object. A storage
// failure after the row is gone is logged and swallowed; the record is
// the source of truth.
func (m *Manager) Delete(ctx context.Context, id string) error {
	var imageURL string
	var category Category
	err := m.db.QueryRowContext(ctx,
		`SELECT image_url, category FROM gallery WHERE id = $1`, id).
		Scan(&imageURL, &category)
	if err == sql.ErrNoRows {
		return stderrors.NewGalleryItemNotFoundError(id)
	}
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("gallery lookup", err)
	}

	if _, err := m.db.ExecContext(ctx, `DELETE FROM gallery WHERE id = $1`, id); err != nil {
		return stderrors.NewQueryExecutionFailedError("gallery delete", err)
	}

	if m.storage != nil {
		if key := m.storage.KeyFromURL(imageURL); key != "" {
			if err := m.storage.Delete(ctx, key); err != nil {
				m.logger.Warn("storage delete failed after row delete", map[string]interface{}{
					"id":    id,
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}

	m.invalidate(ctx, category)
	return nil
}

// Reorder moves one item to a new display position.
func (m *Manager) Reorder(ctx context.Context, id string, newOrder int) error {
	return m.updateItem(ctx, id,
		`UPDATE gallery SET "order" = $2, updated_at = NOW() WHERE id = $1`, newOrder)
}

// SetActive toggles an item's visibility on the public site.
func (m *Manager) SetActive(ctx context.Context, id string, active bool) error {
	return m.updateItem(ctx, id,
		`UPDATE gallery SET active = $2, updated_at = NOW() WHERE id = $1`, active)
}

func (m *Manager) updateItem(ctx context.Context, id, query string, arg interface{}) error {
	res, err := m.db.ExecContext(ctx, query, id, arg)
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("gallery update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewGalleryItemNotFoundError(id)
	}

	var category Category
	if err := m.db.QueryRowContext(ctx,
		`SELECT category FROM gallery WHERE id = $1`, id).Scan(&category); err == nil {
		m.invalidate(ctx, category)
	}
	return nil
}

func (m *Manager) invalidate(ctx context.Context, category Category) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Del(ctx, cacheKeyPrefix+string(category)).Err(); err != nil {
		m.logger.Warn("gallery cache invalidation failed", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
	}
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.ImageURL, &item.Category, &item.Caption,
			&item.Alt, &item.Order, &item.Active, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("gallery scan", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("gallery rows", err)
	}
	return items, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
