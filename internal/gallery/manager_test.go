// internal/gallery/manager_test.go
package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
)

type fakeStorage struct {
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
	baseURL   string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		uploaded: map[string][]byte{},
		baseURL:  "https://cdn.example.com/gallery",
	}
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, body []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded[key] = body
	return f.baseURL + "/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) KeyFromURL(imageURL string) string {
	prefix := f.baseURL + "/"
	if len(imageURL) <= len(prefix) || imageURL[:len(prefix)] != prefix {
		return ""
	}
	return imageURL[len(prefix):]
}

func itemColumns() []string {
	return []string{"id", "image_url", "category", "caption", "alt", "order", "active", "created_at", "updated_at"}
}

func assertGalleryCode(t *testing.T, err error, code stderrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
}

func TestManager_ListByCategory_CacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, cacheMock := redismock.NewClientMock()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(itemColumns()).
		AddRow("id-1", "https://cdn.example.com/gallery/portfolio/a.jpg", "portfolio", "Campanha A", "Imagem portfolio", 1, true, now, now).
		AddRow("id-2", "https://cdn.example.com/gallery/portfolio/b.jpg", "portfolio", "", "Imagem portfolio", 2, true, now, now)

	expected := []Item{
		{ID: "id-1", ImageURL: "https://cdn.example.com/gallery/portfolio/a.jpg", Category: CategoryPortfolio, Caption: "Campanha A", Alt: "Imagem portfolio", Order: 1, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "id-2", ImageURL: "https://cdn.example.com/gallery/portfolio/b.jpg", Category: CategoryPortfolio, Alt: "Imagem portfolio", Order: 2, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	cached, err := json.Marshal(expected)
	require.NoError(t, err)

	cacheMock.ExpectGet("gallery:category:portfolio").RedisNil()
	mock.ExpectQuery(`SELECT .+ FROM gallery`).
		WithArgs("portfolio").
		WillReturnRows(rows)
	cacheMock.ExpectSet("gallery:category:portfolio", cached, cacheTTL).SetVal("OK")

	mgr := NewManager(db, newFakeStorage(), rdb, logger.NewNoOpLogger())

	items, err := mgr.ListByCategory(context.Background(), CategoryPortfolio, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, items)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestManager_ListByCategory_CacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, cacheMock := redismock.NewClientMock()

	cached := []Item{{ID: "id-1", ImageURL: "https://cdn.example.com/gallery/logo/x.png", Category: CategoryLogo, Alt: "Imagem logo", Order: 1, Active: true}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cacheMock.ExpectGet("gallery:category:logo").SetVal(string(data))

	mgr := NewManager(db, newFakeStorage(), rdb, logger.NewNoOpLogger())

	items, err := mgr.ListByCategory(context.Background(), CategoryLogo, 0)
	require.NoError(t, err)
	assert.Equal(t, cached, items)

	// The database was never touched.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestManager_ListByCategory_Limit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(itemColumns()).
		AddRow("id-1", "u1", "portfolio", "", "alt", 1, true, now, now).
		AddRow("id-2", "u2", "portfolio", "", "alt", 2, true, now, now).
		AddRow("id-3", "u3", "portfolio", "", "alt", 3, true, now, now)
	mock.ExpectQuery(`SELECT .+ FROM gallery`).WillReturnRows(rows)

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	items, err := mgr.ListByCategory(context.Background(), CategoryPortfolio, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "id-1", items[0].ID)
}

func TestManager_ListByCategory_UnknownCategory(t *testing.T) {
	mgr := NewManager(nil, newFakeStorage(), nil, logger.NewNoOpLogger())

	_, err := mgr.ListByCategory(context.Background(), Category("banners"), 0)
	assertGalleryCode(t, err, stderrors.ErrCodeValidationFailed)
}

func TestManager_Upload_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := newFakeStorage()

	mock.ExpectExec(`INSERT INTO gallery`).
		WithArgs(sqlmock.AnyArg(), "portfolio", "Nova campanha", "Antes e depois", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mgr := NewManager(db, storage, nil, logger.NewNoOpLogger())

	imageURL, err := mgr.Upload(context.Background(), UploadRequest{
		FileName:    "campanha.jpg",
		ContentType: "image/jpeg",
		Body:        []byte("fake-jpeg-bytes"),
		Category:    CategoryPortfolio,
		Caption:     "Nova campanha",
		Alt:         "Antes e depois",
		Order:       3,
	})
	require.NoError(t, err)
	assert.Contains(t, imageURL, storage.baseURL+"/portfolio/")
	assert.Len(t, storage.uploaded, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Upload_DefaultAlt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO gallery`).
		WithArgs(sqlmock.AnyArg(), "logo", nil, "Imagem logo", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	_, err = mgr.Upload(context.Background(), UploadRequest{
		FileName:    "logo.png",
		ContentType: "image/png",
		Body:        []byte("fake-png-bytes"),
		Category:    CategoryLogo,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Upload_InsertFailureKeepsObject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := newFakeStorage()
	mock.ExpectExec(`INSERT INTO gallery`).WillReturnError(errors.New("duplicate key"))

	mgr := NewManager(db, storage, nil, logger.NewNoOpLogger())

	_, err = mgr.Upload(context.Background(), UploadRequest{
		FileName:    "a.jpg",
		ContentType: "image/jpeg",
		Body:        []byte("x"),
		Category:    CategoryPortfolio,
	})
	assertGalleryCode(t, err, stderrors.ErrCodeQueryExecutionFailed)

	// The uploaded object is not rolled back.
	assert.Len(t, storage.uploaded, 1)
	assert.Empty(t, storage.deleted)
}

func TestManager_Upload_StorageFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.uploadErr = stderrors.NewStorageUploadFailedError("portfolio/x.jpg", errors.New("access denied"))

	mgr := NewManager(nil, storage, nil, logger.NewNoOpLogger())

	_, err := mgr.Upload(context.Background(), UploadRequest{
		FileName:    "x.jpg",
		ContentType: "image/jpeg",
		Body:        []byte("x"),
		Category:    CategoryPortfolio,
	})
	assertGalleryCode(t, err, stderrors.ErrCodeStorageUploadFailed)
}

func TestManager_Upload_NoStorageConfigured(t *testing.T) {
	mgr := NewManager(nil, nil, nil, logger.NewNoOpLogger())

	_, err := mgr.Upload(context.Background(), UploadRequest{
		FileName:    "x.jpg",
		ContentType: "image/jpeg",
		Body:        []byte("x"),
		Category:    CategoryPortfolio,
	})
	assertGalleryCode(t, err, stderrors.ErrCodeStoreNotConfigured)

	// Bulk uploads report the same error per file instead of panicking.
	result := mgr.BulkUpload(context.Background(), []UploadRequest{
		{FileName: "a.jpg", ContentType: "image/jpeg", Body: []byte("a"), Category: CategoryPortfolio},
		{FileName: "b.jpg", ContentType: "image/jpeg", Body: []byte("b"), Category: CategoryPortfolio},
	}, 0)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 2, result.Failed)
}

func TestManager_BulkUpload_AggregatesFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := newFakeStorage()

	// First file inserts fine, second fails, third succeeds again.
	mock.ExpectExec(`INSERT INTO gallery`).
		WithArgs(sqlmock.AnyArg(), "portfolio", nil, "Imagem portfolio", 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO gallery`).
		WithArgs(sqlmock.AnyArg(), "portfolio", nil, "Imagem portfolio", 6).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectExec(`INSERT INTO gallery`).
		WithArgs(sqlmock.AnyArg(), "portfolio", nil, "Imagem portfolio", 7).
		WillReturnResult(sqlmock.NewResult(2, 1))

	mgr := NewManager(db, storage, nil, logger.NewNoOpLogger())

	files := []UploadRequest{
		{FileName: "a.jpg", ContentType: "image/jpeg", Body: []byte("a"), Category: CategoryPortfolio},
		{FileName: "b.jpg", ContentType: "image/jpeg", Body: []byte("b"), Category: CategoryPortfolio},
		{FileName: "c.jpg", ContentType: "image/jpeg", Body: []byte("c"), Category: CategoryPortfolio},
	}

	result := mgr.BulkUpload(context.Background(), files, 5)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "b.jpg")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Delete_RowThenObject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := newFakeStorage()
	imageURL := storage.baseURL + "/portfolio/123-abc.jpg"

	mock.ExpectQuery(`SELECT image_url, category FROM gallery`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"image_url", "category"}).AddRow(imageURL, "portfolio"))
	mock.ExpectExec(`DELETE FROM gallery`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mgr := NewManager(db, storage, nil, logger.NewNoOpLogger())

	require.NoError(t, mgr.Delete(context.Background(), "id-1"))
	assert.Equal(t, []string{"portfolio/123-abc.jpg"}, storage.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Delete_StorageFailureIsNotFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storage := newFakeStorage()
	storage.deleteErr = errors.New("object locked")

	mock.ExpectQuery(`SELECT image_url, category FROM gallery`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"image_url", "category"}).
			AddRow(storage.baseURL+"/logo/9.png", "logo"))
	mock.ExpectExec(`DELETE FROM gallery`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mgr := NewManager(db, storage, nil, logger.NewNoOpLogger())

	// The row is the source of truth; a stranded object is only logged.
	assert.NoError(t, mgr.Delete(context.Background(), "id-1"))
}

func TestManager_Delete_NoStorageConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT image_url, category FROM gallery`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"image_url", "category"}).
			AddRow("https://cdn.example.com/gallery/logo/9.png", "logo"))
	mock.ExpectExec(`DELETE FROM gallery`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mgr := NewManager(db, nil, nil, logger.NewNoOpLogger())

	// Without storage only the row exists to clean up.
	assert.NotPanics(t, func() {
		assert.NoError(t, mgr.Delete(context.Background(), "id-1"))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT image_url, category FROM gallery`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"image_url", "category"}))

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	err = mgr.Delete(context.Background(), "missing")
	assertGalleryCode(t, err, stderrors.ErrCodeGalleryItemNotFound)
}

func TestManager_Reorder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE gallery SET "order"`).
		WithArgs("id-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT category FROM gallery`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("portfolio"))

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	require.NoError(t, mgr.Reorder(context.Background(), "id-1", 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Reorder_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE gallery SET "order"`).
		WithArgs("missing", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	err = mgr.Reorder(context.Background(), "missing", 7)
	assertGalleryCode(t, err, stderrors.ErrCodeGalleryItemNotFound)
}

func TestManager_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE gallery SET active`).
		WithArgs("id-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT category FROM gallery`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("logo"))

	mgr := NewManager(db, newFakeStorage(), nil, logger.NewNoOpLogger())

	require.NoError(t, mgr.SetActive(context.Background(), "id-1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
