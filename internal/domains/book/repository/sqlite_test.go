package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"catalog-service/internal/domains/book/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(SQLiteConfig{Path: filepath.Join(t.TempDir(), "catalog.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testBook(isbn string) model.Book {
	price := decimal.RequireFromString("12.90")
	publisher := "Polarsophia"
	return model.NewBook(isbn, "Title", "Author", &price, &publisher)
}

func TestSQLiteRepository_FindAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)

	_, err = repo.Save(ctx, testBook("1234561235"), model.NoPrincipal)
	require.NoError(t, err)
	another := testBook("1234561236")
	another.Title = "Another Title"
	_, err = repo.Save(ctx, another, model.NoPrincipal)
	require.NoError(t, err)

	books, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.ElementsMatch(t, []string{"1234561235", "1234561236"}, []string{books[0].ISBN, books[1].ISBN})
}

func TestSQLiteRepository_FindByISBN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	saved, err := repo.Save(ctx, testBook("1234561237"), model.NoPrincipal)
	require.NoError(t, err)

	found, ok, err := repo.FindByISBN(ctx, "1234561237")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.ID, found.ID)
	assert.True(t, saved.SameBusinessFields(*found))
	assert.True(t, saved.CreatedDate.Equal(found.CreatedDate))

	missing, ok, err := repo.FindByISBN(ctx, "1234561238")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, missing)
}

func TestSQLiteRepository_ExistsByISBN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	_, err := repo.Save(ctx, testBook("1234561239"), model.NoPrincipal)
	require.NoError(t, err)

	exists, err := repo.ExistsByISBN(ctx, "1234561239")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByISBN(ctx, "1234561240")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteRepository_InsertAuditMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		isbn      string
		principal model.Principal
		wantBy    *string
	}{
		{name: "not authenticated", isbn: "1232343456", principal: model.NoPrincipal, wantBy: nil},
		{name: "authenticated", isbn: "1232343457", principal: "john", wantBy: model.Principal("john").Ref()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newTestSQLiteRepository(t)

			created, err := repo.Save(context.Background(), testBook(tt.isbn), tt.principal)
			require.NoError(t, err)

			assert.False(t, created.IsNew())
			assert.Equal(t, model.InitialVersion, created.Version)
			assert.Equal(t, tt.wantBy, created.CreatedBy)
			assert.Equal(t, tt.wantBy, created.LastModifiedBy)
			assert.False(t, created.CreatedDate.IsZero())
			assert.True(t, created.CreatedDate.Equal(created.LastModifiedDate))
		})
	}
}

func TestSQLiteRepository_InsertDuplicateISBN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	_, err := repo.Save(ctx, testBook("1234561241"), model.NoPrincipal)
	require.NoError(t, err)

	_, err = repo.Save(ctx, testBook("1234561241"), model.NoPrincipal)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBookAlreadyExists)
	assert.EqualError(t, err, "A book with ISBN 1234561241 already exists.")
}

func TestSQLiteRepository_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return created }
	original, err := repo.Save(ctx, testBook("1234561242"), "john")
	require.NoError(t, err)

	edited := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return edited }

	change := *original
	change.Title = "New Title"
	updated, err := repo.Save(ctx, change, "jane")
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, original.Version+1, updated.Version)
	assert.True(t, created.Equal(updated.CreatedDate))
	assert.True(t, edited.Equal(updated.LastModifiedDate))
	assert.Equal(t, "john", *updated.CreatedBy)
	assert.Equal(t, "jane", *updated.LastModifiedBy)

	t.Run("anonymous update keeps last modifier", func(t *testing.T) {
		again := *updated
		again.Author = "Someone Else"
		saved, err := repo.Save(ctx, again, model.NoPrincipal)
		require.NoError(t, err)
		assert.Equal(t, "jane", *saved.LastModifiedBy)
		assert.Equal(t, updated.Version+1, saved.Version)
	})
}

func TestSQLiteRepository_UpdateStaleVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	original, err := repo.Save(ctx, testBook("1234561243"), model.NoPrincipal)
	require.NoError(t, err)

	first := *original
	first.Title = "First"
	_, err = repo.Save(ctx, first, model.NoPrincipal)
	require.NoError(t, err)

	second := *original
	second.Title = "Second"
	_, err = repo.Save(ctx, second, model.NoPrincipal)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrVersionConflict)

	stored, _, err := repo.FindByISBN(ctx, "1234561243")
	require.NoError(t, err)
	assert.Equal(t, "First", stored.Title)
}

func TestSQLiteRepository_UpdateDeletedBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	original, err := repo.Save(ctx, testBook("1234561244"), model.NoPrincipal)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteByISBN(ctx, "1234561244"))

	_, err = repo.Save(ctx, *original, model.NoPrincipal)
	assert.ErrorIs(t, err, model.ErrVersionConflict)
}

func TestSQLiteRepository_DeleteByISBN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	_, err := repo.Save(ctx, testBook("1234561245"), model.NoPrincipal)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByISBN(ctx, "1234561245"))
	_, ok, err := repo.FindByISBN(ctx, "1234561245")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown ISBNs are not an error.
	assert.NoError(t, repo.DeleteByISBN(ctx, "1234561245"))
}

func TestSQLiteRepository_ReopenKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	repo, err := NewSQLiteRepository(SQLiteConfig{Path: path})
	require.NoError(t, err)
	_, err = repo.Save(ctx, testBook("1234561246"), "john")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	book, ok, err := reopened.FindByISBN(ctx, "1234561246")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "john", *book.CreatedBy)
	assert.True(t, book.Price.Equal(decimal.RequireFromString("12.90")))
}
