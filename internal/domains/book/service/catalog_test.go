package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"catalog-service/internal/domains/book/model"
	"catalog-service/internal/domains/book/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteService(t *testing.T) (ServiceInterface, repository.RepositoryInterface) {
	t.Helper()

	repo, err := repository.NewSQLiteRepository(repository.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo), repo
}

func TestCatalog_CreateGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newSQLiteService(t)

	in := candidate("1231231230")
	created, err := svc.CreateBook(ctx, in, model.NoPrincipal)
	require.NoError(t, err)
	assert.True(t, in.SameBusinessFields(*created))

	got, err := svc.GetBook(ctx, "1231231230")
	require.NoError(t, err)
	assert.Equal(t, "1231231230", got.ISBN)
	assert.True(t, in.SameBusinessFields(*got))

	require.NoError(t, svc.DeleteBook(ctx, "1231231230"))

	_, err = svc.GetBook(ctx, "1231231230")
	assert.EqualError(t, err, "The book with ISBN 1231231230 was not found.")
	assert.NoError(t, svc.DeleteBook(ctx, "1231231230"))
}

func TestCatalog_DuplicateCreateLeavesRecordUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newSQLiteService(t)

	original, err := svc.CreateBook(ctx, candidate("1231231231"), "john")
	require.NoError(t, err)

	dup := candidate("1231231231")
	dup.Title = "Other Title"
	_, err = svc.CreateBook(ctx, dup, "jane")
	assert.ErrorIs(t, err, model.ErrBookAlreadyExists)

	stored, err := svc.GetBook(ctx, "1231231231")
	require.NoError(t, err)
	assert.Equal(t, original.Version, stored.Version)
	assert.Equal(t, "Title", stored.Title)
	assert.Equal(t, "john", *stored.LastModifiedBy)
}

func TestCatalog_EditOrCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newSQLiteService(t)

	created, err := svc.EditBook(ctx, "1231231232", candidate("1231231232"), "john")
	require.NoError(t, err)
	assert.Equal(t, model.InitialVersion, created.Version)
	assert.Equal(t, "john", *created.CreatedBy)

	change := candidate("1231231232")
	change.Title = "Second Edition"
	publisher := "Polarsophia"
	change.Publisher = &publisher

	edited, err := svc.EditBook(ctx, "1231231232", change, "jane")
	require.NoError(t, err)
	assert.Equal(t, created.ID, edited.ID)
	assert.True(t, created.CreatedDate.Equal(edited.CreatedDate))
	assert.Equal(t, "john", *edited.CreatedBy)
	assert.Equal(t, "jane", *edited.LastModifiedBy)
	assert.Equal(t, "Second Edition", edited.Title)
	assert.Equal(t, &publisher, edited.Publisher)
	assert.Equal(t, created.Version+1, edited.Version)
}

// barrierRepository holds every FindByISBN caller until n of them have read,
// so concurrent editors all start from the same version.
type barrierRepository struct {
	repository.RepositoryInterface
	reads sync.WaitGroup
}

func (r *barrierRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, bool, error) {
	book, ok, err := r.RepositoryInterface.FindByISBN(ctx, isbn)
	r.reads.Done()
	r.reads.Wait()
	return book, ok, err
}

func TestCatalog_ConcurrentEditsOneWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, store := newSQLiteService(t)

	seed, err := NewService(store).CreateBook(ctx, candidate("1231231233"), model.NoPrincipal)
	require.NoError(t, err)

	const editors = 2
	barrier := &barrierRepository{RepositoryInterface: store}
	barrier.reads.Add(editors)
	svc := NewService(barrier)

	errs := make([]error, editors)
	var wg sync.WaitGroup
	for i := 0; i < editors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			change := candidate("1231231233")
			change.Title = []string{"Editor A", "Editor B"}[i]
			_, errs[i] = svc.EditBook(ctx, "1231231233", change, model.Principal(change.Title))
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		var conflict *model.ConcurrencyConflictError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &conflict):
			conflicted++
			assert.Equal(t, "1231231233", conflict.ISBN)
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	final, _, err := store.FindByISBN(ctx, "1231231233")
	require.NoError(t, err)
	assert.Equal(t, seed.Version+1, final.Version)
	assert.Equal(t, *final.LastModifiedBy, final.Title)
}
