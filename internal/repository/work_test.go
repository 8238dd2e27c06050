package repository

import (
	"context"
	"testing"
	"time"

	"plume/internal/cache"
	"plume/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	work := createTestWork(t, db, author)

	require.NoError(t, db.Create(&models.WorkLike{UserID: reader.ID, LiteraryWorkID: work.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "Bravo", UserID: reader.ID, LiteraryWorkID: work.ID}).Error)

	t.Run("Detail with computed counters", func(t *testing.T) {
		got, err := repo.GetByID(ctx, work.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, "colette", got.Author.Username)
		assert.Equal(t, 1, got.LikesCount)
		assert.Equal(t, 1, got.CommentsCount)
		assert.True(t, got.Liked)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "marcel", got.Comments[0].User.Username)
	})

	t.Run("Liked flag off for other readers", func(t *testing.T) {
		got, err := repo.GetByID(ctx, work.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, got.Liked)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999, 0)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.Equal(t, "Œuvre littéraire non trouvée", appErr.Message)
	})
}

func TestWorkRepository_ListFiltersAndSort(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	colette := createTestUser(t, db, "colette")
	marcel := createTestUser(t, db, "marcel")
	paul := createTestUser(t, db, "paul")

	poem := createTestWork(t, db, colette, func(w *models.LiteraryWork) {
		w.Title = "Fragments d'automne"
		w.Type = "poem"
	})
	novel := createTestWork(t, db, marcel, func(w *models.LiteraryWork) {
		w.Title = "La mer intérieure"
		w.Type = "novel"
	})
	createTestWork(t, db, colette, func(w *models.LiteraryWork) {
		w.Title = "Brouillon"
		w.Status = models.WorkStatusDraft
	})

	// The novel is the popular one.
	require.NoError(t, db.Create(&models.WorkLike{UserID: colette.ID, LiteraryWorkID: novel.ID}).Error)
	require.NoError(t, db.Create(&models.WorkLike{UserID: paul.ID, LiteraryWorkID: novel.ID}).Error)

	t.Run("Filter by author", func(t *testing.T) {
		works, err := repo.List(ctx, WorkFilter{AuthorID: &colette.ID}, 0)
		require.NoError(t, err)
		assert.Len(t, works, 2)
	})

	t.Run("Filter by type", func(t *testing.T) {
		works, err := repo.List(ctx, WorkFilter{Type: "novel"}, 0)
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.Equal(t, "La mer intérieure", works[0].Title)
	})

	t.Run("Filter by status", func(t *testing.T) {
		works, err := repo.List(ctx, WorkFilter{Status: string(models.WorkStatusPublished)}, 0)
		require.NoError(t, err)
		assert.Len(t, works, 2)
	})

	t.Run("Popularity sort puts most liked first", func(t *testing.T) {
		works, err := repo.List(ctx, WorkFilter{Sort: "popularity"}, 0)
		require.NoError(t, err)
		require.NotEmpty(t, works)
		assert.Equal(t, novel.ID, works[0].ID)
		assert.Equal(t, 2, works[0].LikesCount)

		// "popular" is kept as an alias.
		works, err = repo.List(ctx, WorkFilter{Sort: "popular"}, 0)
		require.NoError(t, err)
		require.NotEmpty(t, works)
		assert.Equal(t, novel.ID, works[0].ID)
	})

	t.Run("Liked flag follows the current reader", func(t *testing.T) {
		works, err := repo.List(ctx, WorkFilter{Type: "novel"}, colette.ID)
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.True(t, works[0].Liked)

		works, err = repo.List(ctx, WorkFilter{Type: "poem"}, colette.ID)
		require.NoError(t, err)
		require.Len(t, works, 1)
		assert.Equal(t, poem.ID, works[0].ID)
		assert.False(t, works[0].Liked)
	})
}

func TestWorkRepository_AnonymousDetailIsCached(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	work := createTestWork(t, db, author)

	got, err := repo.GetByID(ctx, work.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Les ombres du matin", got.Title)

	// A direct row change stays invisible to anonymous readers until the
	// cached entry is invalidated.
	require.NoError(t, db.Model(&models.LiteraryWork{}).
		Where("id = ?", work.ID).
		Update("title", "Titre revu").Error)

	got, err = repo.GetByID(ctx, work.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Les ombres du matin", got.Title)

	// Authenticated reads bypass the cache: the liked flag is per reader.
	got, err = repo.GetByID(ctx, work.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, "Titre revu", got.Title)

	// A like invalidates the entry, so the next anonymous read is fresh.
	require.NoError(t, repo.Like(ctx, reader.ID, work.ID))
	got, err = repo.GetByID(ctx, work.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Titre revu", got.Title)
	assert.Equal(t, 1, got.LikesCount)
}

func TestWorkRepository_CountCreatedSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "colette")
	createTestWork(t, db, author, func(w *models.LiteraryWork) {
		w.CreatedAt = time.Now().Add(-8 * 24 * time.Hour)
	})
	createTestWork(t, db, author, func(w *models.LiteraryWork) {
		w.CreatedAt = time.Now().Add(-time.Hour)
	})

	count, err := repo.CountCreatedSince(ctx, author.ID, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "only the work inside the trailing window counts")
}

func TestWorkRepository_LikeUnlike(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	work := createTestWork(t, db, author)

	require.NoError(t, repo.Like(ctx, reader.ID, work.ID))
	count, err := repo.CountLikes(ctx, work.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	err = repo.Like(ctx, reader.ID, work.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
	assert.Equal(t, "Vous avez déjà aimé cette œuvre", appErr.Message)

	likers, err := repo.Likers(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, "marcel", likers[0].Username)

	require.NoError(t, repo.Unlike(ctx, reader.ID, work.ID))
	count, err = repo.CountLikes(ctx, work.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = repo.Unlike(ctx, reader.ID, work.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
	assert.Equal(t, "Vous n'avez pas aimé cette œuvre", appErr.Message)

	err = repo.Like(ctx, reader.ID, 999)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestWorkRepository_Comments(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	work := createTestWork(t, db, author)

	rating := 5
	comment := &models.Comment{
		Content:        "Magnifique",
		Rating:         &rating,
		UserID:         reader.ID,
		LiteraryWorkID: work.ID,
	}
	require.NoError(t, repo.AddComment(ctx, comment))
	assert.Equal(t, "marcel", comment.User.Username, "AddComment reloads the commenting user")

	comments, err := repo.Comments(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Magnifique", comments[0].Content)
	require.NotNil(t, comments[0].Rating)
	assert.Equal(t, 5, *comments[0].Rating)

	err = repo.AddComment(ctx, &models.Comment{Content: "x", UserID: reader.ID, LiteraryWorkID: 999})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestWorkRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	work := createTestWork(t, db, author)

	require.NoError(t, db.Create(&models.WorkLike{UserID: reader.ID, LiteraryWorkID: work.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "Bravo", UserID: reader.ID, LiteraryWorkID: work.ID}).Error)

	require.NoError(t, repo.Delete(ctx, work.ID))

	var count int64
	db.Model(&models.LiteraryWork{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.WorkLike{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}
