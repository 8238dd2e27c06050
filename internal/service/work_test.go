package service

import (
	"context"
	"testing"
	"time"

	"plume/internal/models"
	"plume/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkService_CreateValidatesRequiredFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	ctx := context.Background()

	_, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: " ", Content: "texte", Type: "poem"})
	assertAppError(t, err, models.CodeValidation, "Tous les champs requis doivent être remplis")

	_, err = svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "", Type: "poem"})
	assertAppError(t, err, models.CodeValidation, "Tous les champs requis doivent être remplis")

	work, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"})
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusDraft, work.Status, "status defaults to draft")
}

func TestWorkService_PublicationQuota(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	ctx := context.Background()

	input := CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"}
	first, err := svc.Create(ctx, author.ID, input)
	require.NoError(t, err)
	_, err = svc.Create(ctx, author.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, author.ID, input)
	assertAppError(t, err, models.CodeRateLimited, "Vous avez atteint la limite de 2 publications par semaine")

	status, err := svc.PublicationLimit(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, status.PublicationsThisWeek)
	assert.EqualValues(t, 0, status.RemainingPublications)
	assert.False(t, status.CanPublish)
	assert.Equal(t, 2, status.Limit)

	// Quota counts a trailing window: age one work out of it and the author
	// can publish again.
	require.NoError(t, db.Model(&models.LiteraryWork{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-8*24*time.Hour)).Error)

	status, err = svc.PublicationLimit(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, status.PublicationsThisWeek)
	assert.True(t, status.CanPublish)

	_, err = svc.Create(ctx, author.ID, input)
	require.NoError(t, err)
}

func TestWorkService_OtherAuthorsUnaffectedByQuota(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	colette := createTestUser(t, db, "colette")
	marcel := createTestUser(t, db, "marcel")
	ctx := context.Background()

	input := CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"}
	_, err := svc.Create(ctx, colette.ID, input)
	require.NoError(t, err)
	_, err = svc.Create(ctx, colette.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, marcel.ID, input)
	assert.NoError(t, err, "the quota is per author")
}

func TestWorkService_UpdateOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	other := createTestUser(t, db, "marcel")
	ctx := context.Background()

	work, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, work.ID, UpdateWorkInput{})
	assertAppError(t, err, models.CodeForbidden, "Vous n'êtes pas autorisé à modifier cette œuvre")

	newTitle := "Nouveau titre"
	published := models.WorkStatusPublished
	updated, err := svc.Update(ctx, author.ID, work.ID, UpdateWorkInput{Title: &newTitle, Status: &published})
	require.NoError(t, err)
	assert.Equal(t, "Nouveau titre", updated.Title)
	assert.Equal(t, models.WorkStatusPublished, updated.Status)
	assert.Equal(t, "texte", updated.Content, "untouched fields keep their value")
}

func TestWorkService_DeleteAdminOverride(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	other := createTestUser(t, db, "marcel")
	ctx := context.Background()

	work, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"})
	require.NoError(t, err)

	err = svc.Delete(ctx, other.ID, false, work.ID)
	assertAppError(t, err, models.CodeForbidden, "Vous n'êtes pas autorisé à supprimer cette œuvre")

	require.NoError(t, svc.Delete(ctx, other.ID, true, work.ID))

	_, err = svc.Get(ctx, work.ID, 0)
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestWorkService_LikeReturnsCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	ctx := context.Background()

	work, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"})
	require.NoError(t, err)

	count, err := svc.Like(ctx, reader.ID, work.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = svc.Like(ctx, reader.ID, work.ID)
	assertAppError(t, err, models.CodeConflict, "Vous avez déjà aimé cette œuvre")

	count, err = svc.Unlike(ctx, reader.ID, work.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWorkService_AddComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkService(repository.NewWorkRepository(db))
	author := createTestUser(t, db, "colette")
	reader := createTestUser(t, db, "marcel")
	ctx := context.Background()

	work, err := svc.Create(ctx, author.ID, CreateWorkInput{Title: "Titre", Content: "texte", Type: "poem"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, reader.ID, work.ID, "  ", nil)
	assertAppError(t, err, models.CodeValidation, "Le contenu du commentaire est requis")

	bad := 6
	_, err = svc.AddComment(ctx, reader.ID, work.ID, "Bravo", &bad)
	assertAppError(t, err, models.CodeValidation, "La note doit être comprise entre 1 et 5")

	rating := 4
	comment, err := svc.AddComment(ctx, reader.ID, work.ID, "Bravo", &rating)
	require.NoError(t, err)
	assert.Equal(t, "marcel", comment.User.Username)

	comments, err := svc.Comments(ctx, work.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
