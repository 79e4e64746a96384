package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
)

func newTestChatBotService(t *testing.T) (*ChatBotService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewChatBotService(
		repository.NewChatBotRepository(db),
		repository.NewDocumentRepository(db),
	), db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Name: "Test"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDocument(t *testing.T, db *gorm.DB, userID uuid.UUID, filename string) *model.Document {
	t.Helper()
	doc := &model.Document{UserID: userID, Filename: filename, Filepath: "/tmp/" + filename, ContentType: "application/pdf"}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestCreateChatBotDropsForeignDocuments(t *testing.T) {
	svc, db := newTestChatBotService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	aliceDoc := seedDocument(t, db, alice.ID, "a.pdf")
	bobDoc := seedDocument(t, db, bob.ID, "b.pdf")

	bot, err := svc.Create(ctx, alice.ID, CreateChatBotInput{
		Name:        "Support",
		DocumentIDs: []uuid.UUID{aliceDoc.ID, bobDoc.ID},
	})
	require.NoError(t, err)

	require.Len(t, bot.Documents, 1)
	assert.Equal(t, aliceDoc.ID, bot.Documents[0].ID)
	assert.NotNil(t, bot.LastTrained, "attaching documents at creation counts as training")
}

func TestCreateChatBotWithoutDocuments(t *testing.T) {
	svc, db := newTestChatBotService(t)
	user := seedUser(t, db, "u@example.com")

	bot, err := svc.Create(context.Background(), user.ID, CreateChatBotInput{Name: "Empty"})
	require.NoError(t, err)
	assert.Empty(t, bot.Documents)
	assert.Nil(t, bot.LastTrained)
}

func TestUpdateChatBotReplacesDocumentSet(t *testing.T) {
	svc, db := newTestChatBotService(t)
	ctx := context.Background()

	user := seedUser(t, db, "u@example.com")
	docA := seedDocument(t, db, user.ID, "a.pdf")
	docB := seedDocument(t, db, user.ID, "b.pdf")

	bot, err := svc.Create(ctx, user.ID, CreateChatBotInput{Name: "Bot", DocumentIDs: []uuid.UUID{docA.ID}})
	require.NoError(t, err)

	newSet := []uuid.UUID{docB.ID}
	updated, err := svc.Update(ctx, bot.ID, user.ID, UpdateChatBotInput{Name: "Renamed", DocumentIDs: &newSet})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.Documents, 1)
	assert.Equal(t, docB.ID, updated.Documents[0].ID)
	assert.NotNil(t, updated.LastTrained)

	// Nil DocumentIDs leaves the set untouched.
	updated, err = svc.Update(ctx, bot.ID, user.ID, UpdateChatBotInput{Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	require.Len(t, updated.Documents, 1)
	assert.Equal(t, docB.ID, updated.Documents[0].ID)
}

func TestAddDocumentsSkipsDuplicates(t *testing.T) {
	svc, db := newTestChatBotService(t)
	ctx := context.Background()

	user := seedUser(t, db, "u@example.com")
	docA := seedDocument(t, db, user.ID, "a.pdf")
	docB := seedDocument(t, db, user.ID, "b.pdf")

	bot, err := svc.Create(ctx, user.ID, CreateChatBotInput{Name: "Bot", DocumentIDs: []uuid.UUID{docA.ID}})
	require.NoError(t, err)

	updated, err := svc.AddDocuments(ctx, bot.ID, user.ID, []uuid.UUID{docA.ID, docB.ID})
	require.NoError(t, err)
	assert.Len(t, updated.Documents, 2)
	assert.ElementsMatch(t, []uuid.UUID{docA.ID, docB.ID}, updated.DocumentIDs())
}

func TestChatBotSettingsRoundTrip(t *testing.T) {
	svc, db := newTestChatBotService(t)
	ctx := context.Background()
	user := seedUser(t, db, "u@example.com")

	bot, err := svc.Create(ctx, user.ID, CreateChatBotInput{
		Name:     "Widget bot",
		Settings: model.JSONMap{"position": "bottom-right", "show_avatar": true},
	})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, bot.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bottom-right", reloaded.Settings["position"])
	assert.Equal(t, true, reloaded.Settings["show_avatar"])

	updated, err := svc.Update(ctx, bot.ID, user.ID, UpdateChatBotInput{
		Settings: model.JSONMap{"position": "bottom-left"},
	})
	require.NoError(t, err)
	assert.Equal(t, "bottom-left", updated.Settings["position"])

	// Nil settings in an update leave the stored value alone.
	reloaded, err = svc.Update(ctx, bot.ID, user.ID, UpdateChatBotInput{Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "bottom-left", reloaded.Settings["position"])
}

func TestChatBotOwnership(t *testing.T) {
	svc, db := newTestChatBotService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	bot, err := svc.Create(ctx, alice.ID, CreateChatBotInput{Name: "Alice bot"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bot.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, bot.ID, bob.ID, UpdateChatBotInput{Name: "hijack"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, bot.ID, bob.ID), ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, bot.ID, alice.ID))
}
