package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"Channelcast/internal/core/channels"
	"Channelcast/internal/db/postgres"
)

// setupTestDB connects to the test database and runs migrations. Tests are
// skipped when TEST_DATABASE_URL is not set.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set - skipping database integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.Ping(), "Failed to ping test database")

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../internal/db/migrations"))

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	})

	return db
}

// createTestChannel wipes any previous rows for the channel and registers a
// fresh counter row at sequence zero
func createTestChannel(t *testing.T, db *sql.DB, channelID string) {
	t.Helper()

	_, err := db.Exec("DELETE FROM posts WHERE channel_id = $1", channelID)
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM channels WHERE id = $1", channelID)
	require.NoError(t, err)

	channelRepo := postgres.NewChannelRepository(db)
	err = channelRepo.Create(context.Background(), &channels.Channel{
		ID:   channelID,
		Name: "Integration " + channelID,
	})
	require.NoError(t, err, "Failed to create test channel")
}

func strPtr(s string) *string { return &s }
