// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"contentflow/internal/db"
	"contentflow/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test when TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM adjustment_requests")
	pool.Exec(ctx, "DELETE FROM content_comments")
	pool.Exec(ctx, "DELETE FROM content_media")
	pool.Exec(ctx, "DELETE FROM content_pieces")
	pool.Exec(ctx, "DELETE FROM creative_requests")
	pool.Exec(ctx, "DELETE FROM kanban_columns")
	pool.Exec(ctx, "DELETE FROM transition_counts")
	pool.Exec(ctx, "DELETE FROM clients")
	pool.Exec(ctx, "DELETE FROM users")
	pool.Exec(ctx, "DELETE FROM agencies")
}

// CreateTestAgency creates an agency and returns it.
func CreateTestAgency(t *testing.T, database *db.DB, name, slug string) *models.Agency {
	t.Helper()
	ctx := context.Background()

	agency, err := database.EnsureAgency(ctx, name, slug)
	if err != nil {
		t.Fatalf("failed to create test agency: %v", err)
	}
	return agency
}

// CreateTestClient creates a client under an agency and returns it.
func CreateTestClient(t *testing.T, database *db.DB, agencyID uuid.UUID, name string) *models.Client {
	t.Helper()
	ctx := context.Background()

	client := &models.Client{AgencyID: agencyID, Name: name}
	if err := database.CreateClient(ctx, client); err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestUser creates a user with the given role and returns it.
func CreateTestUser(t *testing.T, database *db.DB, agencyID uuid.UUID, sub, role string) *models.User {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		Sub:      sub,
		Email:    fmt.Sprintf("%s@example.com", sub),
		Name:     fmt.Sprintf("Test User %s", sub),
		Role:     role,
		AgencyID: agencyID,
	}
	if err := database.UpsertUser(ctx, user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	// Upsert preserves the stored role on conflict; set it explicitly
	_, err := database.Pool.Exec(ctx,
		"UPDATE users SET role = $2, agency_id = $3 WHERE id = $1", user.ID, role, agencyID)
	if err != nil {
		t.Fatalf("failed to set test user role: %v", err)
	}
	user.Role = role
	user.AgencyID = agencyID
	return user
}

// CreateTestContent creates a content piece in the given status and returns it.
func CreateTestContent(t *testing.T, database *db.DB, agencyID, clientID, ownerID uuid.UUID, title, status string, scheduledAt time.Time) *models.ContentPiece {
	t.Helper()
	ctx := context.Background()

	piece := &models.ContentPiece{
		AgencyID:    agencyID,
		ClientID:    clientID,
		OwnerID:     ownerID,
		Title:       title,
		Status:      status,
		ScheduledAt: scheduledAt,
	}
	if err := database.CreateContentPiece(ctx, piece); err != nil {
		t.Fatalf("failed to create test content: %v", err)
	}
	return piece
}
