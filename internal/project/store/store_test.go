package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/database"
	"github.com/mkrausse/billable/internal/project"
	"github.com/mkrausse/billable/internal/project/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := database.New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	return db
}

func seedUser(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(
		`INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id`,
		fmt.Sprintf("%s@example.com", uuid.NewString()),
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedClient(t *testing.T, db *sql.DB, userID uuid.UUID) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(
		`INSERT INTO clients (user_id, name) VALUES ($1, 'Acme') RETURNING id`,
		userID,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func newProject(userID, clientID uuid.UUID) *project.Project {
	return &project.Project{
		UserID:      userID,
		ClientID:    clientID,
		Name:        "Website redesign",
		Status:      project.StatusInProgress,
		TotalAmount: decimal.RequireFromString("1000"),
	}
}

func TestStore_CreateProject(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)

	s := store.New(db)

	p := newProject(userID, clientID)
	require.NoError(t, s.CreateProject(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestStore_CreateProject_UnknownClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)

	s := store.New(db)

	err := s.CreateProject(ctx, newProject(userID, uuid.New()))
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestStore_CreateProject_ForeignClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	otherUser := seedUser(t, db)
	foreignClient := seedClient(t, db, otherUser)

	s := store.New(db)

	err := s.CreateProject(ctx, newProject(userID, foreignClient))
	assert.ErrorIs(t, err, client.ErrNotFound)
}
