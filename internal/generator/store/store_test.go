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
	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/generator/store"
	"github.com/mkrausse/billable/internal/invoice"
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

func seedProject(t *testing.T, db *sql.DB, userID, clientID uuid.UUID, status string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(
		`INSERT INTO projects (user_id, client_id, name, status, total_amount)
		 VALUES ($1, $2, 'Website redesign', $3, 1000) RETURNING id`,
		userID, clientID, status,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func projectInvoice(userID, clientID, projectID uuid.UUID, status invoice.Status) *invoice.Invoice {
	amount := decimal.RequireFromString("1000")

	return &invoice.Invoice{
		UserID:    userID,
		ClientID:  clientID,
		ProjectID: &projectID,
		Number:    uuid.NewString(),
		Status:    status,
		Amount:    amount,
		Subtotal:  amount,
		Currency:  "USD",
		Items: []invoice.LineItem{
			{Position: 0, Kind: invoice.ItemProject, ProjectID: &projectID, Description: "Website redesign", Amount: amount},
		},
	}
}

func manualInvoice(userID, clientID uuid.UUID) *invoice.Invoice {
	amount := decimal.RequireFromString("300")

	return &invoice.Invoice{
		UserID:   userID,
		ClientID: clientID,
		Number:   uuid.NewString(),
		Status:   invoice.StatusDraft,
		Amount:   amount,
		Subtotal: amount,
		Currency: "USD",
		Items: []invoice.LineItem{
			{Position: 0, Kind: invoice.ItemManual, Description: "Consulting", Amount: amount},
		},
	}
}

func billableIDs(t *testing.T, s *store.Store, userID, clientID uuid.UUID) []uuid.UUID {
	t.Helper()

	projects, err := s.BillableProjects(context.Background(), userID, clientID)
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	return ids
}

func TestStore_BillableProjects_SentInvoiceConsumes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)
	consumed := seedProject(t, db, userID, clientID, "completed")
	remaining := seedProject(t, db, userID, clientID, "completed")

	s := store.New(db, false)

	require.ElementsMatch(t, []uuid.UUID{consumed, remaining}, billableIDs(t, s, userID, clientID))

	require.NoError(t, s.CreateInvoice(ctx, projectInvoice(userID, clientID, consumed, invoice.StatusSent)))

	assert.Equal(t, []uuid.UUID{remaining}, billableIDs(t, s, userID, clientID))
}

func TestStore_BillableProjects_DraftConsumption(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)
	projectID := seedProject(t, db, userID, clientID, "completed")

	s := store.New(db, false)

	inv := projectInvoice(userID, clientID, projectID, invoice.StatusDraft)
	require.NoError(t, s.CreateInvoice(ctx, inv))

	assert.Contains(t, billableIDs(t, s, userID, clientID), projectID,
		"a draft does not consume by default")

	strict := store.New(db, true)
	assert.NotContains(t, billableIDs(t, strict, userID, clientID), projectID,
		"a draft consumes when drafts are configured to count")
}

func TestStore_CreateInvoice_RejectsConsumedProject(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)
	projectID := seedProject(t, db, userID, clientID, "completed")

	s := store.New(db, false)

	require.NoError(t, s.CreateInvoice(ctx, projectInvoice(userID, clientID, projectID, invoice.StatusSent)))

	err := s.CreateInvoice(ctx, projectInvoice(userID, clientID, projectID, invoice.StatusSent))
	require.Error(t, err)

	var notBillable *generator.NotBillableError
	require.ErrorAs(t, err, &notBillable)
	assert.Contains(t, notBillable.ProjectIDs, projectID)
}

func TestStore_CreateInvoice_RejectsIncompleteProject(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)
	projectID := seedProject(t, db, userID, clientID, "in_progress")

	s := store.New(db, false)

	err := s.CreateInvoice(ctx, projectInvoice(userID, clientID, projectID, invoice.StatusSent))
	require.Error(t, err)

	var notBillable *generator.NotBillableError
	require.ErrorAs(t, err, &notBillable)
	assert.Contains(t, notBillable.ProjectIDs, projectID)
}

func TestStore_CreateInvoice_UnknownClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)

	s := store.New(db, false)

	err := s.CreateInvoice(ctx, manualInvoice(userID, uuid.New()))
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestStore_CreateInvoice_ForeignClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	otherUser := seedUser(t, db)
	foreignClient := seedClient(t, db, otherUser)

	s := store.New(db, false)

	err := s.CreateInvoice(ctx, manualInvoice(userID, foreignClient))
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestStore_CreateInvoice_NumberCollision(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	clientID := seedClient(t, db, userID)

	s := store.New(db, false)

	first := manualInvoice(userID, clientID)
	require.NoError(t, s.CreateInvoice(ctx, first))

	second := manualInvoice(userID, clientID)
	second.Number = first.Number

	assert.ErrorIs(t, s.CreateInvoice(ctx, second), invoice.ErrNumberTaken)
}
