package generator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

func TestService_Generate(t *testing.T) {
	userID := uuid.New()
	clientID := uuid.New()

	proj := &project.Project{
		ID:          uuid.New(),
		UserID:      userID,
		ClientID:    clientID,
		Name:        "Website redesign",
		Status:      project.StatusCompleted,
		TotalAmount: dec("1000"),
	}

	type testCase struct {
		name      string
		params    generator.GenerateParams
		setupMock func(m *generator.MockRepository)
		check     func(t *testing.T, inv *invoice.Invoice, totals *invoice.Totals)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: generator.GenerateParams{
				ClientID:   clientID,
				ProjectIDs: []uuid.UUID{proj.ID},
				Manual: []generator.ManualItem{
					{Description: "Rush fee", Amount: dec("200")},
				},
				Settings: generator.Settings{TaxRate: dec("10"), Discount: dec("50")},
				Status:   invoice.StatusSent,
			},
			setupMock: func(m *generator.MockRepository) {
				m.EXPECT().
					SelectedProjects(gomock.Any(), userID, []uuid.UUID{proj.ID}).
					Return([]*project.Project{proj}, nil)
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, inv *invoice.Invoice, totals *invoice.Totals) {
				require.Len(t, inv.Items, 2)
				assert.True(t, totals.Subtotal.Equal(dec("1200")))
				assert.True(t, totals.TaxAmount.Equal(dec("120")))
				assert.True(t, totals.DiscountAmount.Equal(dec("50")))
				assert.True(t, totals.Total.Equal(dec("1270")))
				assert.True(t, inv.Amount.Equal(dec("1270")), "amount is the total, not the subtotal")
				require.NotNil(t, inv.ProjectID)
				assert.Equal(t, proj.ID, *inv.ProjectID)
				assert.NotEmpty(t, inv.Number)
				assert.Equal(t, invoice.StatusSent, inv.Status)
			},
		},
		{
			name: "ManualOnlyHasNoPrimaryProject",
			params: generator.GenerateParams{
				ClientID: clientID,
				Manual: []generator.ManualItem{
					{Description: "Consulting", Amount: dec("300")},
				},
				Status: invoice.StatusDraft,
			},
			setupMock: func(m *generator.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, inv *invoice.Invoice, _ *invoice.Totals) {
				assert.Nil(t, inv.ProjectID)
			},
		},
		{
			name: "EmptyLineItemsNothingPersisted",
			params: generator.GenerateParams{
				ClientID: clientID,
				Status:   invoice.StatusDraft,
			},
			setupMock: func(m *generator.MockRepository) {},
			wantErr:   generator.ErrNoLineItems,
		},
		{
			name: "InvalidInitialStatus",
			params: generator.GenerateParams{
				ClientID: clientID,
				Status:   invoice.StatusPaid,
			},
			setupMock: func(m *generator.MockRepository) {},
			wantErr:   generator.ErrInvalidStatus,
		},
		{
			name: "UnknownClient",
			params: generator.GenerateParams{
				ClientID: uuid.New(),
				Manual: []generator.ManualItem{
					{Description: "Consulting", Amount: dec("300")},
				},
				Status: invoice.StatusDraft,
			},
			setupMock: func(m *generator.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					Return(client.ErrNotFound)
			},
			wantErr: client.ErrNotFound,
		},
		{
			name: "UnknownProject",
			params: generator.GenerateParams{
				ClientID:   clientID,
				ProjectIDs: []uuid.UUID{proj.ID, uuid.New()},
				Status:     invoice.StatusDraft,
			},
			setupMock: func(m *generator.MockRepository) {
				m.EXPECT().
					SelectedProjects(gomock.Any(), userID, gomock.Any()).
					Return([]*project.Project{proj}, nil)
			},
			wantErr: project.ErrNotFound,
		},
		{
			name: "ProjectNoLongerBillable",
			params: generator.GenerateParams{
				ClientID:   clientID,
				ProjectIDs: []uuid.UUID{proj.ID},
				Status:     invoice.StatusSent,
			},
			setupMock: func(m *generator.MockRepository) {
				m.EXPECT().
					SelectedProjects(gomock.Any(), userID, []uuid.UUID{proj.ID}).
					Return([]*project.Project{proj}, nil)
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					Return(&generator.NotBillableError{ProjectIDs: []uuid.UUID{proj.ID}})
			},
			wantErr: nil, // checked via errors.As below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := generator.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := generator.NewService(repo, "INV")
			inv, totals, err := svc.Generate(context.Background(), userID, tt.params)

			if tt.name == "ProjectNoLongerBillable" {
				require.Error(t, err)

				var notBillable *generator.NotBillableError
				require.ErrorAs(t, err, &notBillable)
				assert.Equal(t, []uuid.UUID{proj.ID}, notBillable.ProjectIDs)

				return
			}

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, inv)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, inv)
			require.NotNil(t, totals)

			if tt.check != nil {
				tt.check(t, inv, totals)
			}
		})
	}
}

func TestService_Generate_RetriesNumberCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	repo := generator.NewMockRepository(ctrl)

	var numbers []string

	gomock.InOrder(
		repo.EXPECT().
			CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				numbers = append(numbers, inv.Number)
				return invoice.ErrNumberTaken
			}),
		repo.EXPECT().
			CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				numbers = append(numbers, inv.Number)
				inv.ID = uuid.New()
				return nil
			}),
	)

	svc := generator.NewService(repo, "INV")

	inv, _, err := svc.Generate(context.Background(), userID, generator.GenerateParams{
		ClientID: uuid.New(),
		Manual:   []generator.ManualItem{{Description: "Fee", Amount: dec("100")}},
		Status:   invoice.StatusDraft,
	})
	require.NoError(t, err)

	require.Len(t, numbers, 2)
	assert.True(t, strings.HasPrefix(inv.Number, "INV-"))
}

func TestService_Generate_GivesUpAfterBoundedRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := generator.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		Return(invoice.ErrNumberTaken).
		Times(3) // total attempts, including the first

	svc := generator.NewService(repo, "INV")

	_, _, err := svc.Generate(context.Background(), uuid.New(), generator.GenerateParams{
		ClientID: uuid.New(),
		Manual:   []generator.ManualItem{{Description: "Fee", Amount: dec("100")}},
		Status:   invoice.StatusDraft,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, invoice.ErrNumberTaken)
}

func TestService_Generate_NonRetryableErrorStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := generator.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		Return(errors.New("connection lost"))

	svc := generator.NewService(repo, "INV")

	_, _, err := svc.Generate(context.Background(), uuid.New(), generator.GenerateParams{
		ClientID: uuid.New(),
		Manual:   []generator.ManualItem{{Description: "Fee", Amount: dec("100")}},
		Status:   invoice.StatusDraft,
	})
	require.Error(t, err)
}

func TestService_Generate_PreservesSelectionOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	a := completedProject("Alpha", "100")
	b := completedProject("Beta", "200")

	repo := generator.NewMockRepository(ctrl)

	// The store returns projects in arbitrary order; line items must follow
	// the caller's selection order.
	repo.EXPECT().
		SelectedProjects(gomock.Any(), userID, []uuid.UUID{b.ID, a.ID}).
		Return([]*project.Project{a, b}, nil)
	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			return nil
		})

	svc := generator.NewService(repo, "INV")

	inv, _, err := svc.Generate(context.Background(), userID, generator.GenerateParams{
		ClientID:   uuid.New(),
		ProjectIDs: []uuid.UUID{b.ID, a.ID},
		Status:     invoice.StatusDraft,
	})
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)

	assert.Equal(t, "Beta", inv.Items[0].Description)
	assert.Equal(t, "Alpha", inv.Items[1].Description)

	require.NotNil(t, inv.ProjectID)
	assert.Equal(t, b.ID, *inv.ProjectID, "primary project is the first selected")
}

func TestService_BillableProjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	clientID := uuid.New()

	repo := generator.NewMockRepository(ctrl)

	repo.EXPECT().
		BillableProjects(gomock.Any(), userID, clientID).
		Return(nil, nil)

	svc := generator.NewService(repo, "INV")

	projects, err := svc.BillableProjects(context.Background(), userID, clientID)
	require.NoError(t, err)
	assert.Empty(t, projects, "no completed projects is an empty list, not an error")
}
