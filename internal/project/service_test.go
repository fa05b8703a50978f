package project_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkrausse/billable/internal/project"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	clientID := uuid.New()

	repo := project.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateProject(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *project.Project) error {
			p.ID = uuid.New()
			return nil
		})

	svc := project.NewService(repo)

	p, err := svc.Create(context.Background(), userID, project.CreateParams{
		ClientID:    clientID,
		Name:        "Website redesign",
		TotalAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusInProgress, p.Status, "new projects start in progress")
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, clientID, p.ClientID)
	assert.NotEmpty(t, p.ID)
}

func TestService_Update_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := project.NewMockRepository(ctrl)

	svc := project.NewService(repo)

	err := svc.Update(context.Background(), &project.Project{
		ID:     uuid.New(),
		Status: project.Status("finished"),
	})
	assert.ErrorIs(t, err, project.ErrInvalidStatus)
}

func TestStatus_Valid(t *testing.T) {
	valid := []project.Status{
		project.StatusInProgress,
		project.StatusCompleted,
		project.StatusOverdue,
		project.StatusOnHold,
	}

	for _, s := range valid {
		assert.True(t, s.Valid(), "%s should be valid", s)
	}

	assert.False(t, project.Status("done").Valid())
	assert.False(t, project.Status("").Valid())
}
