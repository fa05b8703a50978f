package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project
type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, userID, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ClientID    uuid.UUID
	Name        string
	Description string
	TotalAmount decimal.Decimal
	DueDate     *time.Time
}

type ListFilter struct {
	ClientID *uuid.UUID
	Status   *Status
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Project, error) {
	p := &Project{
		UserID:      userID,
		ClientID:    params.ClientID,
		Name:        params.Name,
		Description: params.Description,
		Status:      StatusInProgress,
		TotalAmount: params.TotalAmount,
		DueDate:     params.DueDate,
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Project, error) {
	return s.repo.GetProject(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Project, error) {
	return s.repo.ListProjects(ctx, userID, filter)
}

func (s *Service) Update(ctx context.Context, p *Project) error {
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}

	return s.repo.UpdateProject(ctx, p)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteProject(ctx, userID, id)
}
