package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, userID, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, userID uuid.UUID) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name           string
	Email          string
	Phone          string
	Company        string
	Address        string
	DefaultTaxRate decimal.Decimal
	PaymentTerms   int
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Client, error) {
	c := &Client{
		UserID:         userID,
		Name:           params.Name,
		Email:          params.Email,
		Phone:          params.Phone,
		Company:        params.Company,
		Address:        params.Address,
		DefaultTaxRate: params.DefaultTaxRate,
		PaymentTerms:   params.PaymentTerms,
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Client, error) {
	return s.repo.ListClients(ctx, userID)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	return s.repo.UpdateClient(ctx, c)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, userID, id)
}
