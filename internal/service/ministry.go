package service

import (
	"context"
	"fmt"
	"net/mail"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type ministryService struct {
	ministryRepo repository.MinistryRepository
}

func NewMinistryService(ministryRepo repository.MinistryRepository) MinistryService {
	return &ministryService{ministryRepo: ministryRepo}
}

func (s *ministryService) CreateMinistry(ctx context.Context, m *domain.MinistryArea) (*domain.MinistryArea, error) {
	if err := validateMinistry(m); err != nil {
		return nil, err
	}
	if err := s.ministryRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ministryService) GetMinistry(ctx context.Context, id int32) (*domain.MinistryArea, error) {
	return s.ministryRepo.GetByID(ctx, id)
}

func (s *ministryService) ListMinistries(ctx context.Context) ([]domain.MinistryArea, error) {
	return s.ministryRepo.List(ctx)
}

func (s *ministryService) UpdateMinistry(ctx context.Context, m *domain.MinistryArea) (*domain.MinistryArea, error) {
	if err := validateMinistry(m); err != nil {
		return nil, err
	}
	if err := s.ministryRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.ministryRepo.GetByID(ctx, m.ID)
}

func validateMinistry(m *domain.MinistryArea) error {
	if m.Name == "" {
		return fmt.Errorf("%w: ministry name is required", domain.ErrInvalidReference)
	}
	if m.LeaderEmail != "" {
		if _, err := mail.ParseAddress(m.LeaderEmail); err != nil {
			return fmt.Errorf("%w: leader email %q", domain.ErrInvalidReference, m.LeaderEmail)
		}
	}
	return nil
}
