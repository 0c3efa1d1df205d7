package parties

import (
	"context"
	"fmt"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/domain"
	"facturio/pkg/logger"
)

// Service provides business logic for one party catalog. Two instances
// are wired at startup: one for suppliers, one for clients.
type Service struct {
	repo Repository
	kind Kind
}

// NewService creates a new party service.
func NewService(repo Repository, kind Kind) *Service {
	return &Service{
		repo: repo,
		kind: kind,
	}
}

// Kind returns which catalog this service manages.
func (s *Service) Kind() Kind {
	return s.kind
}

// Create validates the party, checks email uniqueness and persists it.
func (s *Service) Create(ctx context.Context, p *Party) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	taken, err := s.emailTaken(ctx, p.Email, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate(string(s.kind), "email", p.Email)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create %s: %w", s.kind, err)
	}

	logger.Info(ctx, "party created",
		"kind", s.kind,
		"id", p.ID,
		"name", p.Name)

	return nil
}

// GetByID retrieves a party by ID.
func (s *Service) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	return s.repo.GetByID(ctx, partyID)
}

// Update validates and persists changes to an existing party.
func (s *Service) Update(ctx context.Context, p *Party) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	taken, err := s.emailTaken(ctx, p.Email, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate(string(s.kind), "email", p.Email)
	}

	return s.repo.Update(ctx, p)
}

// Delete removes a party. Parties referenced by invoices cannot be
// deleted (the repository reports a Conflict).
func (s *Service) Delete(ctx context.Context, partyID id.ID) error {
	if err := s.repo.Delete(ctx, partyID); err != nil {
		return err
	}

	logger.Info(ctx, "party deleted", "kind", s.kind, "id", partyID)
	return nil
}

// Exists checks if a party with given ID exists.
func (s *Service) Exists(ctx context.Context, partyID id.ID) (bool, error) {
	return s.repo.Exists(ctx, partyID)
}

// List retrieves parties with search and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error) {
	return s.repo.List(ctx, filter)
}

// ListSlim returns the reduced listing for select boxes.
func (s *Service) ListSlim(ctx context.Context) ([]*SlimParty, error) {
	return s.repo.ListSlim(ctx)
}

// emailTaken checks if the email is already used by another party in
// the same catalog.
func (s *Service) emailTaken(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Not found is OK; other errors must be propagated (DB errors, timeouts, etc.).
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
