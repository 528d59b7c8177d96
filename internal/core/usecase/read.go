package usecase

import (
	"context"
	"fmt"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

// ReadPublicationUseCase serves detail and list reads. Detail reads expose
// the summary state so clients can poll for completion of a pending summary.
type ReadPublicationUseCase struct {
	pubs  ports.PublicationRepository
	users ports.UserRepository
	trail ports.AuditTrailReader
}

func NewReadPublicationUseCase(pubs ports.PublicationRepository, users ports.UserRepository, trail ports.AuditTrailReader) *ReadPublicationUseCase {
	return &ReadPublicationUseCase{pubs: pubs, users: users, trail: trail}
}

func (uc *ReadPublicationUseCase) GetByID(ctx context.Context, id int64, actor string) (*domain.Publication, error) {
	pub, err := uc.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch publication: %w", err)
	}
	user, err := uc.users.GetByUsername(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if !user.CanView(pub) {
		return nil, domain.WrapError(domain.ErrForbidden, "get publication",
			fmt.Errorf("user %s may not view publication %d", actor, id))
	}
	return pub, nil
}

func (uc *ReadPublicationUseCase) List(ctx context.Context, actor, search, area string) ([]domain.Publication, error) {
	user, err := uc.users.GetByUsername(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	pubs, err := uc.pubs.List(ctx, !user.IsPrivileged(), search, area)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return pubs, nil
}

// Trail returns the audit history of one publication, restricted to its
// submitter and privileged roles.
func (uc *ReadPublicationUseCase) Trail(ctx context.Context, id int64, actor string) ([]domain.AuditRecord, error) {
	pub, err := uc.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch publication: %w", err)
	}
	user, err := uc.users.GetByUsername(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if !user.IsPrivileged() && pub.Submitter != user.Username {
		return nil, domain.WrapError(domain.ErrForbidden, "get audit trail",
			fmt.Errorf("user %s may not view the trail of publication %d", actor, id))
	}

	records, err := uc.trail.ListByEntity(ctx, "Publication", id)
	if err != nil {
		return nil, fmt.Errorf("list audit trail: %w", err)
	}
	return records, nil
}
