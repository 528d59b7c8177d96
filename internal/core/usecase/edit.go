package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

// EditPublicationUseCase covers the manual, synchronous update paths. These
// deliberately bypass the async pipeline and share no state with it: by the
// time they run, the background task either never existed or has finished.
type EditPublicationUseCase struct {
	pubs  ports.PublicationRepository
	users ports.UserRepository
	audit ports.AuditSink
}

func NewEditPublicationUseCase(
	pubs ports.PublicationRepository,
	users ports.UserRepository,
	audit ports.AuditSink,
) *EditPublicationUseCase {
	return &EditPublicationUseCase{pubs: pubs, users: users, audit: audit}
}

func (uc *EditPublicationUseCase) UpdateDescription(ctx context.Context, id int64, description, actor string) error {
	if strings.TrimSpace(description) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "update description", errors.New("description is required"))
	}

	pub, user, err := uc.loadForEdit(ctx, id, actor)
	if err != nil {
		return err
	}
	if !user.CanEdit(pub) {
		return domain.WrapError(domain.ErrForbidden, "update description",
			fmt.Errorf("user %s may not edit publication %d", actor, id))
	}

	if err := uc.pubs.UpdateDescription(ctx, id, description); err != nil {
		return fmt.Errorf("update description: %w", err)
	}

	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        domain.EventPublicationUpdated,
		Description: fmt.Sprintf("Summary regenerated for publication: %s", pub.Title),
		EntityKind:  "Publication",
		EntityID:    id,
		Actor:       user.Username,
	})
	return nil
}

func (uc *EditPublicationUseCase) SetVisibility(ctx context.Context, id int64, visible bool, actor string) error {
	pub, user, err := uc.loadForEdit(ctx, id, actor)
	if err != nil {
		return err
	}
	if !user.CanEdit(pub) {
		return domain.WrapError(domain.ErrForbidden, "set visibility",
			fmt.Errorf("user %s may not edit publication %d", actor, id))
	}

	if err := uc.pubs.SetVisibility(ctx, id, visible); err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}

	kind := domain.EventPublicationHidden
	verb := "hidden"
	if visible {
		kind = domain.EventPublicationShown
		verb = "shown"
	}
	recordAudit(ctx, uc.audit, domain.AuditRecord{
		Kind:        kind,
		Description: fmt.Sprintf("Publication %s: %s", verb, pub.Title),
		EntityKind:  "Publication",
		EntityID:    id,
		Actor:       user.Username,
	})
	return nil
}

func (uc *EditPublicationUseCase) loadForEdit(ctx context.Context, id int64, actor string) (*domain.Publication, *domain.User, error) {
	pub, err := uc.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch publication: %w", err)
	}
	user, err := uc.users.GetByUsername(ctx, actor)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve actor: %w", err)
	}
	return pub, user, nil
}
