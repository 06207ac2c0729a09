package usecases

import (
	"context"
	"errors"
	"strings"

	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/domain/repositories"
	"kemea.backend/pkg/utils"
)

// PolicyUsecase serves legal texts.
type PolicyUsecase struct {
	policyRepo repositories.PolicyRepository
}

// NewPolicyUsecase creates a new policy usecase
func NewPolicyUsecase(policyRepo repositories.PolicyRepository) *PolicyUsecase {
	return &PolicyUsecase{policyRepo: policyRepo}
}

// Get returns the policy in lang, falling back to English. A nil policy
// with a nil error means neither translation exists.
func (u *PolicyUsecase) Get(ctx context.Context, title, lang string) (*entities.Policy, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = entities.DefaultPolicyLanguage
	}

	p, err := u.policyRepo.Get(ctx, title, lang)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if lang == entities.DefaultPolicyLanguage {
		return nil, nil
	}

	p, err = u.policyRepo.Get(ctx, title, entities.DefaultPolicyLanguage)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns every policy available in lang.
func (u *PolicyUsecase) List(ctx context.Context, lang string) ([]entities.Policy, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = entities.DefaultPolicyLanguage
	}
	return u.policyRepo.ListByLanguage(ctx, lang)
}

// Upsert creates or replaces one translation.
func (u *PolicyUsecase) Upsert(ctx context.Context, input *entities.PolicyInput) (*entities.Policy, error) {
	p := &entities.Policy{
		ID:       utils.GenerateUUIDv7(),
		Title:    strings.TrimSpace(input.Title),
		Language: strings.ToLower(strings.TrimSpace(input.Language)),
		Content:  input.Content,
	}
	if err := u.policyRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return u.policyRepo.Get(ctx, p.Title, p.Language)
}
