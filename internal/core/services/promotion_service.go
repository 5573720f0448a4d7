package services

import (
	"context"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type PromotionService struct {
	runner
}

func NewPromotionService(d Deps) *PromotionService {
	return &PromotionService{runner: newRunner(d)}
}

func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	var out []domain.Promotion

	err := s.run(ctx, "PromotionService.List", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.Promotions().List(ctx)

		return err
	})

	return out, err
}

func (s *PromotionService) Get(ctx context.Context, id int64) (*domain.Promotion, error) {
	var p *domain.Promotion

	err := s.run(ctx, "PromotionService.Get", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		p, err = repos.Promotions().GetByID(ctx, id)

		return err
	}, idAttr("promotion_id", id))

	return p, err
}

// Create stores a new active promotion with no uses. The code is trimmed and
// uppercased; a duplicate code is a Conflict.
func (s *PromotionService) Create(ctx context.Context, p *domain.Promotion) (*domain.Promotion, error) {
	p.Code = domain.NormalizePromotionCode(p.Code)
	p.UsedCount = 0
	p.IsActive = true

	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.run(ctx, "PromotionService.Create", func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.Promotions().GetByCode(ctx, p.Code); err == nil {
			return &domain.Error{Kind: domain.KindConflict, Message: "promotion code " + p.Code + " already exists"}
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return err
		}

		now := s.now()
		p.ID, p.CreatedAt, p.UpdatedAt = 0, now, now

		return repos.Promotions().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update replaces the editable fields. usedCount and isActive are kept; lowering
// maxUses below usedCount is rejected.
func (s *PromotionService) Update(ctx context.Context, p *domain.Promotion) (*domain.Promotion, error) {
	p.Code = domain.NormalizePromotionCode(p.Code)

	var updated *domain.Promotion

	err := s.run(ctx, "PromotionService.Update", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.Promotions().GetByID(ctx, p.ID)
		if err != nil {
			return err
		}

		next := *p
		next.UsedCount = current.UsedCount
		next.IsActive = current.IsActive
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = s.now()

		if err := next.Validate(); err != nil {
			return err
		}

		if next.MaxUses != nil && *next.MaxUses < next.UsedCount {
			fields := domain.FieldErrors{}
			fields.Add("maxUses", "max uses must not be below the current used count")

			return fields.Err()
		}

		if next.Code != current.Code {
			if other, err := repos.Promotions().GetByCode(ctx, next.Code); err == nil && other.ID != next.ID {
				return &domain.Error{Kind: domain.KindConflict, Message: "promotion code " + next.Code + " already exists"}
			} else if err != nil && !domain.IsKind(err, domain.KindNotFound) {
				return err
			}
		}

		if err := repos.Promotions().Update(ctx, &next); err != nil {
			return err
		}

		updated = &next

		return nil
	}, idAttr("promotion_id", p.ID))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	return s.run(ctx, "PromotionService.Delete", func(ctx context.Context, repos ports.Repositories) error {
		return repos.Promotions().Delete(ctx, id)
	}, idAttr("promotion_id", id))
}

// Toggle flips isActive.
func (s *PromotionService) Toggle(ctx context.Context, id int64) (*domain.Promotion, error) {
	var p *domain.Promotion

	err := s.run(ctx, "PromotionService.Toggle", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.Promotions().GetByID(ctx, id)
		if err != nil {
			return err
		}

		current.IsActive = !current.IsActive
		current.UpdatedAt = s.now()

		if err := repos.Promotions().Update(ctx, current); err != nil {
			return err
		}

		p = current

		return nil
	}, idAttr("promotion_id", id))

	return p, err
}
