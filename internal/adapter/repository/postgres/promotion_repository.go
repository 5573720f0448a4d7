package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

const tablePromotions = "promotions"

type promotionRepository struct{ repositories }

func (r promotionRepository) record(p *domain.Promotion) goqu.Record {
	return goqu.Record{
		"code":           p.Code,
		"description":    p.Description,
		"discount_type":  string(p.DiscountType),
		"discount_value": p.DiscountValue,
		"start_date":     p.StartDate,
		"end_date":       p.EndDate,
		"min_nights":     nullableInt(p.MinNights),
		"max_uses":       nullableInt(p.MaxUses),
		"used_count":     p.UsedCount,
		"is_active":      p.IsActive,
		"updated_at":     p.UpdatedAt,
	}
}

func (r promotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	rec := r.record(p)
	rec["created_at"] = p.CreatedAt

	id, err := r.insert(ctx, dialect.Insert(tablePromotions).Rows(rec))
	if err != nil {
		return err
	}

	p.ID = id

	return nil
}

func (r promotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	n, err := r.update(ctx, dialect.Update(tablePromotions).
		Set(r.record(p)).
		Where(goqu.C("id").Eq(p.ID)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("promotion", p.ID)
	}

	return nil
}

func (r promotionRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.delete(ctx, dialect.Delete(tablePromotions).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("promotion", id)
	}

	return nil
}

func (r promotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	return r.getPromotion(ctx, dialect.From(tablePromotions).Where(goqu.C("id").Eq(id)), id)
}

func (r promotionRepository) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	return r.getPromotion(ctx, dialect.From(tablePromotions).Where(goqu.C("code").Eq(code)), code)
}

func (r promotionRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Promotion, error) {
	return r.getPromotion(ctx, dialect.From(tablePromotions).Where(goqu.C("code").Eq(code)).ForUpdate(exp.Wait), code)
}

func (r promotionRepository) getPromotion(ctx context.Context, q *goqu.SelectDataset, key any) (*domain.Promotion, error) {
	var p domain.Promotion
	if err := r.get(ctx, &p, q); err != nil {
		return nil, notFound(err, "promotion", key)
	}

	return &p, nil
}

func (r promotionRepository) List(ctx context.Context) ([]domain.Promotion, error) {
	out := []domain.Promotion{}
	if err := r.list(ctx, &out, dialect.From(tablePromotions).Order(goqu.C("id").Asc())); err != nil {
		return nil, err
	}

	return out, nil
}

// IncrementUsage guards the cap in the UPDATE itself so a concurrent winner
// leaves zero affected rows for the loser.
func (r promotionRepository) IncrementUsage(ctx context.Context, id int64) (*domain.Promotion, error) {
	n, err := r.update(ctx, dialect.Update(tablePromotions).
		Set(goqu.Record{"used_count": goqu.L("used_count + 1")}).
		Where(
			goqu.C("id").Eq(id),
			goqu.Or(
				goqu.C("max_uses").IsNull(),
				goqu.C("used_count").Lt(goqu.C("max_uses")),
			),
		))
	if err != nil {
		return nil, err
	}

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, domain.NewPromotionExhausted(p.Code)
	}

	return p, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}

	return *v
}
