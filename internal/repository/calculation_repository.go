package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
)

const maxListLimit = 500

type CalculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

func (r *CalculationRepository) Create(ctx context.Context, rec *domain.CalculationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("inserting calculation record: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (r *CalculationRepository) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	limit = clampLimit(limit)

	var records []domain.CalculationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing calculation records: %w", err)
	}
	return records, nil
}

// BySession returns a session's records in the order they were taken.
func (r *CalculationRepository) BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.CalculationRecord, error) {
	var records []domain.CalculationRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing session %s records: %w", sessionID, err)
	}
	return records, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return min(limit, maxListLimit)
}
