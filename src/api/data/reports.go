package data

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stake-plus/medshield/src/api/types"
)

// Reports persists claim reports.
type Reports struct {
	db *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

func (r *Reports) Save(ctx context.Context, report *types.ClaimReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Recent returns the newest reports first.
func (r *Reports) Recent(ctx context.Context, limit int) ([]types.ClaimReport, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []types.ClaimReport
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
