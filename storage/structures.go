package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopidream/aorit-sub000/model"
	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

// StructureStore holds one active section schema per jurisdiction.
type StructureStore struct {
	db *gorm.DB
}

func NewStructureStore(db *gorm.DB) *StructureStore {
	return &StructureStore{db: db}
}

// ActiveForJurisdiction returns the single active structure for a jurisdiction.
func (s *StructureStore) ActiveForJurisdiction(ctx context.Context, jurisdiction string) (*model.ContractStructure, error) {
	var cs model.ContractStructure
	err := s.db.WithContext(ctx).
		Where("jurisdiction = ? AND active = ?", jurisdiction, true).
		Order("version desc").
		First(&cs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no active structure for jurisdiction " + jurisdiction)
		}
		return nil, fmt.Errorf("failed to load structure: %w", err)
	}
	return &cs, nil
}

// Seed installs the default KR structure when the table is empty.
func (s *StructureStore) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ContractStructure{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count structures: %w", err)
	}
	if count > 0 {
		return nil
	}

	kr := &model.ContractStructure{
		ID:           uuid.New().String(),
		Jurisdiction: "KR",
		Version:      1,
		Active:       true,
		Slots: []model.SectionSlot{
			{ID: "purpose", Title: "계약의 목적", Categories: []string{"계약 목적", "용역 범위"}, Required: true},
			{ID: "payment", Title: "대금 지급", Categories: []string{"대금 지급 조건", "정산"}, Required: true},
			{ID: "delivery", Title: "납품 및 검수", Categories: []string{"납품 및 검수"}, Required: true},
			{ID: "confidentiality", Title: "비밀 유지", Categories: []string{"비밀 유지"}, Required: true},
			{ID: "ip", Title: "지적재산권", Categories: []string{"지적재산권"}, Required: false},
			{ID: "warranty", Title: "하자 보수", Categories: []string{"하자 보수"}, Required: false},
			{ID: "damages", Title: "손해배상", Categories: []string{"손해배상"}, Required: false},
			{ID: "termination", Title: "계약 해지", Categories: []string{"계약 해지"}, Required: true},
			{ID: "dispute", Title: "분쟁 해결", Categories: []string{"분쟁 해결"}, Required: false},
			{ID: "etc", Title: "기타 조항", Categories: []string{"기타 조항"}, Required: false, CatchAll: true},
		},
		CreatedAt: time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(kr).Error; err != nil {
		return fmt.Errorf("failed to seed KR structure: %w", err)
	}
	return nil
}
