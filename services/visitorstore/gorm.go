package visitorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"visitor-pass/models/visitor"
	"visitor-pass/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a new GORM-backed visitor store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(ctx context.Context, v *visitor.Visitor) error {
	v.UID = uuid.NewString()
	v.Status = visitor.StatusPending
	v.IssuedAt = time.Now()

	// Requires gorm.Config{TranslateError: true} so a pass number collision
	// comes back as ErrDuplicatedKey and can be regenerated.
	var err error
	for attempt := 0; attempt < passNumberRetries; attempt++ {
		v.PassNumber = utils.GeneratePassNumber()
		err = s.DB.WithContext(ctx).Create(v).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create visitor: %w", err)
		}
	}
	return fmt.Errorf("create visitor: pass number conflicts persisted after %d attempts: %w", passNumberRetries, err)
}

func (s *GormStore) GetByUID(ctx context.Context, uid string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	err := s.DB.WithContext(ctx).Where("uid = ?", uid).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get visitor %s: %w", uid, err)
	}
	return &v, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]visitor.Visitor, error) {
	var visitors []visitor.Visitor
	err := s.DB.WithContext(ctx).Order("issued_at DESC").Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return visitors, nil
}

func (s *GormStore) ListByStatus(ctx context.Context, status visitor.Status) ([]visitor.Visitor, error) {
	var visitors []visitor.Visitor
	err := s.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("issued_at DESC").
		Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("list visitors by status %s: %w", status, err)
	}
	return visitors, nil
}

func (s *GormStore) SetStatusIfPending(ctx context.Context, uid string, to visitor.Status) (bool, error) {
	// Conditional update: the WHERE clause is the compare-and-set. Two
	// concurrent approvals race on it and only one row update wins.
	res := s.DB.WithContext(ctx).
		Model(&visitor.Visitor{}).
		Where("uid = ? AND status = ?", uid, visitor.StatusPending).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("update visitor %s status: %w", uid, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// No row moved: either the record is already terminal, or it is gone.
	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&visitor.Visitor{}).
		Where("uid = ?", uid).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("update visitor %s status: %w", uid, err)
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (s *GormStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("issued_at < ?", cutoff).
		Delete(&visitor.Visitor{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete old visitors: %w", res.Error)
	}
	return res.RowsAffected, nil
}
