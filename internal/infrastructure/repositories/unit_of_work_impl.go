package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	domainRepos "kemea.backend/internal/domain/repositories"
)

type contextKey string

const (
	txKey contextKey = "tx_db"
)

var (
	_ domainRepos.UserRepository     = (*UserRepository)(nil)
	_ domainRepos.ProfileRepository  = (*ProfileRepository)(nil)
	_ domainRepos.OTPRepository      = (*OTPRepository)(nil)
	_ domainRepos.ReferralRepository = (*ReferralRepository)(nil)
	_ domainRepos.OutboxRepository   = (*OutboxRepository)(nil)
	_ domainRepos.LookupRepository   = (*LookupRepository)(nil)
	_ domainRepos.PropertyRepository = (*PropertyRepository)(nil)
	_ domainRepos.FavoriteRepository = (*FavoriteRepository)(nil)
	_ domainRepos.CompanyRepository  = (*CompanyRepository)(nil)
	_ domainRepos.InquiryRepository  = (*InquiryRepository)(nil)
	_ domainRepos.PolicyRepository   = (*PolicyRepository)(nil)
)

// UnitOfWorkImpl implements UnitOfWork using GORM
type UnitOfWorkImpl struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) domainRepos.UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// Do executes fn within a transaction. A Do nested inside another joins the
// outer transaction.
func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	txCtx := context.WithValue(ctx, txKey, tx)

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDB returns the transaction carried by ctx, or the base DB.
func (u *UnitOfWorkImpl) GetDB(ctx context.Context) *gorm.DB {
	return GetDB(ctx, u.db)
}

// GetDB extracts the transaction DB from context if present, otherwise returns fallback.
func GetDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// isDuplicateKey covers both GORM's translated error and a raw lib/pq unique violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
