package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the repositories bound to one transaction. A submission
// (post creation, classification, publication decision, reputation updates,
// ban side effects, community auto-eviction) runs entirely inside one TxRepos.
type TxRepos struct {
	Users       UserRepository
	Posts       PostRepository
	Fame        FameRepository
	Communities CommunityRepository
}

// UnitOfWork runs a function over transaction-bound repositories, committing
// on nil return and rolling everything back on error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *TxRepos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork returns a UnitOfWork backed by gorm transactions.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TxRepos{
			Users:       NewUserRepository(tx),
			Posts:       NewPostRepository(tx),
			Fame:        NewFameRepository(tx),
			Communities: NewCommunityRepository(tx),
		})
	})
}
