package repositories

import (
	"context"
	"database/sql"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(ctx context.Context, reason string, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	log := logrus.WithField("tx", reason)
	log.Debug("starting transaction")

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "error starting transaction")
	}

	var committed bool

	defer func() {
		if p := recover(); p != nil {
			log.Errorf("panic in transaction: %v\n%s", p, debug.Stack())
			tx.Rollback()
			panic(p)
		}

		if committed {
			return
		}

		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.WithError(rbErr).Error("transaction rollback error")
		} else {
			log.Debug("transaction rolled back")
		}
	}()

	if err := fn(&gormStore{db: tx, inTx: true}); err != nil {
		log.WithError(err).Debug("error in transaction")
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrapf(err, "error committing transaction (%s)", reason)
	}
	committed = true

	log.Debug("committed transaction")
	return nil
}

func (s *gormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate locks the selected row when running inside a transaction.
// The sqlite dialect drops the clause since it has no row locks.
func (s *gormStore) forUpdate(ctx context.Context) *gorm.DB {
	db := s.conn(ctx)
	if s.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}
