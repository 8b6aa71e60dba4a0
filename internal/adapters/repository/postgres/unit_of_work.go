package postgres

import (
	"context"
	"database/sql"

	"brickvault/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) ProjectRepo() port.ProjectRepository {
	if u.tx != nil {
		return NewSqlProjectRepository(u.tx)
	}
	return NewSqlProjectRepository(u.db)
}

func (u *sqlUnitOfWork) ProjectFileRepo() port.ProjectFileRepository {
	if u.tx != nil {
		return NewSqlProjectFileRepository(u.tx)
	}
	return NewSqlProjectFileRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
