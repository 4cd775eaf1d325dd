package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/erosops/scheduler-hub/modules/scheduling/domain/ports"
)

type RosterPGStore struct {
	pool pgBeginner
}

func NewRosterPGStore(pool pgBeginner) ports.RosterStore {
	return &RosterPGStore{pool: pool}
}

func (s *RosterPGStore) RosterIsManager(ctx context.Context, email string) (bool, bool, error) {
	return s.lookupManagerFlag(ctx, `
	SELECT is_manager
	FROM sched.scheduler_roster
	WHERE lower(scheduler_email) = lower($1)
	LIMIT 1
	`, email)
}

func (s *RosterPGStore) AssignmentIsManager(ctx context.Context, email string) (bool, bool, error) {
	return s.lookupManagerFlag(ctx, `
	SELECT is_manager
	FROM sched.scheduler_assignments
	WHERE lower(scheduler_email) = lower($1)
	LIMIT 1
	`, email)
}

func (s *RosterPGStore) lookupManagerFlag(ctx context.Context, sql string, email string) (bool, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, false, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var isManager bool
	if err := tx.QueryRow(ctx, sql, email).Scan(&isManager); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, false, nil
		}
		return false, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, false, err
	}
	return isManager, true, nil
}
