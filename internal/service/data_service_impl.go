package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/repository"
)

type dataService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDataService(uow db.UnitOfWork, observers ...UseCaseObserver) DataService {
	return &dataService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Wipe physically removes every activity and session, tombstones included.
// It is the only operation that purges rows; the next sync will repopulate
// the store from the remote copy.
func (s *dataService) Wipe(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "wipe", startedAt, nil, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSessionRepo(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return repository.NewSQLiteActivityRepo(tx).DeleteAll(ctx)
	})
}
