package services

// accrualRunner is shared by the services that mutate reward state. It holds
// the user's lock for the whole transaction.
type accrualRunner struct {
	store  Store
	locker UserLocker
}

func newAccrualRunner(store Store, locker UserLocker) accrualRunner {
	if locker == nil {
		locker = NewLocalUserLocker()
	}
	return accrualRunner{store: store, locker: locker}
}

func (runner accrualRunner) forUser(operation string, userID string, fn func(repos StoreRepositories) error) error {
	unlock, err := runner.locker.Lock(userID)
	if err != nil {
		return internalError(operation+": lock user", err)
	}
	defer unlock()

	return passThrough(operation, runner.store.Transaction(fn))
}

func (runner accrualRunner) read(operation string, fn func(repos StoreRepositories) error) error {
	return passThrough(operation, runner.store.Transaction(fn))
}
