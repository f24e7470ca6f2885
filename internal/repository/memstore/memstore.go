// Package memstore provides an in-memory implementation of the ledger's
// persistence boundary. It mirrors the SQL store's isolation contract:
// balance mutations stay private to a unit of work until commit, and
// FindByIDForUpdate takes a per-account mutex that is held until the unit of
// work commits or rolls back. Callers locking two accounts must acquire them
// in ascending ID order, the same discipline the row-locked store requires.
//
// The store backs tests and local tooling; it keeps no durable state.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/atmbank/ledger/internal/repository"
	"github.com/google/uuid"
)

// Store is an in-memory repository.Store.
type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*accountRecord
	byNumber map[string]uuid.UUID
	txns     map[uuid.UUID]*models.Transaction
	txnOrder []uuid.UUID
}

// accountRecord pairs an account's committed state with the mutex that
// serializes withdrawal-class access to it.
type accountRecord struct {
	mu   sync.Mutex
	acct models.Account
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*accountRecord),
		byNumber: make(map[string]uuid.UUID),
		txns:     make(map[uuid.UUID]*models.Transaction),
	}
}

// Begin opens a new unit of work.
func (s *Store) Begin(_ context.Context) (repository.UnitOfWork, error) {
	return &unitOfWork{
		store:  s,
		staged: make(map[uuid.UUID]models.Account),
		status: make(map[uuid.UUID]models.TransactionStatus),
	}, nil
}

// Accounts returns an account repository operating on committed state only.
func (s *Store) Accounts() repository.AccountRepository {
	return &accountRepo{store: s}
}

// Transactions returns a transaction repository operating on committed
// state only.
func (s *Store) Transactions() repository.TransactionRepository {
	return &txnRepo{store: s}
}

// lookup returns the record for an id under the store lock.
func (s *Store) lookup(id uuid.UUID) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.accounts[id]
	return rec, ok
}

func (s *Store) lookupByNumber(number string) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byNumber[number]
	if !ok {
		return nil, false
	}
	return s.accounts[id], true
}

// unitOfWork stages writes until Commit. Locked account records stay locked
// for the unit of work's whole lifetime.
type unitOfWork struct {
	store   *Store
	locked  []*accountRecord
	staged  map[uuid.UUID]models.Account
	created []models.Account
	appends []models.Transaction
	status  map[uuid.UUID]models.TransactionStatus
	done    bool
}

func (u *unitOfWork) Accounts() repository.AccountRepository {
	return &accountRepo{store: u.store, uow: u}
}

func (u *unitOfWork) Transactions() repository.TransactionRepository {
	return &txnRepo{store: u.store, uow: u}
}

// Commit applies every staged write atomically, then releases the account
// locks. After the store lock is taken nothing can fail halfway: either the
// whole unit of work becomes visible or none of it does.
func (u *unitOfWork) Commit() error {
	if u.done {
		return fmt.Errorf("unit of work already finished")
	}
	u.done = true
	defer u.release()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, acct := range u.created {
		if _, exists := u.store.byNumber[acct.AccountNumber]; exists {
			return fmt.Errorf("account number %s: %w", acct.AccountNumber, models.ErrDuplicateAccountNumber)
		}
	}

	for _, acct := range u.created {
		cp := acct
		u.store.accounts[acct.ID] = &accountRecord{acct: cp}
		u.store.byNumber[acct.AccountNumber] = acct.ID
	}
	for id, acct := range u.staged {
		if rec, ok := u.store.accounts[id]; ok {
			rec.acct = acct
		}
	}
	for _, txn := range u.appends {
		cp := txn
		u.store.txns[txn.ID] = &cp
		u.store.txnOrder = append(u.store.txnOrder, txn.ID)
	}
	for id, status := range u.status {
		if txn, ok := u.store.txns[id]; ok {
			txn.Status = status
		}
	}

	return nil
}

// Rollback discards all staged writes and releases the account locks.
func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.release()
	u.staged = make(map[uuid.UUID]models.Account)
	u.created = nil
	u.appends = nil
	return nil
}

func (u *unitOfWork) release() {
	for _, rec := range u.locked {
		rec.mu.Unlock()
	}
	u.locked = nil
}

// accountRepo implements repository.AccountRepository. With a unit of work it
// reads through the staging area; without one it only sees committed state.
type accountRepo struct {
	store *Store
	uow   *unitOfWork
}

func (r *accountRepo) Create(_ context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt

	if r.uow != nil {
		exists, err := r.ExistsByAccountNumber(context.Background(), account.AccountNumber)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("account number %s: %w", account.AccountNumber, models.ErrDuplicateAccountNumber)
		}
		r.uow.created = append(r.uow.created, *account)
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.byNumber[account.AccountNumber]; exists {
		return fmt.Errorf("account number %s: %w", account.AccountNumber, models.ErrDuplicateAccountNumber)
	}
	cp := *account
	r.store.accounts[account.ID] = &accountRecord{acct: cp}
	r.store.byNumber[account.AccountNumber] = account.ID
	return nil
}

func (r *accountRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	if r.uow != nil {
		if acct, ok := r.uow.staged[id]; ok {
			cp := acct
			return &cp, nil
		}
		for _, acct := range r.uow.created {
			if acct.ID == id {
				cp := acct
				return &cp, nil
			}
		}
	}

	rec, ok := r.store.lookup(id)
	if !ok {
		return nil, fmt.Errorf("account: %w", models.ErrNotFound)
	}
	r.store.mu.Lock()
	cp := rec.acct
	r.store.mu.Unlock()
	return &cp, nil
}

func (r *accountRepo) FindByAccountNumber(_ context.Context, number string) (*models.Account, error) {
	rec, ok := r.store.lookupByNumber(number)
	if !ok {
		return nil, fmt.Errorf("account: %w", models.ErrNotFound)
	}
	r.store.mu.Lock()
	cp := rec.acct
	r.store.mu.Unlock()
	return &cp, nil
}

// FindByIDForUpdate takes the account's mutex and holds it until the unit of
// work finishes, giving this unit of work exclusive access to the balance.
func (r *accountRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*models.Account, error) {
	if r.uow == nil {
		return nil, fmt.Errorf("for-update fetch requires a unit of work")
	}

	rec, ok := r.store.lookup(id)
	if !ok {
		return nil, fmt.Errorf("account: %w", models.ErrNotFound)
	}

	if !r.uow.holds(rec) {
		rec.mu.Lock()
		r.uow.locked = append(r.uow.locked, rec)
	}

	if acct, ok := r.uow.staged[id]; ok {
		cp := acct
		return &cp, nil
	}
	r.store.mu.Lock()
	cp := rec.acct
	r.store.mu.Unlock()
	return &cp, nil
}

func (u *unitOfWork) holds(rec *accountRecord) bool {
	for _, held := range u.locked {
		if held == rec {
			return true
		}
	}
	return false
}

func (r *accountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance money.Money) error {
	if r.uow != nil {
		acct, err := r.FindByID(context.Background(), id)
		if err != nil {
			return err
		}
		acct.Balance = balance
		acct.UpdatedAt = time.Now().UTC()
		r.uow.staged[id] = *acct
		return nil
	}

	rec, ok := r.store.lookup(id)
	if !ok {
		return fmt.Errorf("account: %w", models.ErrNotFound)
	}
	r.store.mu.Lock()
	rec.acct.Balance = balance
	rec.acct.UpdatedAt = time.Now().UTC()
	r.store.mu.Unlock()
	return nil
}

func (r *accountRepo) ExistsByAccountNumber(_ context.Context, number string) (bool, error) {
	r.store.mu.Lock()
	_, exists := r.store.byNumber[number]
	r.store.mu.Unlock()
	if !exists && r.uow != nil {
		for _, acct := range r.uow.created {
			if acct.AccountNumber == number {
				return true, nil
			}
		}
	}
	return exists, nil
}

func (r *accountRepo) ListByOwner(_ context.Context, ownerID int64) ([]models.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var accounts []models.Account
	for _, rec := range r.store.accounts {
		if rec.acct.OwnerID == ownerID {
			accounts = append(accounts, rec.acct)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *accountRepo) SumBalances(_ context.Context) (money.Money, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var total money.Money
	for _, rec := range r.store.accounts {
		total = total.Add(rec.acct.Balance)
	}
	return total, nil
}

// txnRepo implements repository.TransactionRepository.
type txnRepo struct {
	store *Store
	uow   *unitOfWork
}

func (r *txnRepo) Create(_ context.Context, txn *models.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	if r.uow != nil {
		r.uow.appends = append(r.uow.appends, *txn)
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *txn
	r.store.txns[txn.ID] = &cp
	r.store.txnOrder = append(r.store.txnOrder, txn.ID)
	return nil
}

func (r *txnRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	txn, ok := r.store.txns[id]
	if !ok {
		return nil, fmt.Errorf("transaction: %w", models.ErrNotFound)
	}
	cp := *txn
	return &cp, nil
}

func (r *txnRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.TransactionStatus) error {
	if _, err := models.ParseTransactionStatus(string(status)); err != nil {
		return err
	}

	if r.uow != nil {
		if _, err := r.FindByID(context.Background(), id); err != nil {
			return err
		}
		r.uow.status[id] = status
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	txn, ok := r.store.txns[id]
	if !ok {
		return fmt.Errorf("transaction: %w", models.ErrNotFound)
	}
	txn.Status = status
	return nil
}

func (r *txnRepo) List(_ context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []models.Transaction
	// Newest first: walk the append order backwards.
	for i := len(r.store.txnOrder) - 1; i >= 0; i-- {
		txn := r.store.txns[r.store.txnOrder[i]]
		if filter.AccountID != nil && !txn.References(*filter.AccountID) {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if filter.Since != nil && txn.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && txn.CreatedAt.After(*filter.Until) {
			continue
		}
		matched = append(matched, *txn)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *txnRepo) Count(_ context.Context, filter repository.TransactionFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, txn := range r.store.txns {
		if filter.AccountID != nil && !txn.References(*filter.AccountID) {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if filter.Since != nil && txn.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && txn.CreatedAt.After(*filter.Until) {
			continue
		}
		count++
	}
	return count, nil
}
