package memory

import (
	"context"
	"sync"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
)

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)

type depositKey struct {
	owner domain.AccountID
	id    uint64
}

type memberKey struct {
	groupID uint64
	account domain.AccountID
}

type state struct {
	depositCounter uint64
	groupCounter   uint64
	deposits       map[depositKey]domain.Deposit
	depositIDs     map[domain.AccountID][]uint64
	legacy         map[domain.AccountID]domain.LegacyDeposit
	groups         map[uint64]domain.Group
	members        map[memberKey]domain.GroupMember
	rosters        map[uint64][]domain.AccountID
	price          *domain.PriceState
	wallets        map[domain.AccountID]domain.Wallet
	entries        map[domain.AccountID][]domain.WalletEntry
}

// LedgerStore keeps the ledger in process memory. Writers are serialized
// and a failed Update is undone before the lock is released.
type LedgerStore struct {
	mu sync.RWMutex
	s  *state
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{s: &state{
		deposits:   make(map[depositKey]domain.Deposit),
		depositIDs: make(map[domain.AccountID][]uint64),
		legacy:     make(map[domain.AccountID]domain.LegacyDeposit),
		groups:     make(map[uint64]domain.Group),
		members:    make(map[memberKey]domain.GroupMember),
		rosters:    make(map[uint64][]domain.AccountID),
		wallets:    make(map[domain.AccountID]domain.Wallet),
		entries:    make(map[domain.AccountID][]domain.WalletEntry),
	}}
}

func (m *LedgerStore) Update(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &ledgerTx{s: m.s, writable: true}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (m *LedgerStore) View(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(&ledgerTx{s: m.s})
}

type ledgerTx struct {
	s        *state
	writable bool
	undo     []func()
}

func (tx *ledgerTx) record(fn func()) {
	tx.undo = append(tx.undo, fn)
}

func (tx *ledgerTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *ledgerTx) checkWritable() error {
	if !tx.writable {
		return repo_interfaces.ErrReadOnlyTransaction
	}
	return nil
}

func (tx *ledgerTx) NextDepositID(_ context.Context) (uint64, error) {
	if err := tx.checkWritable(); err != nil {
		return 0, err
	}
	prev := tx.s.depositCounter
	tx.s.depositCounter++
	tx.record(func() { tx.s.depositCounter = prev })
	return tx.s.depositCounter, nil
}

func (tx *ledgerTx) GetDeposit(_ context.Context, owner domain.AccountID, id uint64) (domain.Deposit, error) {
	d, ok := tx.s.deposits[depositKey{owner: owner, id: id}]
	if !ok {
		return domain.Deposit{}, domain.ErrRecordNotFound
	}
	return cloneDeposit(d), nil
}

func (tx *ledgerTx) SaveDeposit(_ context.Context, deposit domain.Deposit) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	key := depositKey{owner: deposit.Owner, id: deposit.ID}
	prev, existed := tx.s.deposits[key]
	tx.s.deposits[key] = cloneDeposit(deposit)
	tx.record(func() {
		if existed {
			tx.s.deposits[key] = prev
			return
		}
		delete(tx.s.deposits, key)
	})
	return nil
}

func (tx *ledgerTx) DepositIDs(_ context.Context, owner domain.AccountID) ([]uint64, error) {
	ids := tx.s.depositIDs[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

func (tx *ledgerTx) AppendDepositID(_ context.Context, owner domain.AccountID, id uint64) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev, existed := tx.s.depositIDs[owner]
	next := make([]uint64, len(prev), len(prev)+1)
	copy(next, prev)
	tx.s.depositIDs[owner] = append(next, id)
	tx.record(func() {
		if existed {
			tx.s.depositIDs[owner] = prev
			return
		}
		delete(tx.s.depositIDs, owner)
	})
	return nil
}

func (tx *ledgerTx) GetLegacyDeposit(_ context.Context, owner domain.AccountID) (domain.LegacyDeposit, error) {
	d, ok := tx.s.legacy[owner]
	if !ok {
		return domain.LegacyDeposit{}, domain.ErrRecordNotFound
	}
	return d, nil
}

func (tx *ledgerTx) SaveLegacyDeposit(_ context.Context, deposit domain.LegacyDeposit) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	tx.restoreLegacyOnRollback(deposit.Owner)
	tx.s.legacy[deposit.Owner] = deposit
	return nil
}

func (tx *ledgerTx) DeleteLegacyDeposit(_ context.Context, owner domain.AccountID) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	tx.restoreLegacyOnRollback(owner)
	delete(tx.s.legacy, owner)
	return nil
}

func (tx *ledgerTx) restoreLegacyOnRollback(owner domain.AccountID) {
	prev, existed := tx.s.legacy[owner]
	tx.record(func() {
		if existed {
			tx.s.legacy[owner] = prev
			return
		}
		delete(tx.s.legacy, owner)
	})
}

func (tx *ledgerTx) NextGroupID(_ context.Context) (uint64, error) {
	if err := tx.checkWritable(); err != nil {
		return 0, err
	}
	prev := tx.s.groupCounter
	tx.s.groupCounter++
	tx.record(func() { tx.s.groupCounter = prev })
	return tx.s.groupCounter, nil
}

func (tx *ledgerTx) GetGroup(_ context.Context, id uint64) (domain.Group, error) {
	g, ok := tx.s.groups[id]
	if !ok {
		return domain.Group{}, domain.ErrRecordNotFound
	}
	return cloneGroup(g), nil
}

func (tx *ledgerTx) SaveGroup(_ context.Context, group domain.Group) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev, existed := tx.s.groups[group.ID]
	tx.s.groups[group.ID] = cloneGroup(group)
	tx.record(func() {
		if existed {
			tx.s.groups[group.ID] = prev
			return
		}
		delete(tx.s.groups, group.ID)
	})
	return nil
}

func (tx *ledgerTx) GetMember(_ context.Context, groupID uint64, account domain.AccountID) (domain.GroupMember, error) {
	m, ok := tx.s.members[memberKey{groupID: groupID, account: account}]
	if !ok {
		return domain.GroupMember{}, domain.ErrRecordNotFound
	}
	return m, nil
}

func (tx *ledgerTx) SaveMember(_ context.Context, member domain.GroupMember) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	key := memberKey{groupID: member.GroupID, account: member.Account}
	tx.restoreMemberOnRollback(key)
	tx.s.members[key] = member
	return nil
}

func (tx *ledgerTx) DeleteMember(_ context.Context, groupID uint64, account domain.AccountID) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	key := memberKey{groupID: groupID, account: account}
	tx.restoreMemberOnRollback(key)
	delete(tx.s.members, key)
	return nil
}

func (tx *ledgerTx) restoreMemberOnRollback(key memberKey) {
	prev, existed := tx.s.members[key]
	tx.record(func() {
		if existed {
			tx.s.members[key] = prev
			return
		}
		delete(tx.s.members, key)
	})
}

func (tx *ledgerTx) Roster(_ context.Context, groupID uint64) ([]domain.AccountID, error) {
	roster := tx.s.rosters[groupID]
	out := make([]domain.AccountID, len(roster))
	copy(out, roster)
	return out, nil
}

func (tx *ledgerTx) AddToRoster(_ context.Context, groupID uint64, account domain.AccountID) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev := tx.restoreRosterOnRollback(groupID)
	next := make([]domain.AccountID, len(prev), len(prev)+1)
	copy(next, prev)
	tx.s.rosters[groupID] = append(next, account)
	return nil
}

func (tx *ledgerTx) RemoveFromRoster(_ context.Context, groupID uint64, account domain.AccountID) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev := tx.restoreRosterOnRollback(groupID)
	next := make([]domain.AccountID, 0, len(prev))
	for _, a := range prev {
		if a != account {
			next = append(next, a)
		}
	}
	tx.s.rosters[groupID] = next
	return nil
}

func (tx *ledgerTx) restoreRosterOnRollback(groupID uint64) []domain.AccountID {
	prev, existed := tx.s.rosters[groupID]
	tx.record(func() {
		if existed {
			tx.s.rosters[groupID] = prev
			return
		}
		delete(tx.s.rosters, groupID)
	})
	return prev
}

func (tx *ledgerTx) GetPrice(_ context.Context) (domain.PriceState, error) {
	if tx.s.price == nil {
		return domain.PriceState{}, domain.ErrRecordNotFound
	}
	return *tx.s.price, nil
}

func (tx *ledgerTx) SavePrice(_ context.Context, price domain.PriceState) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev := tx.s.price
	tx.s.price = &price
	tx.record(func() { tx.s.price = prev })
	return nil
}

func (tx *ledgerTx) GetWallet(_ context.Context, account domain.AccountID) (domain.Wallet, error) {
	w, ok := tx.s.wallets[account]
	if !ok {
		return domain.Wallet{Account: account}, nil
	}
	return w, nil
}

func (tx *ledgerTx) SaveWallet(_ context.Context, wallet domain.Wallet) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev, existed := tx.s.wallets[wallet.Account]
	tx.s.wallets[wallet.Account] = wallet
	tx.record(func() {
		if existed {
			tx.s.wallets[wallet.Account] = prev
			return
		}
		delete(tx.s.wallets, wallet.Account)
	})
	return nil
}

func (tx *ledgerTx) AppendEntry(_ context.Context, entry domain.WalletEntry) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	prev, existed := tx.s.entries[entry.Account]
	next := make([]domain.WalletEntry, len(prev), len(prev)+1)
	copy(next, prev)
	tx.s.entries[entry.Account] = append(next, entry)
	tx.record(func() {
		if existed {
			tx.s.entries[entry.Account] = prev
			return
		}
		delete(tx.s.entries, entry.Account)
	})
	return nil
}

func (tx *ledgerTx) Entries(_ context.Context, account domain.AccountID) ([]domain.WalletEntry, error) {
	entries := tx.s.entries[account]
	out := make([]domain.WalletEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func cloneDeposit(d domain.Deposit) domain.Deposit {
	if d.Name != nil {
		name := *d.Name
		d.Name = &name
	}
	return d
}

func cloneGroup(g domain.Group) domain.Group {
	if g.Threshold != nil {
		v := *g.Threshold
		g.Threshold = &v
	}
	if g.StartBlock != nil {
		v := *g.StartBlock
		g.StartBlock = &v
	}
	if g.LockExpiry != nil {
		v := *g.LockExpiry
		g.LockExpiry = &v
	}
	return g
}
