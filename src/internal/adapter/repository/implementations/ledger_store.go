package implementations

import (
	"context"
	"database/sql"

	lru "github.com/hashicorp/golang-lru"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
)

// ledgerLockKey is the advisory lock every write transaction holds, which
// makes Update calls serializable across processes sharing the database.
const ledgerLockKey int64 = 0x5341_5645_4c44

const (
	counterDeposit = "deposit"
	counterGroup   = "group"
)

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)

type depositKey struct {
	owner domain.AccountID
	id    uint64
}

// LedgerStore keeps the ledger in PostgreSQL. Withdrawn deposits never
// change again, so they are served from an LRU cache once committed.
type LedgerStore struct {
	db        *sql.DB
	withdrawn *lru.Cache
}

func NewLedgerStore(db *sql.DB, cacheSize int) (*LedgerStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init withdrawn deposit cache")
	}
	return &LedgerStore{db: db, withdrawn: cache}, nil
}

func (s *LedgerStore) Update(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin ledger transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return errors.Wrap(err, "acquire ledger lock")
	}

	tx := &ledgerTx{tx: sqlTx, store: s, writable: true}
	if err := fn(tx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		logger.Error("ledger store commit failed", err, nil)
		return errors.Wrap(err, "commit ledger transaction")
	}
	committed = true

	for _, d := range tx.settled {
		s.withdrawn.Add(depositKey{owner: d.Owner, id: d.ID}, d)
	}
	return nil
}

func (s *LedgerStore) View(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return errors.Wrap(err, "begin read transaction")
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&ledgerTx{tx: sqlTx, store: s}); err != nil {
		return err
	}
	return errors.Wrap(sqlTx.Commit(), "commit read transaction")
}

type ledgerTx struct {
	tx       *sql.Tx
	store    *LedgerStore
	writable bool
	// settled holds deposits withdrawn in this transaction; they enter the
	// cache only after commit.
	settled []domain.Deposit
}

func (t *ledgerTx) checkWritable() error {
	if !t.writable {
		return repo_interfaces.ErrReadOnlyTransaction
	}
	return nil
}

func (t *ledgerTx) nextCounter(ctx context.Context, name string) (uint64, error) {
	if err := t.checkWritable(); err != nil {
		return 0, err
	}
	var value uint64
	err := t.tx.QueryRowContext(ctx, `
UPDATE ledger_counters
SET value = value + 1
WHERE name = $1
RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, errors.Wrapf(err, "advance %s counter", name)
	}
	return value, nil
}

func (t *ledgerTx) NextDepositID(ctx context.Context) (uint64, error) {
	return t.nextCounter(ctx, counterDeposit)
}

func (t *ledgerTx) GetDeposit(ctx context.Context, owner domain.AccountID, id uint64) (domain.Deposit, error) {
	if cached, ok := t.store.withdrawn.Get(depositKey{owner: owner, id: id}); ok {
		return cloneDeposit(cached.(domain.Deposit)), nil
	}

	const query = `
SELECT id, owner, amount, created_block, lock_expiry, lock_option, withdrawn, withdrawn_amount, name
FROM deposits
WHERE owner = $1 AND id = $2`

	var d domain.Deposit
	var name sql.NullString
	err := t.tx.QueryRowContext(ctx, query, string(owner), id).Scan(
		&d.ID,
		&d.Owner,
		&d.Amount,
		&d.CreatedAt,
		&d.LockExpiry,
		&d.LockOption,
		&d.Withdrawn,
		&d.WithdrawnAmount,
		&name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Deposit{}, domain.ErrRecordNotFound
		}
		return domain.Deposit{}, errors.Wrap(err, "get deposit")
	}
	if name.Valid {
		d.Name = &name.String
	}

	// Writable transactions publish through settled after commit.
	if d.Withdrawn && !t.writable {
		t.store.withdrawn.Add(depositKey{owner: owner, id: id}, cloneDeposit(d))
	}
	return d, nil
}

func (t *ledgerTx) SaveDeposit(ctx context.Context, deposit domain.Deposit) error {
	if err := t.checkWritable(); err != nil {
		return err
	}

	const query = `
INSERT INTO deposits (id, owner, amount, created_block, lock_expiry, lock_option, withdrawn, withdrawn_amount, name)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	amount = EXCLUDED.amount,
	withdrawn = EXCLUDED.withdrawn,
	withdrawn_amount = EXCLUDED.withdrawn_amount,
	updated_at = NOW()`

	if _, err := t.tx.ExecContext(ctx, query,
		deposit.ID,
		string(deposit.Owner),
		deposit.Amount,
		deposit.CreatedAt,
		deposit.LockExpiry,
		int16(deposit.LockOption),
		deposit.Withdrawn,
		deposit.WithdrawnAmount,
		deposit.Name,
	); err != nil {
		logger.Error("ledger store save deposit failed", err, logger.Fields{
			"depositId": deposit.ID,
			"owner":     deposit.Owner,
		})
		return errors.Wrap(err, "save deposit")
	}

	if deposit.Withdrawn {
		t.settled = append(t.settled, cloneDeposit(deposit))
	}
	return nil
}

func (t *ledgerTx) DepositIDs(ctx context.Context, owner domain.AccountID) ([]uint64, error) {
	rows, err := t.tx.QueryContext(ctx, `
SELECT deposit_id
FROM owner_deposit_ids
WHERE owner = $1
ORDER BY deposit_id`, string(owner))
	if err != nil {
		return nil, errors.Wrap(err, "list deposit ids")
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan deposit id")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "iterate deposit ids")
}

func (t *ledgerTx) AppendDepositID(ctx context.Context, owner domain.AccountID, id uint64) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := execRequiredRows(ctx, t.tx, `
INSERT INTO owner_deposit_ids (owner, deposit_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`, string(owner), id)
	return errors.Wrap(err, "append deposit id")
}

func (t *ledgerTx) GetLegacyDeposit(ctx context.Context, owner domain.AccountID) (domain.LegacyDeposit, error) {
	d := domain.LegacyDeposit{Owner: owner}
	err := t.tx.QueryRowContext(ctx, `
SELECT amount, created_block, lock_expiry
FROM legacy_deposits
WHERE owner = $1`, string(owner)).Scan(&d.Amount, &d.CreatedAt, &d.LockExpiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LegacyDeposit{}, domain.ErrRecordNotFound
		}
		return domain.LegacyDeposit{}, errors.Wrap(err, "get legacy deposit")
	}
	return d, nil
}

func (t *ledgerTx) SaveLegacyDeposit(ctx context.Context, deposit domain.LegacyDeposit) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO legacy_deposits (owner, amount, created_block, lock_expiry)
VALUES ($1, $2, $3, $4)
ON CONFLICT (owner) DO UPDATE SET
	amount = EXCLUDED.amount,
	created_block = EXCLUDED.created_block,
	lock_expiry = EXCLUDED.lock_expiry`,
		string(deposit.Owner), deposit.Amount, deposit.CreatedAt, deposit.LockExpiry)
	return errors.Wrap(err, "save legacy deposit")
}

func (t *ledgerTx) DeleteLegacyDeposit(ctx context.Context, owner domain.AccountID) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM legacy_deposits WHERE owner = $1`, string(owner))
	return errors.Wrap(err, "delete legacy deposit")
}

func (t *ledgerTx) NextGroupID(ctx context.Context) (uint64, error) {
	return t.nextCounter(ctx, counterGroup)
}

func (t *ledgerTx) GetGroup(ctx context.Context, id uint64) (domain.Group, error) {
	const query = `
SELECT id, creator, name, lock_option, lock_duration, threshold, member_count,
	closed, locked, start_block, lock_expiry, created_block
FROM savings_groups
WHERE id = $1`

	var g domain.Group
	var threshold, startBlock, lockExpiry sql.NullInt64
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&g.ID,
		&g.Creator,
		&g.Name,
		&g.LockOption,
		&g.LockDuration,
		&threshold,
		&g.MemberCount,
		&g.Closed,
		&g.Locked,
		&startBlock,
		&lockExpiry,
		&g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Group{}, domain.ErrRecordNotFound
		}
		return domain.Group{}, errors.Wrap(err, "get group")
	}

	if threshold.Valid {
		v := uint32(threshold.Int64)
		g.Threshold = &v
	}
	if startBlock.Valid {
		v := uint64(startBlock.Int64)
		g.StartBlock = &v
	}
	if lockExpiry.Valid {
		v := uint64(lockExpiry.Int64)
		g.LockExpiry = &v
	}
	return g, nil
}

func (t *ledgerTx) SaveGroup(ctx context.Context, group domain.Group) error {
	if err := t.checkWritable(); err != nil {
		return err
	}

	const query = `
INSERT INTO savings_groups (
	id, creator, name, lock_option, lock_duration, threshold, member_count,
	closed, locked, start_block, lock_expiry, created_block
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	member_count = EXCLUDED.member_count,
	closed = EXCLUDED.closed,
	locked = EXCLUDED.locked,
	start_block = EXCLUDED.start_block,
	lock_expiry = EXCLUDED.lock_expiry`

	if _, err := t.tx.ExecContext(ctx, query,
		group.ID,
		string(group.Creator),
		group.Name,
		int16(group.LockOption),
		group.LockDuration,
		group.Threshold,
		group.MemberCount,
		group.Closed,
		group.Locked,
		group.StartBlock,
		group.LockExpiry,
		group.CreatedAt,
	); err != nil {
		logger.Error("ledger store save group failed", err, logger.Fields{"groupId": group.ID})
		return errors.Wrap(err, "save group")
	}
	return nil
}

func (t *ledgerTx) GetMember(ctx context.Context, groupID uint64, account domain.AccountID) (domain.GroupMember, error) {
	m := domain.GroupMember{GroupID: groupID, Account: account}
	err := t.tx.QueryRowContext(ctx, `
SELECT balance, last_deposit_block, joined_block
FROM group_members
WHERE group_id = $1 AND account = $2`, groupID, string(account)).Scan(&m.Balance, &m.LastDepositBlock, &m.JoinedBlock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GroupMember{}, domain.ErrRecordNotFound
		}
		return domain.GroupMember{}, errors.Wrap(err, "get group member")
	}
	return m, nil
}

func (t *ledgerTx) SaveMember(ctx context.Context, member domain.GroupMember) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO group_members (group_id, account, balance, last_deposit_block, joined_block)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (group_id, account) DO UPDATE SET
	balance = EXCLUDED.balance,
	last_deposit_block = EXCLUDED.last_deposit_block`,
		member.GroupID, string(member.Account), member.Balance, member.LastDepositBlock, member.JoinedBlock)
	return errors.Wrap(err, "save group member")
}

func (t *ledgerTx) DeleteMember(ctx context.Context, groupID uint64, account domain.AccountID) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND account = $2`, groupID, string(account))
	return errors.Wrap(err, "delete group member")
}

func (t *ledgerTx) Roster(ctx context.Context, groupID uint64) ([]domain.AccountID, error) {
	rows, err := t.tx.QueryContext(ctx, `
SELECT account
FROM group_roster
WHERE group_id = $1
ORDER BY seq`, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "get group roster")
	}
	defer rows.Close()

	roster := make([]domain.AccountID, 0)
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, errors.Wrap(err, "scan roster entry")
		}
		roster = append(roster, domain.AccountID(account))
	}
	return roster, errors.Wrap(rows.Err(), "iterate group roster")
}

func (t *ledgerTx) AddToRoster(ctx context.Context, groupID uint64, account domain.AccountID) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `INSERT INTO group_roster (group_id, account) VALUES ($1, $2)`, groupID, string(account))
	if isUniqueViolation(err) {
		return domain.ErrAlreadyMember
	}
	return errors.Wrap(err, "add to group roster")
}

func (t *ledgerTx) RemoveFromRoster(ctx context.Context, groupID uint64, account domain.AccountID) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM group_roster WHERE group_id = $1 AND account = $2`, groupID, string(account))
	return errors.Wrap(err, "remove from group roster")
}

func (t *ledgerTx) GetPrice(ctx context.Context) (domain.PriceState, error) {
	var p domain.PriceState
	err := t.tx.QueryRowContext(ctx, `
SELECT unit_price, authority, last_update_block
FROM price_state
WHERE id = 1`).Scan(&p.UnitPrice, &p.Authority, &p.LastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PriceState{}, domain.ErrRecordNotFound
		}
		return domain.PriceState{}, errors.Wrap(err, "get price state")
	}
	return p, nil
}

func (t *ledgerTx) SavePrice(ctx context.Context, price domain.PriceState) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO price_state (id, unit_price, authority, last_update_block)
VALUES (1, $1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
	unit_price = EXCLUDED.unit_price,
	authority = EXCLUDED.authority,
	last_update_block = EXCLUDED.last_update_block`,
		price.UnitPrice, string(price.Authority), price.LastUpdate)
	return errors.Wrap(err, "save price state")
}

func (t *ledgerTx) GetWallet(ctx context.Context, account domain.AccountID) (domain.Wallet, error) {
	w := domain.Wallet{Account: account}
	err := t.tx.QueryRowContext(ctx, `
SELECT balance, updated_block
FROM wallets
WHERE account = $1`, string(account)).Scan(&w.Balance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Wallet{Account: account}, nil
		}
		return domain.Wallet{}, errors.Wrap(err, "get wallet")
	}
	return w, nil
}

func (t *ledgerTx) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO wallets (account, balance, updated_block)
VALUES ($1, $2, $3)
ON CONFLICT (account) DO UPDATE SET
	balance = EXCLUDED.balance,
	updated_block = EXCLUDED.updated_block,
	updated_at = NOW()`,
		string(wallet.Account), wallet.Balance, wallet.UpdatedAt)
	return errors.Wrap(err, "save wallet")
}

func (t *ledgerTx) AppendEntry(ctx context.Context, entry domain.WalletEntry) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
INSERT INTO wallet_entries (id, account, entry_type, amount, block, reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		string(entry.Account),
		string(entry.EntryType),
		entry.Amount,
		entry.Block,
		entry.Reference,
		entry.CreatedAt,
	)
	return errors.Wrap(err, "append wallet entry")
}

func (t *ledgerTx) Entries(ctx context.Context, account domain.AccountID) ([]domain.WalletEntry, error) {
	rows, err := t.tx.QueryContext(ctx, `
SELECT id, entry_type, amount, block, reference, created_at
FROM wallet_entries
WHERE account = $1
ORDER BY seq`, string(account))
	if err != nil {
		return nil, errors.Wrap(err, "list wallet entries")
	}
	defer rows.Close()

	entries := make([]domain.WalletEntry, 0)
	for rows.Next() {
		e := domain.WalletEntry{Account: account}
		var entryType string
		if err := rows.Scan(&e.ID, &entryType, &e.Amount, &e.Block, &e.Reference, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan wallet entry")
		}
		e.EntryType = domain.LedgerEntryType(entryType)
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate wallet entries")
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "execute statement")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "read rows affected")
	}
	if rows == 0 {
		return 0, errors.New("statement affected no rows")
	}
	return rows, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func cloneDeposit(d domain.Deposit) domain.Deposit {
	if d.Name != nil {
		name := *d.Name
		d.Name = &name
	}
	return d
}
