package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.GroupService = (*GroupService)(nil)

// GroupService runs pooled vaults through OPEN, CLOSED, ACTIVE and
// COMPLETED. Every transition happens inside a single store transaction.
type GroupService struct {
	store   repo_interfaces.LedgerStore
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewGroupService(store repo_interfaces.LedgerStore, clock domain.Clock, collector *metrics.Collector) *GroupService {
	return &GroupService{store: store, clock: clock, metrics: collector}
}

// CreateGroup enrolls the creator as the first member with a zero balance.
// A threshold of one closes the group immediately.
func (s *GroupService) CreateGroup(ctx context.Context, creator domain.AccountID, name string, option domain.LockOption, threshold *uint32) (id uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("create_group", start, err) }()

	logger.Info("group service create group request", logger.Fields{
		"creator":    creator,
		"name":       name,
		"lockOption": option,
	})

	if !creator.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	name = strings.TrimSpace(name)
	if n := domain.NameLength(name); n == 0 || n > domain.MaxNameLength {
		return 0, domain.ErrInvalidName
	}
	duration := domain.DurationOf(option)
	if duration == 0 {
		return 0, domain.ErrInvalidLockOption
	}
	if threshold != nil && (*threshold == 0 || *threshold > domain.MaxThreshold) {
		return 0, domain.ErrInvalidThreshold
	}

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		id, err = tx.NextGroupID(ctx)
		if err != nil {
			return fmt.Errorf("allocate group id: %w", err)
		}

		group := domain.Group{
			ID:           id,
			Creator:      creator,
			Name:         name,
			LockOption:   option,
			LockDuration: duration,
			Threshold:    cloneThreshold(threshold),
			MemberCount:  1,
			CreatedAt:    now,
		}
		group.Closed = group.ThresholdReached()

		if err := tx.SaveGroup(ctx, group); err != nil {
			return fmt.Errorf("save group: %w", err)
		}
		if err := tx.SaveMember(ctx, domain.GroupMember{
			GroupID:     id,
			Account:     creator,
			JoinedBlock: now,
		}); err != nil {
			return fmt.Errorf("save creator member: %w", err)
		}
		if err := tx.AddToRoster(ctx, id, creator); err != nil {
			return fmt.Errorf("add creator to roster: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("group service create group failed", err, logger.Fields{"creator": creator})
		return 0, err
	}

	logger.Info("group service create group success", logger.Fields{
		"groupId": id,
		"creator": creator,
	})
	return id, nil
}

// JoinGroupWithDeposit adds account with an opening balance. Reaching the
// threshold closes the group in the same transaction.
func (s *GroupService) JoinGroupWithDeposit(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("join_group", start, err) }()

	logger.Info("group service join group request", logger.Fields{
		"account": account,
		"groupId": groupID,
		"amount":  amount,
	})

	if !account.Valid() {
		return domain.ErrInvalidAccount
	}
	if !domain.ValidAmount(amount) {
		return domain.ErrInvalidAmount
	}

	var now uint64
	closed := false
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		group, err := loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if group.Closed {
			return domain.ErrGroupClosed
		}

		_, err = tx.GetMember(ctx, groupID, account)
		switch {
		case err == nil:
			return domain.ErrAlreadyMember
		case !errors.Is(err, domain.ErrRecordNotFound):
			return fmt.Errorf("get member: %w", err)
		}

		if group.ThresholdReached() {
			return domain.ErrGroupFull
		}
		roster, err := tx.Roster(ctx, groupID)
		if err != nil {
			return fmt.Errorf("get roster: %w", err)
		}
		if len(roster) >= domain.MaxGroupMembers {
			return domain.ErrGroupFull
		}

		if err := debitWallet(ctx, tx, account, amount, now, groupReference(groupID)); err != nil {
			return err
		}
		if err := tx.SaveMember(ctx, domain.GroupMember{
			GroupID:          groupID,
			Account:          account,
			Balance:          amount,
			LastDepositBlock: now,
			JoinedBlock:      now,
		}); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		if err := tx.AddToRoster(ctx, groupID, account); err != nil {
			return fmt.Errorf("add to roster: %w", err)
		}

		group.MemberCount++
		if group.ThresholdReached() {
			group.Closed = true
			closed = true
		}
		if err := tx.SaveGroup(ctx, group); err != nil {
			return fmt.Errorf("save group: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("group service join group failed", err, logger.Fields{
			"account": account,
			"groupId": groupID,
		})
		return err
	}

	s.metrics.Locked(metrics.LedgerGroup, amount)
	logger.Info("group service join group success", logger.Fields{
		"account":    account,
		"groupId":    groupID,
		"autoClosed": closed,
	})
	return nil
}

// CloseGroup is the manual close. It does not consult the threshold.
func (s *GroupService) CloseGroup(ctx context.Context, caller domain.AccountID, groupID uint64) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("close_group", start, err) }()

	logger.Info("group service close group request", logger.Fields{
		"caller":  caller,
		"groupId": groupID,
	})

	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		group, err := loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if caller != group.Creator {
			return domain.ErrNotCreator
		}
		if group.Closed {
			return domain.ErrAlreadyClosed
		}

		group.Closed = true
		return tx.SaveGroup(ctx, group)
	})
	if err != nil {
		logger.Error("group service close group failed", err, logger.Fields{
			"caller":  caller,
			"groupId": groupID,
		})
		return err
	}

	logger.Info("group service close group success", logger.Fields{"groupId": groupID})
	return nil
}

func (s *GroupService) StartGroupLock(ctx context.Context, caller domain.AccountID, groupID uint64) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("start_group_lock", start, err) }()

	logger.Info("group service start lock request", logger.Fields{
		"caller":  caller,
		"groupId": groupID,
	})

	var now uint64
	var expiry uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		group, err := loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if caller != group.Creator {
			return domain.ErrNotCreator
		}
		if !group.Closed {
			return domain.ErrGroupNotClosed
		}
		if group.Locked {
			return domain.ErrAlreadyLocked
		}

		expiry = domain.LockExpiry(now, group.LockDuration)
		startBlock := now
		group.Locked = true
		group.StartBlock = &startBlock
		group.LockExpiry = &expiry
		return tx.SaveGroup(ctx, group)
	})
	if err != nil {
		logger.Error("group service start lock failed", err, logger.Fields{
			"caller":  caller,
			"groupId": groupID,
		})
		return err
	}

	logger.Info("group service start lock success", logger.Fields{
		"groupId":    groupID,
		"startBlock": now,
		"lockExpiry": expiry,
	})
	return nil
}

// GroupDeposit tops up a member's balance in any phase.
func (s *GroupService) GroupDeposit(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("group_deposit", start, err) }()

	logger.Info("group service deposit request", logger.Fields{
		"account": account,
		"groupId": groupID,
		"amount":  amount,
	})

	if !domain.ValidAmount(amount) {
		return domain.ErrInvalidAmount
	}

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		if _, err := loadGroup(ctx, tx, groupID); err != nil {
			return err
		}
		member, err := loadMember(ctx, tx, groupID, account)
		if err != nil {
			return err
		}
		if member.Balance > domain.MaxAmount-amount {
			return domain.ErrInvalidAmount
		}

		if err := debitWallet(ctx, tx, account, amount, now, groupReference(groupID)); err != nil {
			return err
		}
		member.Balance += amount
		member.LastDepositBlock = now
		return tx.SaveMember(ctx, member)
	})
	if err != nil {
		logger.Error("group service deposit failed", err, logger.Fields{
			"account": account,
			"groupId": groupID,
		})
		return err
	}

	s.metrics.Locked(metrics.LedgerGroup, amount)
	logger.Info("group service deposit success", logger.Fields{
		"account": account,
		"groupId": groupID,
		"amount":  amount,
	})
	return nil
}

// GroupWithdraw releases a member's funds once the group lock has expired.
// A member whose balance reaches zero leaves the roster.
func (s *GroupService) GroupWithdraw(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) (withdrawn uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("group_withdraw", start, err) }()

	logger.Info("group service withdraw request", logger.Fields{
		"account": account,
		"groupId": groupID,
		"amount":  amount,
	})

	if amount == 0 {
		return 0, domain.ErrInvalidAmount
	}

	var now uint64
	removed := false
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		group, err := loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		member, err := loadMember(ctx, tx, groupID, account)
		if err != nil {
			return err
		}
		if group.LockExpiry == nil {
			return domain.ErrGroupNotStarted
		}
		if now < *group.LockExpiry {
			return domain.ErrStillLocked
		}
		if amount > member.Balance {
			return domain.ErrInsufficientBalance
		}

		if err := creditWallet(ctx, tx, account, amount, now, groupReference(groupID)); err != nil {
			return err
		}

		member.Balance -= amount
		if member.Balance > 0 {
			return tx.SaveMember(ctx, member)
		}

		removed = true
		if err := tx.DeleteMember(ctx, groupID, account); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		if err := tx.RemoveFromRoster(ctx, groupID, account); err != nil {
			return fmt.Errorf("remove from roster: %w", err)
		}
		if group.MemberCount > 0 {
			group.MemberCount--
		}
		return tx.SaveGroup(ctx, group)
	})
	if err != nil {
		logger.Error("group service withdraw failed", err, logger.Fields{
			"account": account,
			"groupId": groupID,
			"amount":  amount,
		})
		return 0, err
	}

	s.metrics.Released(metrics.LedgerGroup, amount)
	logger.Info("group service withdraw success", logger.Fields{
		"account":       account,
		"groupId":       groupID,
		"amount":        amount,
		"memberRemoved": removed,
	})
	return amount, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID uint64) (domain.Group, bool, error) {
	var group domain.Group
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		group, err = tx.GetGroup(ctx, groupID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Group{}, false, nil
		}
		logger.Error("group service get group failed", err, logger.Fields{"groupId": groupID})
		return domain.Group{}, false, err
	}
	return group, true, nil
}

func (s *GroupService) GetGroupPhase(ctx context.Context, groupID uint64) (domain.GroupPhase, bool, error) {
	group, ok, err := s.GetGroup(ctx, groupID)
	if err != nil || !ok {
		return "", ok, err
	}
	return group.Phase(s.clock.BlockHeight()), true, nil
}

func (s *GroupService) GetMember(ctx context.Context, groupID uint64, account domain.AccountID) (domain.GroupMember, bool, error) {
	var member domain.GroupMember
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		member, err = tx.GetMember(ctx, groupID, account)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.GroupMember{}, false, nil
		}
		logger.Error("group service get member failed", err, logger.Fields{
			"groupId": groupID,
			"account": account,
		})
		return domain.GroupMember{}, false, err
	}
	return member, true, nil
}

// ListMembers returns members in join order. Unknown groups yield an
// empty list.
func (s *GroupService) ListMembers(ctx context.Context, groupID uint64) ([]domain.GroupMember, error) {
	var members []domain.GroupMember
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		roster, err := tx.Roster(ctx, groupID)
		if err != nil {
			return fmt.Errorf("get roster: %w", err)
		}
		members = make([]domain.GroupMember, 0, len(roster))
		for _, account := range roster {
			member, err := tx.GetMember(ctx, groupID, account)
			if err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("get member %s: %w", account, err)
			}
			members = append(members, member)
		}
		return nil
	})
	if err != nil {
		logger.Error("group service list members failed", err, logger.Fields{"groupId": groupID})
		return nil, err
	}
	return members, nil
}

func (s *GroupService) GroupTotalBalance(ctx context.Context, groupID uint64) (uint64, error) {
	members, err := s.ListMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, m := range members {
		total += m.Balance
	}
	return total, nil
}

func (s *GroupService) GroupRemainingBlocks(ctx context.Context, groupID uint64) (uint64, error) {
	group, ok, err := s.GetGroup(ctx, groupID)
	if err != nil || !ok {
		return 0, err
	}
	return group.RemainingBlocks(s.clock.BlockHeight()), nil
}

func loadGroup(ctx context.Context, tx repo_interfaces.LedgerTx, groupID uint64) (domain.Group, error) {
	group, err := tx.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Group{}, domain.ErrGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

func loadMember(ctx context.Context, tx repo_interfaces.LedgerTx, groupID uint64, account domain.AccountID) (domain.GroupMember, error) {
	member, err := tx.GetMember(ctx, groupID, account)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.GroupMember{}, domain.ErrNotMember
		}
		return domain.GroupMember{}, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}

func cloneThreshold(threshold *uint32) *uint32 {
	if threshold == nil {
		return nil
	}
	v := *threshold
	return &v
}
