package service_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type GroupService interface {
	CreateGroup(ctx context.Context, creator domain.AccountID, name string, option domain.LockOption, threshold *uint32) (uint64, error)
	JoinGroupWithDeposit(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) error
	CloseGroup(ctx context.Context, caller domain.AccountID, groupID uint64) error
	StartGroupLock(ctx context.Context, caller domain.AccountID, groupID uint64) error
	GroupDeposit(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) error
	GroupWithdraw(ctx context.Context, account domain.AccountID, groupID uint64, amount uint64) (uint64, error)
	GetGroup(ctx context.Context, groupID uint64) (domain.Group, bool, error)
	GetGroupPhase(ctx context.Context, groupID uint64) (domain.GroupPhase, bool, error)
	GetMember(ctx context.Context, groupID uint64, account domain.AccountID) (domain.GroupMember, bool, error)
	ListMembers(ctx context.Context, groupID uint64) ([]domain.GroupMember, error)
	GroupTotalBalance(ctx context.Context, groupID uint64) (uint64, error)
	GroupRemainingBlocks(ctx context.Context, groupID uint64) (uint64, error)
}
