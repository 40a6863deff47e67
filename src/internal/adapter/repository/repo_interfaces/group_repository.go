package repo_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type GroupRepository interface {
	NextGroupID(ctx context.Context) (uint64, error)
	GetGroup(ctx context.Context, id uint64) (domain.Group, error)
	SaveGroup(ctx context.Context, group domain.Group) error
	GetMember(ctx context.Context, groupID uint64, account domain.AccountID) (domain.GroupMember, error)
	SaveMember(ctx context.Context, member domain.GroupMember) error
	DeleteMember(ctx context.Context, groupID uint64, account domain.AccountID) error
	// Roster returns members in join order.
	Roster(ctx context.Context, groupID uint64) ([]domain.AccountID, error)
	AddToRoster(ctx context.Context, groupID uint64, account domain.AccountID) error
	RemoveFromRoster(ctx context.Context, groupID uint64, account domain.AccountID) error
}
