package models

import (
	"errors"
	"strings"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type CreateGroupRequest struct {
	Creator    string  `json:"creator"`
	Name       string  `json:"name"`
	LockOption uint8   `json:"lockOption"`
	Threshold  *uint32 `json:"threshold,omitempty"`
}

func (r CreateGroupRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Creator) == "" {
		errs = append(errs, "creator is required")
	}
	if r.LockOption == 0 {
		errs = append(errs, "lockOption is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// GroupAmountRequest is the body of join, deposit and withdraw.
type GroupAmountRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func (r GroupAmountRequest) Validate() error {
	if strings.TrimSpace(r.Account) == "" {
		return errors.New("account is required")
	}
	return nil
}

type GroupCallerRequest struct {
	Caller string `json:"caller"`
}

func (r GroupCallerRequest) Validate() error {
	if strings.TrimSpace(r.Caller) == "" {
		return errors.New("caller is required")
	}
	return nil
}

type CreateGroupResponse struct {
	ID uint64 `json:"id"`
}

type GroupResponse struct {
	ID                  uint64  `json:"id"`
	Creator             string  `json:"creator"`
	Name                string  `json:"name"`
	LockOption          uint8   `json:"lockOption"`
	LockLabel           string  `json:"lockLabel"`
	LockDuration        uint64  `json:"lockDuration"`
	Threshold           *uint32 `json:"threshold,omitempty"`
	MemberCount         uint32  `json:"memberCount"`
	Closed              bool    `json:"closed"`
	Locked              bool    `json:"locked"`
	StartBlock          *uint64 `json:"startBlock,omitempty"`
	LockExpiry          *uint64 `json:"lockExpiry,omitempty"`
	CreatedAt           uint64  `json:"createdAt"`
	Phase               string  `json:"phase"`
	RemainingBlocks     uint64  `json:"remainingBlocks"`
	TotalBalance        uint64  `json:"totalBalance"`
	TotalBalanceDisplay string  `json:"totalBalanceDisplay"`
}

func NewGroupResponse(g domain.Group, now uint64, totalBalance uint64) GroupResponse {
	return GroupResponse{
		ID:                  g.ID,
		Creator:             g.Creator.String(),
		Name:                g.Name,
		LockOption:          uint8(g.LockOption),
		LockLabel:           g.LockOption.Label(),
		LockDuration:        g.LockDuration,
		Threshold:           g.Threshold,
		MemberCount:         g.MemberCount,
		Closed:              g.Closed,
		Locked:              g.Locked,
		StartBlock:          g.StartBlock,
		LockExpiry:          g.LockExpiry,
		CreatedAt:           g.CreatedAt,
		Phase:               string(g.Phase(now)),
		RemainingBlocks:     g.RemainingBlocks(now),
		TotalBalance:        totalBalance,
		TotalBalanceDisplay: domain.FormatMicro(totalBalance),
	}
}

type GroupMemberResponse struct {
	Account          string `json:"account"`
	Balance          uint64 `json:"balance"`
	BalanceDisplay   string `json:"balanceDisplay"`
	LastDepositBlock uint64 `json:"lastDepositBlock"`
	JoinedBlock      uint64 `json:"joinedBlock"`
}

func NewGroupMemberResponses(members []domain.GroupMember) []GroupMemberResponse {
	out := make([]GroupMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, GroupMemberResponse{
			Account:          m.Account.String(),
			Balance:          m.Balance,
			BalanceDisplay:   domain.FormatMicro(m.Balance),
			LastDepositBlock: m.LastDepositBlock,
			JoinedBlock:      m.JoinedBlock,
		})
	}
	return out
}
