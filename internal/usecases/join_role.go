package usecases

import (
	"context"
	"fmt"

	"verifybot/internal/domain"
)

// JoinRoleUseCase gives newly joined members the configured join role.
type JoinRoleUseCase struct {
	members  MemberGateway
	roleName string
}

func NewJoinRoleUseCase(members MemberGateway, roleName string) *JoinRoleUseCase {
	return &JoinRoleUseCase{members: members, roleName: roleName}
}

// Execute is a no-op when no join role is configured.
func (uc *JoinRoleUseCase) Execute(ctx context.Context, guildID, userID string) error {
	if uc.roleName == "" {
		return nil
	}
	roles, err := uc.members.GuildRoles(ctx, guildID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	for _, r := range roles {
		if r.Name == uc.roleName {
			return uc.members.GrantRole(ctx, guildID, userID, r.ID)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrRoleMissing, uc.roleName)
}
