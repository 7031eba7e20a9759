package usecases_test

import (
	"context"
	"errors"
	"sync"

	"verifybot/internal/domain"
)

// MockResolver is a mock implementation of AccountResolver.
type MockResolver struct {
	mu      sync.Mutex
	account domain.ResolvedAccount
	err     error
	panics  bool
	calls   int
}

func (m *MockResolver) Resolve(ctx context.Context, username string) (domain.ResolvedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.panics {
		panic("resolver exploded")
	}
	if m.err != nil {
		return domain.ResolvedAccount{}, m.err
	}
	return m.account, nil
}

// MockFetcher is a mock implementation of ProfileFetcher.
type MockFetcher struct {
	mu    sync.Mutex
	attrs domain.ProfileAttributes
	err   error
	calls int
}

func (m *MockFetcher) Fetch(ctx context.Context, account domain.ResolvedAccount) (domain.ProfileAttributes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.ProfileAttributes{}, m.err
	}
	return m.attrs, nil
}

// FakeGuild is an in-memory MemberGateway. Mutations update member state so
// consecutive runs observe earlier ones.
type FakeGuild struct {
	mu      sync.Mutex
	roles   []domain.Role
	members map[string]*domain.MemberState

	memberErr   error
	grantErr    map[string]error // role id -> error
	revokeErr   map[string]error
	nicknameErr error

	Granted  []string
	Revoked  []string
	Nickname []string
}

func NewFakeGuild(roles ...domain.Role) *FakeGuild {
	return &FakeGuild{
		roles:     roles,
		members:   make(map[string]*domain.MemberState),
		grantErr:  make(map[string]error),
		revokeErr: make(map[string]error),
	}
}

func (g *FakeGuild) AddMember(m domain.MemberState) {
	g.members[m.UserID] = &m
}

func (g *FakeGuild) MutationCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Granted) + len(g.Revoked) + len(g.Nickname)
}

func (g *FakeGuild) Member(ctx context.Context, guildID, userID string) (domain.MemberState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.memberErr != nil {
		return domain.MemberState{}, g.memberErr
	}
	m, ok := g.members[userID]
	if !ok {
		return domain.MemberState{}, errors.New("unknown member")
	}
	state := *m
	state.RoleIDs = append([]string(nil), m.RoleIDs...)
	return state, nil
}

func (g *FakeGuild) GuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	return g.roles, nil
}

func (g *FakeGuild) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.grantErr[roleID]; err != nil {
		return err
	}
	g.Granted = append(g.Granted, roleID)
	if m, ok := g.members[userID]; ok {
		m.RoleIDs = append(m.RoleIDs, roleID)
	}
	return nil
}

func (g *FakeGuild) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.revokeErr[roleID]; err != nil {
		return err
	}
	g.Revoked = append(g.Revoked, roleID)
	if m, ok := g.members[userID]; ok {
		kept := m.RoleIDs[:0]
		for _, id := range m.RoleIDs {
			if id != roleID {
				kept = append(kept, id)
			}
		}
		m.RoleIDs = kept
	}
	return nil
}

func (g *FakeGuild) SetNickname(ctx context.Context, guildID, userID, nick string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.nicknameErr != nil {
		return g.nicknameErr
	}
	g.Nickname = append(g.Nickname, nick)
	if m, ok := g.members[userID]; ok {
		m.Nick = nick
	}
	return nil
}

// MockReplier records replies.
type MockReplier struct {
	mu     sync.Mutex
	texts  []string
	embeds []domain.Embed
	err    error
}

func (m *MockReplier) Reply(ctx context.Context, channelID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return m.err
}

func (m *MockReplier) ReplyEmbed(ctx context.Context, channelID string, embed domain.Embed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds = append(m.embeds, embed)
	return m.err
}

func (m *MockReplier) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// MockCounterStore is an in-memory CounterStore.
type MockCounterStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int64
	err    error
}

func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{counts: make(map[string]map[string]int64)}
}

func (m *MockCounterStore) Increment(ctx context.Context, guildID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.counts[guildID] == nil {
		m.counts[guildID] = make(map[string]int64)
	}
	m.counts[guildID][userID]++
	return nil
}

func (m *MockCounterStore) Read(ctx context.Context, guildID, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[guildID][userID], nil
}

func (m *MockCounterStore) ReadAll(ctx context.Context, guildID string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]int64, len(m.counts[guildID]))
	for k, v := range m.counts[guildID] {
		out[k] = v
	}
	return out, nil
}

// MockGuildStore is an in-memory GuildConfigStore.
type MockGuildStore struct {
	mu    sync.Mutex
	names map[string]string
	err   error
}

func (m *MockGuildStore) MinecraftGuild(ctx context.Context, guildID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	name, ok := m.names[guildID]
	return name, ok, nil
}

func (m *MockGuildStore) SetMinecraftGuild(ctx context.Context, guildID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.names == nil {
		m.names = make(map[string]string)
	}
	m.names[guildID] = name
	return nil
}

func strPtr(s string) *string { return &s }

func (m *MockReplier) Embeds() []domain.Embed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Embed(nil), m.embeds...)
}
