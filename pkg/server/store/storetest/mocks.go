// Package storetest provides testify mocks of the store interfaces.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

var (
	_ store.AccountsStore     = (*MockAccountsStore)(nil)
	_ store.GroupsStore       = (*MockGroupsStore)(nil)
	_ store.PrivilegesStore   = (*MockPrivilegesStore)(nil)
	_ store.BuildServersStore = (*MockBuildServersStore)(nil)
	_ store.BuildersStore     = (*MockBuildersStore)(nil)
	_ store.HealthStore       = (*MockHealthStore)(nil)
)

// MockAccountsStore implements store.AccountsStore for testing using testify/mock
type MockAccountsStore struct {
	mock.Mock
}

func NewMockAccountsStore() *MockAccountsStore {
	return &MockAccountsStore{}
}

func (m *MockAccountsStore) FetchAccount(ctx context.Context, key model.Key) (*model.Account, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountsStore) FetchAccountByToken(ctx context.Context, token string) (*model.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountsStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAccountsStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountsStore) SaveAccount(ctx context.Context, account *model.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountsStore) TouchLastLogin(ctx context.Context, account *model.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountsStore) DeleteAccount(ctx context.Context, key model.Key) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockAccountsStore) GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return m.Called(ctx, key, ref).Error(0)
}

func (m *MockAccountsStore) RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return m.Called(ctx, key, ref).Error(0)
}

func (m *MockAccountsStore) EffectivePrivileges(ctx context.Context, key model.Key) ([]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountsStore) HasPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) (bool, error) {
	args := m.Called(ctx, key, ref)
	return args.Bool(0), args.Error(1)
}

// MockGroupsStore implements store.GroupsStore for testing using testify/mock
type MockGroupsStore struct {
	mock.Mock
}

func NewMockGroupsStore() *MockGroupsStore {
	return &MockGroupsStore{}
}

func (m *MockGroupsStore) FetchGroup(ctx context.Context, key model.Key) (*model.Group, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupsStore) ListGroups(ctx context.Context) ([]model.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupsStore) CreateGroup(ctx context.Context, group *model.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupsStore) DeleteGroup(ctx context.Context, key model.Key) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockGroupsStore) AddMember(ctx context.Context, group, account model.Key) error {
	return m.Called(ctx, group, account).Error(0)
}

func (m *MockGroupsStore) RemoveMember(ctx context.Context, group, account model.Key) error {
	return m.Called(ctx, group, account).Error(0)
}

func (m *MockGroupsStore) FetchGroupMembers(ctx context.Context, key model.Key, limit, offset int) ([]model.Account, error) {
	args := m.Called(ctx, key, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockGroupsStore) CountGroupMembers(ctx context.Context, key model.Key) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupsStore) GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return m.Called(ctx, key, ref).Error(0)
}

func (m *MockGroupsStore) RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return m.Called(ctx, key, ref).Error(0)
}

// MockPrivilegesStore implements store.PrivilegesStore for testing using testify/mock
type MockPrivilegesStore struct {
	mock.Mock
}

func NewMockPrivilegesStore() *MockPrivilegesStore {
	return &MockPrivilegesStore{}
}

func (m *MockPrivilegesStore) FetchPrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Privilege), args.Error(1)
}

func (m *MockPrivilegesStore) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Privilege), args.Error(1)
}

func (m *MockPrivilegesStore) CreatePrivilege(ctx context.Context, privilege *model.Privilege) error {
	return m.Called(ctx, privilege).Error(0)
}

func (m *MockPrivilegesStore) EnsurePrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Privilege), args.Error(1)
}

func (m *MockPrivilegesStore) DeletePrivilege(ctx context.Context, ref model.PrivilegeRef) error {
	return m.Called(ctx, ref).Error(0)
}

// MockBuildServersStore implements store.BuildServersStore for testing using testify/mock
type MockBuildServersStore struct {
	mock.Mock
}

func NewMockBuildServersStore() *MockBuildServersStore {
	return &MockBuildServersStore{}
}

func (m *MockBuildServersStore) FetchBuildServer(ctx context.Context, key model.Key) (*model.BuildServer, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuildServer), args.Error(1)
}

func (m *MockBuildServersStore) FromAddress(ctx context.Context, address string) (*model.BuildServer, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuildServer), args.Error(1)
}

func (m *MockBuildServersStore) ListBuildServers(ctx context.Context) ([]model.BuildServer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BuildServer), args.Error(1)
}

func (m *MockBuildServersStore) CreateBuildServer(ctx context.Context, server *model.BuildServer) error {
	return m.Called(ctx, server).Error(0)
}

func (m *MockBuildServersStore) DeleteBuildServer(ctx context.Context, key model.Key) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockBuildServersStore) FetchBuilders(ctx context.Context, serverID int64, includeRemoved bool) ([]model.Builder, error) {
	args := m.Called(ctx, serverID, includeRemoved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Builder), args.Error(1)
}

// MockBuildersStore implements store.BuildersStore for testing using testify/mock
type MockBuildersStore struct {
	mock.Mock
}

func NewMockBuildersStore() *MockBuildersStore {
	return &MockBuildersStore{}
}

func (m *MockBuildersStore) FetchBuilder(ctx context.Context, name string) (*model.Builder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Builder), args.Error(1)
}

func (m *MockBuildersStore) SaveBuilder(ctx context.Context, builder *model.Builder) error {
	return m.Called(ctx, builder).Error(0)
}

func (m *MockBuildersStore) MarkRemoved(ctx context.Context, serverID int64, keep []string) (int64, error) {
	args := m.Called(ctx, serverID, keep)
	return args.Get(0).(int64), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
