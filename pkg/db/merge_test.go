package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/db/dbtest"
	"github.com/saltstack/porch/pkg/model"
)

func TestMergeAssignsOnlyDifferences(t *testing.T) {
	account := model.NewAccount(1, "jdoe", "Jane", "jane@example.com", "tok", "")

	changed, err := New().Merge(account, Values{
		"login":        "jdoe",
		"github_name":  "Jane Doe",
		"avatar_url":   "https://avatars.example.com/1",
		"id":           int64(99),
		"csrf_token":   "ignored",
		"github_email": "jane@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AvatarURL", "Name"}, changed)
	assert.Equal(t, "Jane Doe", account.Name)
	assert.Equal(t, int64(1), account.ID)

	changed, err = New().Merge(account, Values{"name": "Jane Doe", "avatar_url": "https://avatars.example.com/1"})
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestMergeConvertsCompatibleValues(t *testing.T) {
	builder := model.NewBuilder("salt-pr", "Salt PRs", "", true)

	changed, err := New().Merge(builder, Values{"removed": true, "builder_id": 3})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Removed", "ServerID"}, changed)
	assert.True(t, builder.Removed)
	assert.Equal(t, int64(3), builder.ServerID)
}

func TestMergeRejectsBadInput(t *testing.T) {
	_, err := New().Merge(&model.Account{}, Values{"locale": 5})
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = New().Merge(&model.Account{}, Values{"privileges": "admin"})
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = New().Merge(model.Account{}, Values{})
	assert.ErrorIs(t, err, ErrNotAModel)

	var nilAccount *model.Account
	_, err = New().Merge(nilAccount, Values{})
	assert.ErrorIs(t, err, ErrNotAModel)
}

func TestUpdateFromFormWritesChangedColumnOnly(t *testing.T) {
	conn, mock := dbtest.Mock(t)
	database := Open(conn)

	account := model.NewAccount(1, "jdoe", "Jane", "jane@example.com", "tok", "")
	form := Values{"login": "jdoe", "name": "Jane Doe"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "github_name"=$1 WHERE "github_id" = $2`)).
		WithArgs("Jane Doe", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := database.UpdateFromForm(context.Background(), account, form)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, changed)

	// Unchanged form: no statement at all.
	changed, err = database.UpdateFromForm(context.Background(), account, form)
	require.NoError(t, err)
	assert.Empty(t, changed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFromFormReplacesCollections(t *testing.T) {
	conn := dbtest.SQLite(t)
	database := Open(conn)
	ctx := context.Background()

	admin := model.NewPrivilege(model.RawPrivilege("admin"))
	deploy := model.NewPrivilege(model.RawPrivilege("deploy"))
	require.NoError(t, conn.Create(admin).Error)
	require.NoError(t, conn.Create(deploy).Error)

	account := model.NewAccount(1, "jdoe", "Jane", "", "tok", "")
	account.Privileges = []model.Privilege{*admin}
	require.NoError(t, conn.Create(account).Error)

	changed, err := database.UpdateFromForm(ctx, account, Values{"privileges": []*model.Privilege{admin, deploy}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Privileges"}, changed)

	var reloaded model.Account
	require.NoError(t, conn.Preload("Privileges").First(&reloaded, 1).Error)
	assert.ElementsMatch(t, []string{"admin", "deploy"}, reloaded.PrivilegeNames())

	// Same members in another order is the same set.
	changed, err = database.UpdateFromForm(ctx, &reloaded, Values{"privileges": []model.Privilege{*deploy, *admin}})
	require.NoError(t, err)
	assert.Empty(t, changed)

	changed, err = database.UpdateFromForm(ctx, &reloaded, Values{"privileges": []model.Privilege{*deploy}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Privileges"}, changed)

	var fresh model.Account
	require.NoError(t, conn.Preload("Privileges").First(&fresh, 1).Error)
	assert.Equal(t, []string{"deploy"}, fresh.PrivilegeNames())

	var privileges int64
	require.NoError(t, conn.Model(&model.Privilege{}).Count(&privileges).Error)
	assert.Equal(t, int64(2), privileges)
}

func TestUpdateFromFormRestoresEntryOnFailure(t *testing.T) {
	conn, mock := dbtest.Mock(t)
	database := Open(conn)

	account := model.NewAccount(1, "jdoe", "Jane", "jane@example.com", "tok", "")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "github_name"=$1 WHERE "github_id" = $2`)).
		WithArgs("Jane Doe", int64(1)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	changed, err := database.UpdateFromForm(context.Background(), account, Values{"name": "Jane Doe"})
	assert.Error(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, "Jane", account.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFromFormRestoresCollectionOnFailure(t *testing.T) {
	conn := dbtest.SQLite(t)
	database := Open(conn)

	server := model.NewBuildServer("https://jenkins.example.com", "jenkins", "secret")
	server.Builders = []model.Builder{*model.NewBuilder("salt-pr", "Salt PRs", "", true)}
	require.NoError(t, conn.Create(server).Error)

	// Detaching a builder nulls builders.builder_id, which is NOT NULL.
	changed, err := database.UpdateFromForm(context.Background(), server, Values{"builders": []model.Builder{}})
	assert.Error(t, err)
	assert.Empty(t, changed)
	require.Len(t, server.Builders, 1)
	assert.Equal(t, "salt-pr", server.Builders[0].Name)

	var builders int64
	require.NoError(t, conn.Model(&model.Builder{}).Count(&builders).Error)
	assert.Equal(t, int64(1), builders)
}
