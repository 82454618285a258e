package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/db/dbtest"
	"github.com/saltstack/porch/pkg/model"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

const document = `
privileges:
  - admin
  - deploy
groups:
  - name: release
    privileges: [deploy, release]
    members: [jdoe, 43, ghost]
accounts:
  - login: jdoe
    privileges: [admin]
  - login: nobody
    privileges: [admin]
build_servers:
  - address: https://jenkins.example.com
    username: porch
    access_token: ${PORCH_TEST_JENKINS_TOKEN}
`

func TestParse(t *testing.T) {
	t.Setenv("PORCH_TEST_JENKINS_TOKEN", "s3cret")

	doc, err := Parse(strings.NewReader(document))
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "deploy", "release"}, doc.PrivilegeNames())
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, []string{"jdoe", "43", "ghost"}, doc.Groups[0].Members)
	require.Len(t, doc.BuildServers, 1)
	assert.Equal(t, "s3cret", doc.BuildServers[0].AccessToken)
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, doc.PrivilegeNames())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("privilegez:\n  - admin\n"))
	assert.Error(t, err)
}

func TestParseValidates(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"long privilege", "privileges: [" + strings.Repeat("p", 51) + "]"},
		{"unnamed group", "groups:\n  - privileges: [admin]\n"},
		{"long group", "groups:\n  - name: " + strings.Repeat("g", 31) + "\n"},
		{"account without login", "accounts:\n  - privileges: [admin]\n"},
		{"server without token", "build_servers:\n  - address: https://ci\n    username: porch\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Setenv("PORCH_TEST_JENKINS_TOKEN", "s3cret")
	ctx := context.Background()
	db := dbtest.SQLite(t)

	accounts := gormstore.NewAccountsStore(db)
	require.NoError(t, accounts.CreateAccount(ctx, model.NewAccount(42, "jdoe", "", "", "tok-42", "")))
	require.NoError(t, accounts.CreateAccount(ctx, model.NewAccount(43, "rroe", "", "", "tok-43", "")))

	doc, err := Parse(strings.NewReader(document))
	require.NoError(t, err)

	result, err := Apply(ctx, db, doc)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PrivilegesCreated)
	assert.Equal(t, 1, result.GroupsCreated)
	assert.Equal(t, 1, result.BuildServersCreated)
	assert.Len(t, result.Warnings, 2)

	result, err = Apply(ctx, db, doc)
	require.NoError(t, err)
	assert.Zero(t, result.PrivilegesCreated)
	assert.Zero(t, result.GroupsCreated)
	assert.Zero(t, result.BuildServersCreated)

	groups := gormstore.NewGroupsStore(db)
	members, err := groups.CountGroupMembers(ctx, model.KeyName("release"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), members)

	names, err := accounts.EffectivePrivileges(ctx, model.KeyName("jdoe"))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "deploy", "release"}, names)

	names, err = accounts.EffectivePrivileges(ctx, model.KeyID(43))
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy", "release"}, names)

	server, err := gormstore.NewBuildServersStore(db).FromAddress(ctx, "https://jenkins.example.com")
	require.NoError(t, err)
	require.NotNil(t, server)
	assert.Equal(t, "s3cret", server.AccessToken)
}
