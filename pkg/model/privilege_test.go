package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type permission struct{ name string }

func (p permission) PrivilegeName() string { return p.name }

func TestPrivilegeRef_Forms(t *testing.T) {
	raw := RawPrivilege("admin")
	named := NamedPrivilege(permission{name: "admin"})
	need := NeedPrivilege(Need{Method: "role", Value: "admin"})

	assert.Equal(t, "admin", raw.Name())
	assert.Equal(t, raw.Name(), named.Name())
	assert.Equal(t, raw.Name(), need.Name())

	assert.Equal(t, "admin", NewPrivilege(raw).Name)
	assert.Equal(t, "admin", NewPrivilege(named).Name)
	assert.Equal(t, "admin", NewPrivilege(need).Name)
}

func TestResolvePrivilege(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string", "manage-builders", "manage-builders"},
		{"need", Need{Method: "role", Value: "manage-builders"}, "manage-builders"},
		{"need pointer", &Need{Method: "role", Value: "manage-builders"}, "manage-builders"},
		{"privilege", Privilege{ID: 3, Name: "manage-builders"}, "manage-builders"},
		{"privilege pointer", &Privilege{ID: 3, Name: "manage-builders"}, "manage-builders"},
		{"named", permission{name: "manage-builders"}, "manage-builders"},
		{"ref", RawPrivilege("manage-builders"), "manage-builders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ResolvePrivilege(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.Name())
		})
	}
}

func TestResolvePrivilege_Unresolvable(t *testing.T) {
	for _, v := range []interface{}{42, nil, struct{ Name string }{"admin"}, (*Need)(nil)} {
		_, err := ResolvePrivilege(v)
		assert.True(t, errors.Is(err, ErrUnresolvablePrivilege), "%T", v)
	}
}

func TestPrivilege_String(t *testing.T) {
	assert.Equal(t, `<Privilege "admin">`, Privilege{Name: "admin"}.String())
}
