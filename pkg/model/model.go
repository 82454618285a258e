package model

import (
	"errors"
	"strconv"
	"strings"
)

// Join table names
const (
	GroupAccountsTable     = "group_accounts"
	GroupPrivilegesTable   = "group_privileges"
	AccountPrivilegesTable = "account_privileges"
)

// ErrUnresolvablePrivilege is returned when a value cannot be turned into a
// privilege name.
var ErrUnresolvablePrivilege = errors.New("value does not name a privilege")

// All returns every model, parents before children, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Privilege{},
		&Account{},
		&Group{},
		&BuildServer{},
		&Builder{},
	}
}

// Key identifies a record either by numeric id or by its natural key
// (login for accounts, name for groups, address for build servers).
type Key struct {
	ID   int64
	Name string
	byID bool
}

// KeyID returns a key matching on the primary key.
func KeyID(id int64) Key {
	return Key{ID: id, byID: true}
}

// KeyName returns a key matching on the natural key.
func KeyName(name string) Key {
	return Key{Name: name}
}

// NamePrefix marks input that ParseKey must read as a natural key, for
// GitHub logins that are all digits.
const NamePrefix = "name:"

// ParseKey treats purely numeric input as an id and anything else as a
// natural key. Input starting with NamePrefix is always a natural key.
func ParseKey(s string) Key {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, NamePrefix); ok {
		return KeyName(name)
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KeyID(id)
	}
	return KeyName(s)
}

// IsID reports whether the key matches on the primary key.
func (k Key) IsID() bool {
	return k.byID
}

func (k Key) String() string {
	if k.byID {
		return strconv.FormatInt(k.ID, 10)
	}
	return k.Name
}
