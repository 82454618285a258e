package model

import "fmt"

// MaxPrivilegeNameLength is the width of privileges.name
const MaxPrivilegeNameLength = 50

// Privilege represents a named permission
type Privilege struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:50;not null;uniqueIndex" json:"name"`
}

func (Privilege) TableName() string {
	return "privileges"
}

// NewPrivilege creates a privilege named after ref
func NewPrivilege(ref PrivilegeRef) *Privilege {
	return &Privilege{Name: ref.Name()}
}

func (p Privilege) String() string {
	return fmt.Sprintf("<Privilege %q>", p.Name)
}

// PrivilegeName lets a Privilege be used wherever a Named is accepted.
func (p Privilege) PrivilegeName() string {
	return p.Name
}

// Named is anything carrying a permission name.
type Named interface {
	PrivilegeName() string
}

// Need is a permission requirement of the authorization layer, e.g.
// Need{Method: "role", Value: "admin"}.
type Need struct {
	Method string
	Value  string
}

type refKind int

const (
	refRaw refKind = iota
	refNamed
	refNeed
)

// PrivilegeRef names a privilege in one of the three accepted forms: a raw
// name, a named permission, or a need.
type PrivilegeRef struct {
	kind  refKind
	raw   string
	named Named
	need  Need
}

func RawPrivilege(name string) PrivilegeRef {
	return PrivilegeRef{kind: refRaw, raw: name}
}

func NamedPrivilege(n Named) PrivilegeRef {
	return PrivilegeRef{kind: refNamed, named: n}
}

func NeedPrivilege(n Need) PrivilegeRef {
	return PrivilegeRef{kind: refNeed, need: n}
}

// Name returns the privilege name the reference resolves to.
func (r PrivilegeRef) Name() string {
	switch r.kind {
	case refNamed:
		if r.named == nil {
			return ""
		}
		return r.named.PrivilegeName()
	case refNeed:
		return r.need.Value
	default:
		return r.raw
	}
}

func (r PrivilegeRef) String() string {
	return r.Name()
}

// ResolvePrivilege turns an arbitrary value into a PrivilegeRef. Values that
// are neither a string, a Named, a Need nor a PrivilegeRef yield
// ErrUnresolvablePrivilege.
func ResolvePrivilege(v interface{}) (PrivilegeRef, error) {
	switch t := v.(type) {
	case PrivilegeRef:
		return t, nil
	case string:
		return RawPrivilege(t), nil
	case Need:
		return NeedPrivilege(t), nil
	case *Need:
		if t != nil {
			return NeedPrivilege(*t), nil
		}
	case *Privilege:
		if t != nil {
			return NamedPrivilege(*t), nil
		}
	case Named:
		return NamedPrivilege(t), nil
	}
	return PrivilegeRef{}, fmt.Errorf("%w: %T", ErrUnresolvablePrivilege, v)
}
