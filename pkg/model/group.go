package model

import "fmt"

// MaxGroupNameLength is the width of groups.name
const MaxGroupNameLength = 30

// Group is a named collection of accounts sharing privileges
type Group struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:30" json:"name"`

	// Accounts is not loaded with the group; query members through the
	// groups store, which pages over group_accounts.
	Accounts   []Account   `gorm:"many2many:group_accounts;joinForeignKey:GroupID;joinReferences:AccountGithubID;constraint:OnDelete:CASCADE" json:"-"`
	Privileges []Privilege `gorm:"many2many:group_privileges;joinForeignKey:GroupID;joinReferences:PrivilegeID;constraint:OnDelete:CASCADE" json:"privileges,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

func NewGroup(name string) *Group {
	return &Group{Name: name}
}

func (g Group) String() string {
	return fmt.Sprintf("<Group %d:%q>", g.ID, g.Name)
}
