package model

// GroupAccount is a row of group_accounts
type GroupAccount struct {
	GroupID         int64 `gorm:"column:group_id;primaryKey"`
	AccountGithubID int64 `gorm:"column:account_github_id;primaryKey"`
}

func (GroupAccount) TableName() string {
	return GroupAccountsTable
}

// GroupPrivilege is a row of group_privileges
type GroupPrivilege struct {
	GroupID     int64 `gorm:"column:group_id;primaryKey"`
	PrivilegeID int64 `gorm:"column:privilege_id;primaryKey"`
}

func (GroupPrivilege) TableName() string {
	return GroupPrivilegesTable
}

// AccountPrivilege is a row of account_privileges
type AccountPrivilege struct {
	AccountGithubID int64 `gorm:"column:account_github_id;primaryKey"`
	PrivilegeID     int64 `gorm:"column:privilege_id;primaryKey"`
}

func (AccountPrivilege) TableName() string {
	return AccountPrivilegesTable
}
