package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultLocale   = "en"
	DefaultTimezone = "UTC"
)

// Account represents a user imported from GitHub
type Account struct {
	ID           int64     `gorm:"column:github_id;primaryKey;autoIncrement:false" json:"id"`
	Login        string    `gorm:"column:github_login;size:100" json:"login"`
	Name         string    `gorm:"column:github_name;size:100" json:"name"`
	Email        string    `gorm:"column:github_email;size:254" json:"email"`
	Token        string    `gorm:"column:github_access_token;size:100;uniqueIndex" json:"-"`
	AvatarURL    string    `gorm:"column:avatar_url;size:2000" json:"avatar_url"`
	LastLogin    time.Time `gorm:"column:last_login;not null" json:"last_login"`
	RegisterDate time.Time `gorm:"column:register_date;not null" json:"register_date"`
	Locale       string    `gorm:"column:locale;size:10;default:en" json:"locale"`
	Timezone     string    `gorm:"column:timezone;size:25;default:UTC" json:"timezone"`

	Groups     []Group     `gorm:"many2many:group_accounts;joinForeignKey:AccountGithubID;joinReferences:GroupID;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
	Privileges []Privilege `gorm:"many2many:account_privileges;joinForeignKey:AccountGithubID;joinReferences:PrivilegeID;constraint:OnDelete:CASCADE" json:"privileges,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates an account from the attributes GitHub reports for a user.
func NewAccount(id int64, login, name, email, token, avatarURL string) *Account {
	return &Account{
		ID:        id,
		Login:     login,
		Name:      name,
		Email:     email,
		Token:     token,
		AvatarURL: avatarURL,
	}
}

// UpdateLastLogin stamps the account with the current UTC time
func (a *Account) UpdateLastLogin() {
	a.LastLogin = time.Now().UTC()
}

// PrivilegeNames returns the names of the privileges granted directly to the account
func (a *Account) PrivilegeNames() []string {
	names := make([]string, 0, len(a.Privileges))
	for _, p := range a.Privileges {
		names = append(names, p.Name)
	}
	return names
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UTC()
	if a.LastLogin.IsZero() {
		a.LastLogin = now
	}
	if a.RegisterDate.IsZero() {
		a.RegisterDate = now
	}
	if a.Locale == "" {
		a.Locale = DefaultLocale
	}
	if a.Timezone == "" {
		a.Timezone = DefaultTimezone
	}
	return nil
}
