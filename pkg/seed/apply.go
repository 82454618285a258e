package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/model"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

// Result counts what applying a seed created
type Result struct {
	PrivilegesCreated   int      `json:"privileges_created"`
	GroupsCreated       int      `json:"groups_created"`
	BuildServersCreated int      `json:"build_servers_created"`
	Warnings            []string `json:"warnings,omitempty"`
}

func (r *Result) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Log.Warn(msg)
}

// Apply writes a seed document in a single transaction
func Apply(ctx context.Context, db *gorm.DB, doc *Document) (*Result, error) {
	result := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		privileges := gormstore.NewPrivilegesStore(tx)
		groups := gormstore.NewGroupsStore(tx)
		accounts := gormstore.NewAccountsStore(tx)
		servers := gormstore.NewBuildServersStore(tx)

		for _, name := range doc.PrivilegeNames() {
			ref := model.RawPrivilege(name)
			existing, err := privileges.FetchPrivilege(ctx, ref)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := privileges.CreatePrivilege(ctx, model.NewPrivilege(ref)); err != nil {
				return fmt.Errorf("failed to create privilege %s: %w", name, err)
			}
			result.PrivilegesCreated++
		}

		for _, g := range doc.Groups {
			group, err := groups.FetchGroup(ctx, model.KeyName(g.Name))
			if err != nil {
				return err
			}
			if group == nil {
				group = model.NewGroup(g.Name)
				if err := groups.CreateGroup(ctx, group); err != nil {
					return fmt.Errorf("failed to create group %s: %w", g.Name, err)
				}
				result.GroupsCreated++
			}

			key := model.KeyID(group.ID)
			for _, p := range g.Privileges {
				if err := groups.GrantPrivilege(ctx, key, model.RawPrivilege(p)); err != nil {
					return fmt.Errorf("failed to grant %s to group %s: %w", p, g.Name, err)
				}
			}

			for _, member := range g.Members {
				account, err := accounts.FetchAccount(ctx, model.ParseKey(member))
				if err != nil {
					return err
				}
				if account == nil {
					result.warn("group %s: no account %s, skipping member", g.Name, member)
					continue
				}
				if err := groups.AddMember(ctx, key, model.KeyID(account.ID)); err != nil {
					return fmt.Errorf("failed to add %s to group %s: %w", member, g.Name, err)
				}
			}
		}

		for _, a := range doc.Accounts {
			account, err := accounts.FetchAccount(ctx, model.KeyName(a.Login))
			if err != nil {
				return err
			}
			if account == nil {
				result.warn("no account %s, skipping its privileges", a.Login)
				continue
			}
			for _, p := range a.Privileges {
				if err := accounts.GrantPrivilege(ctx, model.KeyID(account.ID), model.RawPrivilege(p)); err != nil {
					return fmt.Errorf("failed to grant %s to %s: %w", p, a.Login, err)
				}
			}
		}

		for _, s := range doc.BuildServers {
			existing, err := servers.FromAddress(ctx, s.Address)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := servers.CreateBuildServer(ctx, model.NewBuildServer(s.Address, s.Username, s.AccessToken)); err != nil {
				return fmt.Errorf("failed to create build server %s: %w", s.Address, err)
			}
			result.BuildServersCreated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
