package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saltstack/porch/pkg/model"
)

// Document is a parsed seed file
type Document struct {
	Privileges   []string      `yaml:"privileges"`
	Groups       []Group       `yaml:"groups"`
	Accounts     []Account     `yaml:"accounts"`
	BuildServers []BuildServer `yaml:"build_servers"`
}

// Group seeds a group with its privileges and members
type Group struct {
	Name       string   `yaml:"name"`
	Privileges []string `yaml:"privileges"`
	// Members are GitHub logins or numeric GitHub ids; an all-digit login
	// takes the "name:" prefix
	Members []string `yaml:"members"`
}

// Account grants privileges to an existing account
type Account struct {
	Login      string   `yaml:"login"`
	Privileges []string `yaml:"privileges"`
}

// BuildServer seeds a Jenkins master. Username and access token are
// expanded from the environment.
type BuildServer struct {
	Address     string `yaml:"address"`
	Username    string `yaml:"username"`
	AccessToken string `yaml:"access_token"`
}

// Parse decodes and validates a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}

	var doc Document
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed: %w", err)
		}
	}

	for i := range doc.BuildServers {
		doc.BuildServers[i].Username = os.ExpandEnv(doc.BuildServers[i].Username)
		doc.BuildServers[i].AccessToken = os.ExpandEnv(doc.BuildServers[i].AccessToken)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile parses the seed document at path
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks names against the column sizes of the schema
func (d *Document) Validate() error {
	var errs []error

	checkPrivilege := func(where, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%s: empty privilege name", where))
		} else if len(name) > model.MaxPrivilegeNameLength {
			errs = append(errs, fmt.Errorf("%s: privilege name %q longer than %d characters", where, name, model.MaxPrivilegeNameLength))
		}
	}

	for _, p := range d.Privileges {
		checkPrivilege("privileges", p)
	}
	for i, g := range d.Groups {
		where := fmt.Sprintf("groups[%d]", i)
		if g.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else if len(g.Name) > model.MaxGroupNameLength {
			errs = append(errs, fmt.Errorf("%s: name %q longer than %d characters", where, g.Name, model.MaxGroupNameLength))
		}
		for _, p := range g.Privileges {
			checkPrivilege(where, p)
		}
	}
	for i, a := range d.Accounts {
		where := fmt.Sprintf("accounts[%d]", i)
		if a.Login == "" {
			errs = append(errs, fmt.Errorf("%s: login is required", where))
		}
		for _, p := range a.Privileges {
			checkPrivilege(where, p)
		}
	}
	for i, s := range d.BuildServers {
		where := fmt.Sprintf("build_servers[%d]", i)
		if s.Address == "" {
			errs = append(errs, fmt.Errorf("%s: address is required", where))
		}
		if s.Username == "" || s.AccessToken == "" {
			errs = append(errs, fmt.Errorf("%s: username and access_token are required", where))
		}
	}

	return errors.Join(errs...)
}

// PrivilegeNames returns every privilege the document mentions, in order of
// first mention
func (d *Document) PrivilegeNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	add(d.Privileges)
	for _, g := range d.Groups {
		add(g.Privileges)
	}
	for _, a := range d.Accounts {
		add(a.Privileges)
	}
	return names
}
