package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/saltstack/porch/pkg/model"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	tokens       map[string]string

	accounts   *gormstore.AccountsStore
	groups     *gormstore.GroupsStore
	privileges *gormstore.PrivilegesStore
	servers    *gormstore.BuildServersStore
	builders   *gormstore.BuildersStore
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:         tc,
		tokens:     make(map[string]string),
		accounts:   gormstore.NewAccountsStore(tc.DB),
		groups:     gormstore.NewGroupsStore(tc.DB),
		privileges: gormstore.NewPrivilegesStore(tc.DB),
		servers:    gormstore.NewBuildServersStore(tc.DB),
		builders:   gormstore.NewBuildersStore(tc.DB),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.resetDatabase()
	})

	// Background steps
	sc.Step(`^a Porch server is running$`, s.aPorchServerIsRunning)
	sc.Step(`^an account "([^"]*)" with id (\d+) and token "([^"]*)" exists$`, s.anAccountExists)
	sc.Step(`^a privilege "([^"]*)" exists$`, s.aPrivilegeExists)
	sc.Step(`^account "([^"]*)" holds privilege "([^"]*)"$`, s.accountHoldsPrivilege)
	sc.Step(`^a group "([^"]*)" exists$`, s.aGroupExists)
	sc.Step(`^group "([^"]*)" holds privilege "([^"]*)"$`, s.groupHoldsPrivilege)
	sc.Step(`^account "([^"]*)" is a member of group "([^"]*)"$`, s.accountIsMemberOfGroup)
	sc.Step(`^a build server "([^"]*)" exists with builders "([^"]*)"$`, s.aBuildServerExistsWithBuilders)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Request steps
	sc.Step(`^I send a (GET|POST|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the JSON list should have (\d+) items?$`, s.theJSONListShouldHaveItems)
	sc.Step(`^the response body should not leak access tokens$`, s.theResponseBodyShouldNotLeakAccessTokens)

	// Database assertions
	sc.Step(`^group "([^"]*)" should not exist$`, s.groupShouldNotExist)
	sc.Step(`^group "([^"]*)" should exist$`, s.groupShouldExist)
}

func (s *StepsContext) resetDatabase() error {
	s.authToken = ""
	s.response = nil
	s.responseBody = nil
	return s.tc.DB.Exec(`TRUNCATE builders, build_servers, group_privileges, group_accounts, groups,
		account_privileges, accounts, privileges RESTART IDENTITY CASCADE`).Error
}

// Background steps

func (s *StepsContext) aPorchServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAccountExists(login string, id int64, token string) error {
	account := model.NewAccount(id, login, login, login+"@example.com", token, "")
	if err := s.accounts.CreateAccount(context.Background(), account); err != nil {
		return fmt.Errorf("failed to create account %s: %w", login, err)
	}
	s.tokens[login] = token
	return nil
}

func (s *StepsContext) aPrivilegeExists(name string) error {
	_, err := s.privileges.EnsurePrivilege(context.Background(), model.RawPrivilege(name))
	return err
}

func (s *StepsContext) accountHoldsPrivilege(login, privilege string) error {
	if err := s.aPrivilegeExists(privilege); err != nil {
		return err
	}
	return s.accounts.GrantPrivilege(context.Background(), model.KeyName(login), model.RawPrivilege(privilege))
}

func (s *StepsContext) aGroupExists(name string) error {
	return s.groups.CreateGroup(context.Background(), model.NewGroup(name))
}

func (s *StepsContext) groupHoldsPrivilege(group, privilege string) error {
	if err := s.aPrivilegeExists(privilege); err != nil {
		return err
	}
	return s.groups.GrantPrivilege(context.Background(), model.KeyName(group), model.RawPrivilege(privilege))
}

func (s *StepsContext) accountIsMemberOfGroup(login, group string) error {
	return s.groups.AddMember(context.Background(), model.KeyName(group), model.KeyName(login))
}

func (s *StepsContext) aBuildServerExistsWithBuilders(address, names string) error {
	ctx := context.Background()
	server := model.NewBuildServer(address, "jenkins", "secret")
	if err := s.servers.CreateBuildServer(ctx, server); err != nil {
		return fmt.Errorf("failed to create build server: %w", err)
	}
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		builder := model.NewBuilder(name, name, "", true)
		builder.ServerID = server.ID
		if err := s.builders.SaveBuilder(ctx, builder); err != nil {
			return fmt.Errorf("failed to save builder %s: %w", name, err)
		}
	}
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(login string) error {
	token, ok := s.tokens[login]
	if !ok {
		return fmt.Errorf("no account %q has been created", login)
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

// Request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "token "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theJSONFieldShouldBe(field, expected string) error {
	var body map[string]any
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	value, ok := body[field]
	if !ok {
		return fmt.Errorf("field %q missing from %s", field, string(s.responseBody))
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theJSONListShouldHaveItems(count int) error {
	var body []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not a JSON list: %w", err)
	}
	if len(body) != count {
		return fmt.Errorf("expected %d items, got %d: %s", count, len(body), string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldNotLeakAccessTokens() error {
	body := string(s.responseBody)
	for _, needle := range []string{"access_token", "secret"} {
		if strings.Contains(body, needle) {
			return fmt.Errorf("response exposes %q: %s", needle, body)
		}
	}
	return nil
}

// Database assertions

func (s *StepsContext) groupShouldNotExist(name string) error {
	group, err := s.groups.FetchGroup(context.Background(), model.KeyName(name))
	if err != nil {
		return err
	}
	if group != nil {
		return fmt.Errorf("group %s still exists", name)
	}
	return nil
}

func (s *StepsContext) groupShouldExist(name string) error {
	group, err := s.groups.FetchGroup(context.Background(), model.KeyName(name))
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s does not exist", name)
	}
	return nil
}
