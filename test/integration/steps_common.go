package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
	"github.com/doodlesbykumbi/admin-in-go/pkg/config"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	server       *ServerInstance
	response     *http.Response
	responseBody []byte
	authToken    string
	remembered   map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:         tc,
		remembered: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.server != nil {
			s.server.Stop()
		}
		return ctx, err
	})

	// Background steps
	sc.Step(`^an admin server is running$`, s.anAdminServerIsRunning)
	sc.Step(`^a superuser "([^"]*)" with password "([^"]*)" exists$`, s.aSuperuserExists)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedInAs)

	// Authentication steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInAs)
	sc.Step(`^I use an expired token$`, s.iUseAnExpiredToken)
	sc.Step(`^I forget my token$`, s.iForgetMyToken)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, s.iRememberTheResponseField)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response error code should be "([^"]*)"$`, s.theResponseErrorCodeShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response should be a list of (\d+) records?$`, s.theResponseShouldBeAListOf)

	// Database steps
	sc.Step(`^the stored password of "([^"]*)" should match "([^"]*)"$`, s.theStoredPasswordShouldMatch)
	sc.Step(`^the table "([^"]*)" should have (\d+) rows?$`, s.theTableShouldHaveRows)
}

// Background steps

func (s *StepsContext) anAdminServerIsRunning() error {
	if err := s.tc.Reset(); err != nil {
		return fmt.Errorf("failed to reset tables: %w", err)
	}
	server, err := StartServer(s.tc)
	if err != nil {
		return err
	}
	s.server = server
	return nil
}

func (s *StepsContext) insertUser(username, password string, superuser bool) error {
	digest, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.tc.DB.Create(&User{
		Username:       username,
		HashedPassword: digest,
		IsSuperuser:    superuser,
	}).Error
}

func (s *StepsContext) aSuperuserExists(username, password string) error {
	return s.insertUser(username, password, true)
}

func (s *StepsContext) aUserExists(username, password string) error {
	return s.insertUser(username, password, false)
}

func (s *StepsContext) iAmLoggedInAs(username, password string) error {
	if err := s.iLogInAs(username, password); err != nil {
		return err
	}
	if s.authToken == "" {
		return fmt.Errorf("login as %s failed with status %d: %s", username, s.response.StatusCode, s.responseBody)
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iLogInAs(username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	if err := s.do("POST", "/login", body); err != nil {
		return err
	}

	s.authToken = ""
	if s.response.StatusCode == http.StatusOK {
		var login struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(s.responseBody, &login); err != nil {
			return fmt.Errorf("invalid login response: %w", err)
		}
		s.authToken = login.AccessToken
	}
	return nil
}

func (s *StepsContext) iUseAnExpiredToken() error {
	issuer := auth.NewIssuer([]byte(s.tc.SecretKey), time.Duration(config.DefaultTokenExpirationMinutes)*time.Minute).
		WithClock(func() time.Time { return time.Now().Add(-24 * time.Hour) })
	token, _, err := issuer.Issue("1", true)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iForgetMyToken() error {
	s.authToken = ""
	return nil
}

// Request steps

func (s *StepsContext) expand(path string) string {
	for name, value := range s.remembered {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	return path
}

func (s *StepsContext) do(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, s.server.ServerURL+s.expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, []byte(s.expand(body.Content)))
}

func (s *StepsContext) responseObject() (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(s.responseBody, &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w: %s", err, s.responseBody)
	}
	return obj, nil
}

func (s *StepsContext) iRememberTheResponseField(field, name string) error {
	obj, err := s.responseObject()
	if err != nil {
		return err
	}
	value, ok := obj[field]
	if !ok {
		return fmt.Errorf("response has no field %q: %s", field, s.responseBody)
	}
	s.remembered[name] = fmt.Sprint(value)
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseErrorCodeShouldBe(code string) error {
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &envelope); err != nil {
		return fmt.Errorf("response is not an error envelope: %w: %s", err, s.responseBody)
	}
	if envelope.Error.Code != code {
		return fmt.Errorf("expected error code %q, got %q", code, envelope.Error.Code)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	obj, err := s.responseObject()
	if err != nil {
		return err
	}
	value, ok := obj[field]
	if !ok {
		return fmt.Errorf("response has no field %q: %s", field, s.responseBody)
	}
	if actual := fmt.Sprint(value); actual != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", field, s.expand(expected), actual)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAListOf(count int) error {
	var list []map[string]any
	if err := json.Unmarshal(s.responseBody, &list); err != nil {
		return fmt.Errorf("response is not a JSON array: %w: %s", err, s.responseBody)
	}
	if len(list) != count {
		return fmt.Errorf("expected %d records, got %d", count, len(list))
	}
	return nil
}

// Database steps

func (s *StepsContext) theStoredPasswordShouldMatch(username, password string) error {
	var user User
	if err := s.tc.DB.Where(&User{Username: username}).First(&user).Error; err != nil {
		return err
	}
	if user.HashedPassword == password {
		return fmt.Errorf("password of %s is stored in clear text", username)
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return fmt.Errorf("stored digest of %s does not match %q", username, password)
	}
	return nil
}

func (s *StepsContext) theTableShouldHaveRows(table string, count int) error {
	var n int64
	if err := s.tc.DB.Table(table).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d rows in %s, got %d", count, table, n)
	}
	return nil
}
