package registry_test

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/registry"
	"github.com/clinicore/crm_admin_app/internal/session"
)

// countingClient records every GET and answers with canned payloads.
type countingClient struct {
	mu       sync.Mutex
	gets     map[string]int
	scopes   map[string]string
	payloads map[string]string
}

func newCountingClient() *countingClient {
	return &countingClient{
		gets:     make(map[string]int),
		scopes:   make(map[string]string),
		payloads: make(map[string]string),
	}
}

func (c *countingClient) GetJSON(_ context.Context, path string, query url.Values, out any) error {
	c.mu.Lock()
	c.gets[path]++
	c.scopes[path] = query.Get("companyId")
	payload, ok := c.payloads[path]
	c.mu.Unlock()
	if !ok {
		payload = `[]`
	}
	if raw, isRaw := out.(*json.RawMessage); isRaw {
		*raw = json.RawMessage(payload)
	}
	return nil
}

func (c *countingClient) PostJSON(context.Context, string, any, any) error { return nil }
func (c *countingClient) PutJSON(context.Context, string, any, any) error  { return nil }
func (c *countingClient) DeleteJSON(context.Context, string, any) error    { return nil }

func (c *countingClient) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets[path]
}

func (c *countingClient) scope(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scopes[path]
}

var allPaths = []string{
	"/lead", "/client", "/task", "/priority", "/task-status", "/users",
	"/ledger", "/sub-ledger", "/department", "/department-type", "/department-sub-type",
}

func loggedInSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(nil)
	require.NoError(t, sess.Begin(domain.SessionState{
		Token:     "tok",
		Profile:   domain.UserProfile{UserID: "u1", CompanyID: "co-1"},
		ScopeID:   "co-1",
		RoleGroup: domain.RoleGroupAdmin,
	}))
	return sess
}

func TestScopeSwitch_RefetchesEveryControllerExactlyOnce(t *testing.T) {
	client := newCountingClient()
	sess := loggedInSession(t)
	registry.New(client, sess, sess, validator.New(validator.WithRequiredStructEnabled()))

	require.NoError(t, sess.SwitchScope("co-2"))

	for _, path := range allPaths {
		assert.Equal(t, 1, client.count(path), "path %s", path)
		assert.Equal(t, "co-2", client.scope(path), "path %s", path)
	}
}

func TestScopeSwitch_NoStaleScopeDataSurvives(t *testing.T) {
	client := newCountingClient()
	client.payloads["/ledger"] = `[{"ledgerID":"old-1","companyID":"co-1","name":"Old","type":"income"}]`
	sess := loggedInSession(t)
	reg := registry.New(client, sess, sess, validator.New(validator.WithRequiredStructEnabled()))

	_, err := reg.Ledgers.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reg.Ledgers.Items(), 1)

	client.mu.Lock()
	client.payloads["/ledger"] = `[{"ledgerID":"new-1","companyID":"co-2","name":"New","type":"expense"}]`
	client.mu.Unlock()

	require.NoError(t, sess.SwitchScope("co-2"))

	items := reg.Ledgers.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "new-1", items[0].LedgerID)
}

func TestLogout_CascadeClearsAllControllers(t *testing.T) {
	client := newCountingClient()
	client.payloads["/ledger"] = `[{"ledgerID":"l1","name":"Rent","type":"expense"}]`
	client.payloads["/department"] = `[{"departmentID":"d1","name":"Radiology","code":"RAD"}]`
	sess := loggedInSession(t)
	reg := registry.New(client, sess, sess, validator.New(validator.WithRequiredStructEnabled()))

	_, err := reg.Ledgers.List(context.Background())
	require.NoError(t, err)
	_, err = reg.Departments.List(context.Background())
	require.NoError(t, err)
	reg.Ledgers.ToggleSelectAll()
	require.NotEmpty(t, reg.Ledgers.Selected())

	require.NoError(t, sess.Clear())

	assert.Empty(t, reg.Ledgers.Items())
	assert.Empty(t, reg.Departments.Items())
	assert.Empty(t, reg.Ledgers.Selected())
}
