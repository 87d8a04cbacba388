package controller_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/controller"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
)

// --- Mock RESTClient ---
type MockRESTClient struct {
	mock.Mock
}

func (m *MockRESTClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query, out)
	return args.Error(0)
}

func (m *MockRESTClient) PostJSON(ctx context.Context, path string, body any, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockRESTClient) PutJSON(ctx context.Context, path string, body any, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockRESTClient) DeleteJSON(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path, out)
	return args.Error(0)
}

// --- Fake session ---
type fakeSession struct {
	scopeID string
}

func (f *fakeSession) Token() string                        { return "test-token" }
func (f *fakeSession) ScopeID() string                      { return f.scopeID }
func (f *fakeSession) RoleGroup() domain.RoleGroup          { return domain.RoleGroupAdmin }
func (f *fakeSession) Profile() (domain.UserProfile, bool)  { return domain.UserProfile{}, true }
func (f *fakeSession) Authenticated() bool                  { return true }

// listPayload installs raw JSON as the GetJSON result.
func listPayload(raw string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		out := args.Get(3).(*json.RawMessage)
		*out = json.RawMessage(raw)
	}
}

// --- Test Suite ---
type ControllerTestSuite struct {
	suite.Suite
	mockClient *MockRESTClient
	session    *fakeSession
	ctrl       *controller.Controller[domain.Ledger]
}

func (suite *ControllerTestSuite) SetupTest() {
	suite.mockClient = new(MockRESTClient)
	suite.session = &fakeSession{scopeID: "co-1"}
	suite.ctrl = controller.New(controller.Descriptor[domain.Ledger]{
		Name: "ledger",
		Path: "/ledger",
		ID:   func(l domain.Ledger) string { return l.LedgerID },
	}, suite.mockClient, suite.session, validator.New(validator.WithRequiredStructEnabled()))
}

func (suite *ControllerTestSuite) TestList_Success() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", url.Values{"companyId": {"co-1"}}, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l1","name":"Rent","type":"expense"},{"ledgerID":"l2","name":"Consultation","type":"income"}]`)).
		Return(nil).Once()

	items, err := suite.ctrl.List(ctx)

	suite.Require().NoError(err)
	suite.Len(items, 2)
	suite.Equal("l1", items[0].LedgerID)
	suite.Len(suite.ctrl.Items(), 2)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *ControllerTestSuite) TestList_UnexpectedShapeNormalizesToEmpty() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`{"totally":"unexpected"}`)).
		Return(nil).Once()

	items, err := suite.ctrl.List(ctx)

	suite.Require().NoError(err)
	suite.Empty(items)
}

func (suite *ControllerTestSuite) TestList_NoScope() {
	suite.session.scopeID = ""

	_, err := suite.ctrl.List(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoSession)
	suite.mockClient.AssertNotCalled(suite.T(), "GetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ControllerTestSuite) TestList_ClearsSelection() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l1","name":"Rent","type":"expense"}]`)).
		Return(nil).Twice()

	_, err := suite.ctrl.List(ctx)
	suite.Require().NoError(err)
	suite.ctrl.ToggleSelect("l1")
	suite.Require().Len(suite.ctrl.Selected(), 1)

	_, err = suite.ctrl.List(ctx)
	suite.Require().NoError(err)
	suite.Empty(suite.ctrl.Selected())
}

func (suite *ControllerTestSuite) TestCreate_RefetchesAfterMutation() {
	ctx := context.Background()
	record := domain.Ledger{CompanyID: "co-1", Name: "Rent", Type: domain.LedgerTypeExpense}

	suite.mockClient.On("PostJSON", ctx, "/ledger", record, nil).Return(nil).Once()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l9","name":"Rent","type":"expense"}]`)).
		Return(nil).Once()

	err := suite.ctrl.Create(ctx, record)

	suite.Require().NoError(err)
	items := suite.ctrl.Items()
	suite.Require().Len(items, 1)
	suite.Equal("l9", items[0].LedgerID)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *ControllerTestSuite) TestCreate_ValidationFailureMakesNoNetworkCall() {
	err := suite.ctrl.Create(context.Background(), domain.Ledger{Name: "", Type: domain.LedgerTypeIncome})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.ctrl.Items())
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockClient.AssertNotCalled(suite.T(), "GetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ControllerTestSuite) TestCreate_InvalidLedgerType() {
	err := suite.ctrl.Create(context.Background(), domain.Ledger{Name: "Rent", Type: "bogus"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ControllerTestSuite) TestUpdate_FullReplace() {
	ctx := context.Background()
	record := domain.Ledger{CompanyID: "co-1", Name: "Rent Revised", Type: domain.LedgerTypeExpense}

	suite.mockClient.On("PutJSON", ctx, "/ledger/l1", record, nil).Return(nil).Once()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l1","name":"Rent Revised","type":"expense"}]`)).
		Return(nil).Once()

	err := suite.ctrl.Update(ctx, "l1", record)

	suite.Require().NoError(err)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *ControllerTestSuite) TestDelete_RemovesIdFromSelection() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l1","name":"Rent","type":"expense"},{"ledgerID":"l2","name":"Fees","type":"income"}]`)).
		Return(nil).Once()
	_, err := suite.ctrl.List(ctx)
	suite.Require().NoError(err)
	suite.ctrl.ToggleSelect("l1")

	suite.mockClient.On("DeleteJSON", ctx, "/ledger/l1", nil).Return(nil).Once()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l2","name":"Fees","type":"income"}]`)).
		Return(nil).Once()

	err = suite.ctrl.Delete(ctx, "l1")

	suite.Require().NoError(err)
	suite.NotContains(suite.ctrl.Selected(), "l1")
	items := suite.ctrl.Items()
	suite.Require().Len(items, 1)
	suite.Equal("l2", items[0].LedgerID)
}

func (suite *ControllerTestSuite) TestBulkDelete_PartialFailureStillDeletesRest() {
	ctx := context.Background()

	suite.mockClient.On("DeleteJSON", ctx, "/ledger/a", nil).Return(nil).Once()
	suite.mockClient.On("DeleteJSON", ctx, "/ledger/b", nil).Return(nil).Once()
	suite.mockClient.On("DeleteJSON", ctx, "/ledger/c", nil).Return(apperrors.ErrNotFound).Once()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[]`)).
		Return(nil).Once()

	suite.ctrl.ToggleSelect("a")
	suite.ctrl.ToggleSelect("b")
	suite.ctrl.ToggleSelect("c")

	err := suite.ctrl.BulkDelete(ctx, []string{"a", "b", "c"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBackend)
	suite.Empty(suite.ctrl.Selected())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *ControllerTestSuite) TestToggleSelectAll_EmptyListIsNoOp() {
	suite.ctrl.ToggleSelectAll()
	suite.Empty(suite.ctrl.Selected())
}

func (suite *ControllerTestSuite) TestToggleSelectAll_TwiceReturnsToEmpty() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(listPayload(`[{"ledgerID":"l1","name":"Rent","type":"expense"},{"ledgerID":"l2","name":"Fees","type":"income"}]`)).
		Return(nil).Once()
	_, err := suite.ctrl.List(ctx)
	suite.Require().NoError(err)

	suite.ctrl.ToggleSelectAll()
	suite.Len(suite.ctrl.Selected(), 2)

	suite.ctrl.ToggleSelectAll()
	suite.Empty(suite.ctrl.Selected())
}

func (suite *ControllerTestSuite) TestReadOnlyControllerRejectsMutations() {
	readOnly := controller.New(controller.Descriptor[domain.Priority]{
		Name:     "priority",
		Path:     "/priority",
		ID:       func(p domain.Priority) string { return p.PriorityID },
		ReadOnly: true,
	}, suite.mockClient, suite.session, nil)

	err := readOnly.Create(context.Background(), domain.Priority{Name: "High"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ControllerTestSuite) TestReset_DropsStateAndStaleListResults() {
	ctx := context.Background()
	suite.mockClient.On("GetJSON", ctx, "/ledger", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// Reset races the in-flight fetch: result must be dropped.
			suite.ctrl.Reset()
			listPayload(`[{"ledgerID":"stale","name":"Old","type":"income"}]`)(args)
		}).
		Return(nil).Once()

	items, err := suite.ctrl.List(ctx)

	suite.Require().NoError(err)
	suite.Nil(items)
	suite.Empty(suite.ctrl.Items())
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
