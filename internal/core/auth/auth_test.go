package auth_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/auth"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/dto"
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
	state   domain.SessionState
	cleared bool
}

func (f *fakeSession) Begin(state domain.SessionState) error { f.state = state; return nil }
func (f *fakeSession) Clear() error {
	f.state = domain.SessionState{}
	f.cleared = true
	return nil
}
func (f *fakeSession) SwitchScope(scopeID string) error { f.state.ScopeID = scopeID; return nil }
func (f *fakeSession) SwitchRoleGroup(rg domain.RoleGroup) error {
	f.state.RoleGroup = rg
	return nil
}
func (f *fakeSession) Token() string                       { return f.state.Token }
func (f *fakeSession) ScopeID() string                     { return f.state.ScopeID }
func (f *fakeSession) RoleGroup() domain.RoleGroup         { return f.state.RoleGroup }
func (f *fakeSession) Profile() (domain.UserProfile, bool) { return f.state.Profile, f.state.Token != "" }
func (f *fakeSession) Authenticated() bool                 { return f.state.Token != "" }

// --- Test Suite ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockClient *MockRESTClient
	session    *fakeSession
	service    *auth.Service
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockClient = new(MockRESTClient)
	suite.session = &fakeSession{}
	suite.service = auth.NewService(suite.mockClient, suite.session, suite.session,
		validator.New(validator.WithRequiredStructEnabled()))
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	req := dto.LoginRequest{Email: "asha@example.com", Password: "secret"}

	suite.mockClient.On("PostJSON", ctx, "/auth/login", req, mock.AnythingOfType("*dto.LoginResponse")).
		Run(func(args mock.Arguments) {
			resp := args.Get(3).(*dto.LoginResponse)
			resp.Token = "tok-1"
			resp.Profile = domain.UserProfile{
				UserID:    "u1",
				Name:      "Asha",
				Email:     "asha@example.com",
				CompanyID: "co-1",
				RoleGroup: domain.RoleGroupAdmin,
			}
		}).
		Return(nil).Once()

	profile, err := suite.service.Login(ctx, "asha@example.com", "secret")

	suite.Require().NoError(err)
	suite.Equal("u1", profile.UserID)
	suite.Equal("tok-1", suite.session.state.Token)
	suite.Equal("co-1", suite.session.state.ScopeID)
	suite.Equal(domain.RoleGroupAdmin, suite.session.state.RoleGroup)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_InvalidEmailMakesNoNetworkCall() {
	_, err := suite.service.Login(context.Background(), "not-an-email", "secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_MissingTokenInResponse() {
	ctx := context.Background()
	suite.mockClient.On("PostJSON", ctx, "/auth/login", mock.Anything, mock.Anything).
		Return(nil).Once()

	_, err := suite.service.Login(ctx, "asha@example.com", "secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBackend)
	suite.Empty(suite.session.state.Token)
}

func (suite *AuthServiceTestSuite) TestChangePassword_RequiresSession() {
	err := suite.service.ChangePassword(context.Background(), "old-secret", "new-secret-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoSession)
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	suite.session.state.Token = "tok-1"
	req := dto.ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret-1"}

	suite.mockClient.On("PostJSON", ctx, "/auth/change-password", req, nil).Return(nil).Once()

	err := suite.service.ChangePassword(ctx, "old-secret", "new-secret-1")

	suite.Require().NoError(err)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestChangePassword_ShortNewPassword() {
	suite.session.state.Token = "tok-1"

	err := suite.service.ChangePassword(context.Background(), "old-secret", "short")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClient.AssertNotCalled(suite.T(), "PostJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogout_ClearsSession() {
	suite.session.state.Token = "tok-1"

	err := suite.service.Logout(context.Background())

	suite.Require().NoError(err)
	suite.True(suite.session.cleared)
	suite.False(suite.session.Authenticated())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
