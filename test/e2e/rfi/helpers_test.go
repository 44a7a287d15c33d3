package rfi_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	httpapi "github.com/buildvane/rfihub/internal/rfi/http"
	"github.com/buildvane/rfihub/internal/rfi/notify"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/store/drivers/sqlite"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/buildvane/rfihub/pkg/jwtx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

/*
 * Common constants and helper functions for the RFI service end-to-end
 * tests. The whole stack runs in-process: an in-memory database behind the
 * real router, driven through the SDK client.
 */

const (
	testIssuer = "test-identity-provider"
	testSecret = "e2e-shared-hmac-secret"
)

type testEnv struct {
	Server *httptest.Server
	Store  store.Store
}

// setupServer boots the full HTTP stack on an in-memory database.
func setupServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.DiscardHandler)
	dispatcher := notify.NewDispatcher(st, logger, 64)
	dispatcher.Start()
	t.Cleanup(dispatcher.Stop)

	directory := &service.DirectoryService{Store: st}
	router := httpapi.NewRouter(
		jwtx.NewVerifierHS256([]byte(testSecret), testIssuer),
		"test",
		st,
		logger,
	)
	router.DirectoryService = directory
	router.ProjectService = &service.ProjectService{Store: st}
	router.RFIService = &service.RFIService{Store: st, Emitter: dispatcher}
	router.ClientAccessService = &service.ClientAccessService{Store: st, Emitter: dispatcher}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{Server: server, Store: st}
}

// mintToken signs a bearer token the way the identity provider would.
func mintToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// seedMember creates a company, user, and membership directly in the store
// and returns an SDK client authenticated as that user.
func (env *testEnv) seedMember(t *testing.T, companyName string, role domain.Role) (*rfisdk.Client, authz.Actor) {
	t.Helper()
	ctx := context.Background()

	company := domain.Company{ID: idx.New().String(), Name: companyName}
	require.NoError(t, env.Store.Companies().CreateCompany(ctx, company))

	return env.seedMemberIn(t, company.ID, role)
}

// seedMemberIn adds a fresh user to an existing company.
func (env *testEnv) seedMemberIn(t *testing.T, companyID string, role domain.Role) (*rfisdk.Client, authz.Actor) {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:    idx.New().String(),
		Email: idx.New().String() + "@example.test",
		Name:  "E2E User",
	}
	require.NoError(t, env.Store.Users().CreateUser(ctx, user))
	require.NoError(t, env.Store.Memberships().CreateMembership(ctx, domain.Membership{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      role,
	}))

	client := rfisdk.NewClient(env.Server.URL)
	client.AccessToken = mintToken(t, user.ID)
	client.CompanyID = companyID

	return client, authz.Actor{UserID: user.ID, CompanyID: companyID, Role: role}
}
