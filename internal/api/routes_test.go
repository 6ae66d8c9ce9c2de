package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-registry/internal/api/models"
	"voting-registry/internal/ledger"
	"voting-registry/internal/store"
	"voting-registry/pkg/config"
	"voting-registry/pkg/logger"
)

var (
	testSuperAdmin = common.HexToAddress("0x0000000000000000000000000000000000000001")
	testAdmin      = common.HexToAddress("0x0000000000000000000000000000000000000002")
	testVoter      = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
			Mode: "debug",
		},
		Database: config.DatabaseConfig{Type: "memory"},
		Registry: config.RegistryConfig{SuperAdmin: testSuperAdmin.Hex()},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
		Security: config.SecurityConfig{
			JWTSecret:     "test-secret",
			JWTExpiration: time.Hour,
		},
		API: config.APIConfig{
			CORS: config.CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"*"},
			},
		},
	}
}

func newTestServer(t *testing.T) (*gin.Engine, *Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := logger.NewLogger("error", "")
	ledgerService := ledger.NewService(store.NewMemoryStore(), cfg.SuperAdminAddress(), ledger.FixedClock(1700000000), log)

	services := NewServices(ledgerService, log, cfg)
	t.Cleanup(services.Stop)

	router := gin.New()
	SetupRoutes(router, services)
	return router, services
}

func tokenFor(t *testing.T, services *Services, addr common.Address) string {
	t.Helper()
	token, err := services.GenerateToken(addr.Hex())
	require.NoError(t, err)
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) models.BaseResponse {
	t.Helper()
	var resp models.BaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func requireSuccess(t *testing.T, w *httptest.ResponseRecorder, wantStatus int) models.BaseResponse {
	t.Helper()
	require.Equal(t, wantStatus, w.Code, "body: %s", w.Body.String())
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	return resp
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, w.Code, "body: %s", w.Body.String())
	resp := decodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, wantCode, resp.Error.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health models.HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["registry"].Status)
}

func TestAuthEnforcement(t *testing.T) {
	router, services := newTestServer(t)

	t.Run("MissingToken", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/voting/elections/0/vote", "", models.CastVoteRequest{})
		requireErrorCode(t, w, http.StatusUnauthorized, models.ErrCodeUnauthorized)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/voting/elections/0/vote", "not-a-jwt", models.CastVoteRequest{})
		requireErrorCode(t, w, http.StatusUnauthorized, models.ErrCodeInvalidToken)
	})

	t.Run("SuperAdminGate", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/admin/registry/pause", tokenFor(t, services, testVoter), nil)
		requireErrorCode(t, w, http.StatusForbidden, models.ErrCodeForbidden)
	})
}

func TestDevTokenEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	t.Run("IssuesToken", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/public/auth/token", "", models.TokenRequest{Address: testVoter.Hex()})
		resp := requireSuccess(t, w, http.StatusOK)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var auth models.AuthResponse
		require.NoError(t, json.Unmarshal(data, &auth))
		assert.NotEmpty(t, auth.Token)
		assert.Equal(t, int64(3600), auth.ExpiresIn)
	})

	t.Run("RejectsNonHexAddress", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/public/auth/token", "", models.TokenRequest{Address: "nope"})
		requireErrorCode(t, w, http.StatusBadRequest, models.ErrCodeInvalidRequest)
	})
}

func TestElectionFlow(t *testing.T) {
	router, services := newTestServer(t)
	superToken := tokenFor(t, services, testSuperAdmin)
	adminToken := tokenFor(t, services, testAdmin)
	voterToken := tokenFor(t, services, testVoter)

	// Registry bootstrap and admin delegation by the super-admin.
	w := doJSON(router, http.MethodPost, "/api/v1/admin/registry/", superToken, nil)
	requireSuccess(t, w, http.StatusCreated)

	w = doJSON(router, http.MethodPost, "/api/v1/admin/registry/", superToken, nil)
	requireErrorCode(t, w, http.StatusConflict, models.ErrCodeRegistryExists)

	w = doJSON(router, http.MethodPost, "/api/v1/admin/registry/admins", superToken, models.AddAdminRequest{
		Authority:   testAdmin.Hex(),
		Name:        "Ops Admin",
		Permissions: ledger.FullPermissions(),
	})
	requireSuccess(t, w, http.StatusCreated)

	// The delegated admin builds and starts an open election.
	w = doJSON(router, http.MethodPost, "/api/v1/admin/elections/", adminToken, models.CreateElectionRequest{
		Title:            "Board Election",
		Description:      "Annual board member election",
		StartTime:        1700000000,
		EndTime:          1700086400,
		RegistrationMode: "open",
	})
	resp := requireSuccess(t, w, http.StatusCreated)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var election models.ElectionResponse
	require.NoError(t, json.Unmarshal(data, &election))
	assert.Equal(t, "draft", election.Status)
	base := fmt.Sprintf("/api/v1/admin/elections/%d", election.ElectionID)

	for _, name := range []string{"Alice", "Bob"} {
		w = doJSON(router, http.MethodPost, base+"/candidates", adminToken, models.AddCandidateRequest{Name: name})
		requireSuccess(t, w, http.StatusCreated)
	}

	w = doJSON(router, http.MethodPost, base+"/start", adminToken, nil)
	requireSuccess(t, w, http.StatusOK)

	// Voting: first vote lands, the duplicate is rejected.
	votePath := fmt.Sprintf("/api/v1/voting/elections/%d/vote", election.ElectionID)
	w = doJSON(router, http.MethodPost, votePath, voterToken, models.CastVoteRequest{CandidateID: 1})
	requireSuccess(t, w, http.StatusCreated)

	w = doJSON(router, http.MethodPost, votePath, voterToken, models.CastVoteRequest{CandidateID: 0})
	requireErrorCode(t, w, http.StatusConflict, models.ErrCodeAlreadyVoted)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/voting/elections/%d/status", election.ElectionID), voterToken, nil)
	resp = requireSuccess(t, w, http.StatusOK)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var status models.VoterStatusResponse
	require.NoError(t, json.Unmarshal(data, &status))
	assert.True(t, status.HasVoted)

	// Close out and read the tally from the public surface.
	w = doJSON(router, http.MethodPost, base+"/end", adminToken, nil)
	requireSuccess(t, w, http.StatusOK)
	w = doJSON(router, http.MethodPost, base+"/finalize", adminToken, nil)
	requireSuccess(t, w, http.StatusOK)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/public/elections/%d/results", election.ElectionID), "", nil)
	resp = requireSuccess(t, w, http.StatusOK)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var results models.ResultsResponse
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Equal(t, "finalized", results.Status)
	assert.Equal(t, uint64(1), results.TotalVotes)
	require.Len(t, results.Results, 2)
	assert.Equal(t, uint32(1), results.Results[0].CandidateID)
	assert.Equal(t, 1, results.Results[0].Rank)
	assert.Equal(t, float64(100), results.Results[0].Percentage)
}

func TestWhitelistFlowOverAPI(t *testing.T) {
	router, services := newTestServer(t)
	superToken := tokenFor(t, services, testSuperAdmin)
	adminToken := tokenFor(t, services, testAdmin)
	voterToken := tokenFor(t, services, testVoter)

	w := doJSON(router, http.MethodPost, "/api/v1/admin/registry/", superToken, nil)
	requireSuccess(t, w, http.StatusCreated)
	w = doJSON(router, http.MethodPost, "/api/v1/admin/registry/admins", superToken, models.AddAdminRequest{
		Authority:   testAdmin.Hex(),
		Name:        "Ops Admin",
		Permissions: ledger.FullPermissions(),
	})
	requireSuccess(t, w, http.StatusCreated)

	w = doJSON(router, http.MethodPost, "/api/v1/admin/elections/", adminToken, models.CreateElectionRequest{
		Title:            "Members Vote",
		StartTime:        1700000000,
		EndTime:          1700086400,
		RegistrationMode: "whitelist",
	})
	resp := requireSuccess(t, w, http.StatusCreated)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var election models.ElectionResponse
	require.NoError(t, json.Unmarshal(data, &election))
	base := fmt.Sprintf("/api/v1/admin/elections/%d", election.ElectionID)

	w = doJSON(router, http.MethodPost, base+"/candidates", adminToken, models.AddCandidateRequest{Name: "Alice"})
	requireSuccess(t, w, http.StatusCreated)
	w = doJSON(router, http.MethodPost, base+"/start", adminToken, nil)
	requireSuccess(t, w, http.StatusOK)

	// The voter requests access and is blocked until approved.
	registerPath := fmt.Sprintf("/api/v1/voting/elections/%d/register", election.ElectionID)
	votePath := fmt.Sprintf("/api/v1/voting/elections/%d/vote", election.ElectionID)

	w = doJSON(router, http.MethodPost, registerPath, voterToken, nil)
	resp = requireSuccess(t, w, http.StatusCreated)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var registration models.RegistrationResponse
	require.NoError(t, json.Unmarshal(data, &registration))
	assert.Equal(t, "pending", registration.Status)

	w = doJSON(router, http.MethodPost, votePath, voterToken, models.CastVoteRequest{CandidateID: 0})
	requireErrorCode(t, w, http.StatusForbidden, models.ErrCodeVoterNotRegistered)

	w = doJSON(router, http.MethodPost, fmt.Sprintf("%s/registrations/%s/approve", base, testVoter.Hex()), adminToken, nil)
	requireSuccess(t, w, http.StatusOK)

	w = doJSON(router, http.MethodPost, votePath, voterToken, models.CastVoteRequest{CandidateID: 0})
	requireSuccess(t, w, http.StatusCreated)

	// The vote record is publicly readable by voter address.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/public/elections/%d/votes/%s", election.ElectionID, testVoter.Hex()), "", nil)
	resp = requireSuccess(t, w, http.StatusOK)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	var record models.VoteRecordResponse
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, testVoter.Hex(), record.Voter)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/public/elections/%d/votes/%s", election.ElectionID, testSuperAdmin.Hex()), "", nil)
	requireErrorCode(t, w, http.StatusNotFound, models.ErrCodeVoteNotFound)

	// The registration is publicly readable.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/public/elections/%d/registrations/%s", election.ElectionID, testVoter.Hex()), "", nil)
	resp = requireSuccess(t, w, http.StatusOK)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &registration))
	assert.Equal(t, "approved", registration.Status)
	assert.Equal(t, testAdmin.Hex(), registration.ApprovedBy)
}

func TestPublicReadsNeedNoAuth(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/api/v1/public/registry", "", nil)
	requireErrorCode(t, w, http.StatusNotFound, models.ErrCodeRegistryNotFound)

	w = doJSON(router, http.MethodGet, "/api/v1/public/elections/42", "", nil)
	requireErrorCode(t, w, http.StatusNotFound, models.ErrCodeElectionNotFound)
}
