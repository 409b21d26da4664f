package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "paywave/internal/adapter/http/handler"
	fsStorage "paywave/internal/adapter/storage/fs"
	redisStorage "paywave/internal/adapter/storage/redis"
	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/internal/service"
	"paywave/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack on in-memory storage:
// miniredis behind the session denylist and rate limiter, map-backed
// postgres repos, and a temp-dir proof store. It exercises the real HTTP
// layer, middleware, handlers, and services end to end.

const (
	adminEmail    = "admin@paywave.test"
	adminPassword = "AdminPass123!"
	userPassword  = "UserPass123!"
)

type testApp struct {
	server   *httptest.Server
	redis    *miniredis.Miniredis
	userRepo *inMemoryUserRepo
	rateRepo *inMemoryRateRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	log := logger.New("error", false)

	denylist := redisStorage.NewSessionDenylist(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")

	userRepo := newInMemoryUserRepo()
	rateRepo := newInMemoryRateRepo()
	tradeRepo := newInMemoryTradeRepo()
	withdrawalRepo := newInMemoryWithdrawalRepo()
	transactor := newInMemoryTransactor()

	proofStore, err := fsStorage.NewProofStore(t.TempDir(), 1<<20, log)
	require.NoError(t, err)

	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, denylist, log)
	rateSvc := service.NewRateService(rateRepo, log)
	tradeSvc := service.NewTradeService(tradeRepo, rateRepo, proofStore, log)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, userRepo, log)
	settlementSvc := service.NewSettlementService(tradeRepo, withdrawalRepo, userRepo, transactor, log)

	// Seed an admin account and two rates, one of them locked.
	adminHash, err := hashSvc.Hash(adminPassword)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(t.Context(), &domain.User{
		ID:           uuid.New(),
		Email:        adminEmail,
		Name:         "Reviewer",
		PasswordHash: adminHash,
		BalanceNGN:   decimal.Zero,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}))
	require.NoError(t, rateRepo.Create(t.Context(), &domain.Rate{
		ID:        uuid.New(),
		Method:    "Bitcoin",
		NGNPerUSD: decimal.NewFromInt(1300),
		Tag:       "btc-wallet-addr",
		Status:    domain.RateStatusActive,
		UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, rateRepo.Create(t.Context(), &domain.Rate{
		ID:        uuid.New(),
		Method:    "CashApp",
		NGNPerUSD: decimal.NewFromInt(1100),
		Tag:       "$cashtag",
		Status:    domain.RateStatusLocked,
		UpdatedAt: time.Now().UTC(),
	}))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		RateSvc:        rateSvc,
		TradeSvc:       tradeSvc,
		WithdrawalSvc:  withdrawalSvc,
		SettlementSvc:  settlementSvc,
		UserRepo:       userRepo,
		TradeRepo:      tradeRepo,
		WithdrawalRepo: withdrawalRepo,
		ProofStore:     proofStore,
		TokenSvc:       tokenSvc,
		Denylist:       denylist,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server:   server,
		redis:    mr,
		userRepo: userRepo,
		rateRepo: rateRepo,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// --- HTTP helpers ---

func (a *testApp) do(t *testing.T, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Non-JSON responses (proof downloads) come back with a nil map.
	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func (a *testApp) register(t *testing.T, email string) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": userPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (a *testApp) submitTrade(t *testing.T, token, method, amount, proofName string) (string, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("method", method))
	require.NoError(t, mw.WriteField("amount", amount))
	if proofName != "" {
		fw, err := mw.CreateFormFile("proof", proofName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("proof-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/api/v1/trades", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	return data["id"].(string), data
}

func (a *testApp) balance(t *testing.T, token string) string {
	t.Helper()
	resp, body := a.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	return user["balance_ngn"].(string)
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_RegisterLoginDashboard(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "dana@example.com")

	// Duplicate registration conflicts
	resp, body := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "dana@example.com",
		"password": userPassword,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "AUTH_002", body["error_code"])

	token := app.login(t, "dana@example.com", userPassword)

	resp, body = app.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "dana@example.com", user["email"])
	assert.Equal(t, "0.00", user["balance_ngn"])
	assert.Len(t, data["rates"].([]interface{}), 2)
}

func TestIntegration_RateInfo(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, body := app.do(t, http.MethodGet, "/api/v1/rates/Bitcoin", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "1300", body["rate"])
	assert.Equal(t, "btc-wallet-addr", body["tag"])

	resp, body = app.do(t, http.MethodGet, "/api/v1/rates/Venmo", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["ok"])
}

func TestIntegration_TradeLifecycle(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "trader@example.com")
	token := app.login(t, "trader@example.com", userPassword)
	adminToken := app.login(t, adminEmail, adminPassword)

	tradeID, trade := app.submitTrade(t, token, "Bitcoin", "100", "receipt.png")
	assert.Equal(t, "PENDING", trade["status"])
	assert.Equal(t, "130000.00", trade["amount_ngn"])
	require.NotNil(t, trade["proof_file"])

	// Queue is visible to the reviewer
	resp, body := app.do(t, http.MethodGet, "/api/v1/admin/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := body["data"].(map[string]interface{})["pending_trades"].([]interface{})
	require.Len(t, pending, 1)

	// Reviewer can fetch the proof, the depositor cannot
	proofName := trade["proof_file"].(string)
	resp, _ = app.do(t, http.MethodGet, "/uploads/"+proofName, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = app.do(t, http.MethodGet, "/uploads/"+proofName, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Approval credits the snapshotted NGN amount
	resp, body = app.do(t, http.MethodPost, "/api/v1/admin/trades/"+tradeID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["category"])
	assert.Equal(t, "130000.00", app.balance(t, token))

	// A second approval is a no-op
	resp, body = app.do(t, http.MethodPost, "/api/v1/admin/trades/"+tradeID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "info", body["category"])
	assert.Equal(t, "already_settled", body["data"].(map[string]interface{})["outcome"])
	assert.Equal(t, "130000.00", app.balance(t, token))
}

func TestIntegration_LockedRateRejected(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "locked@example.com")
	token := app.login(t, "locked@example.com", userPassword)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("method", "CashApp"))
	require.NoError(t, mw.WriteField("amount", "50"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/trades", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestIntegration_WithdrawalLifecycle(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "payee@example.com")
	token := app.login(t, "payee@example.com", userPassword)
	adminToken := app.login(t, adminEmail, adminPassword)

	// Fund the account via an approved trade: 100 USD * 1300 = 130,000 NGN
	tradeID, _ := app.submitTrade(t, token, "Bitcoin", "100", "")
	resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/trades/"+tradeID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	withdrawal := map[string]string{
		"name":    "Dana Doe",
		"bank":    "GTBank",
		"account": "0123456789",
		"amount":  "30000",
	}

	// Submission above balance is refused outright
	over := map[string]string{"name": "Dana Doe", "bank": "GTBank", "account": "0123456789", "amount": "200000"}
	resp, body := app.do(t, http.MethodPost, "/api/v1/withdrawals", token, over)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "BAL_001", body["error_code"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/withdrawals", token, withdrawal)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	withdrawalID := body["data"].(map[string]interface{})["id"].(string)

	// Approval debits the balance
	resp, body = app.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+withdrawalID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", body["data"].(map[string]interface{})["outcome"])
	assert.Equal(t, "100000.00", app.balance(t, token))
}

func TestIntegration_WithdrawalAutoRejectOnShortfall(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "shortfall@example.com")
	token := app.login(t, "shortfall@example.com", userPassword)
	adminToken := app.login(t, adminEmail, adminPassword)

	// Balance: 100 USD * 1300 = 130,000 NGN
	tradeID, _ := app.submitTrade(t, token, "Bitcoin", "100", "")
	resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/trades/"+tradeID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Two pending withdrawals of 80,000 each pass the advisory check,
	// but only one can settle.
	submit := func() string {
		resp, body := app.do(t, http.MethodPost, "/api/v1/withdrawals", token, map[string]string{
			"name":    "Dana Doe",
			"bank":    "GTBank",
			"account": "0123456789",
			"amount":  "80000",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return body["data"].(map[string]interface{})["id"].(string)
	}
	first := submit()
	second := submit()

	resp, body := app.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+first+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", body["data"].(map[string]interface{})["outcome"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+second+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "warning", body["category"])
	assert.Equal(t, "insufficient_balance", body["data"].(map[string]interface{})["outcome"])

	// Balance reflects exactly one settled withdrawal.
	assert.Equal(t, "50000.00", app.balance(t, token))

	// The starved request ended up rejected, not stuck pending.
	resp, body = app.do(t, http.MethodGet, "/api/v1/withdrawals", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	statuses := map[string]string{}
	for _, item := range body["data"].([]interface{}) {
		w := item.(map[string]interface{})
		statuses[w["id"].(string)] = w["status"].(string)
	}
	assert.Equal(t, "APPROVED", statuses[first])
	assert.Equal(t, "REJECTED", statuses[second])
}

func TestIntegration_BalanceLifecycle(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	require.NoError(t, app.rateRepo.Create(t.Context(), &domain.Rate{
		ID:        uuid.New(),
		Method:    "Zelle",
		NGNPerUSD: decimal.NewFromInt(1400),
		Tag:       "zelle@paywave.test",
		Status:    domain.RateStatusActive,
		UpdatedAt: time.Now().UTC(),
	}))

	app.register(t, "lifecycle@example.com")
	token := app.login(t, "lifecycle@example.com", userPassword)
	adminToken := app.login(t, adminEmail, adminPassword)

	assert.Equal(t, "0.00", app.balance(t, token))

	// Deposit 10 USD at 1400 and settle it.
	tradeID, _ := app.submitTrade(t, token, "Zelle", "10", "")
	resp, _ := app.do(t, http.MethodPost, "/api/v1/admin/trades/"+tradeID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "14000.00", app.balance(t, token))

	// Withdrawing more than the balance is refused at submission.
	resp, _ = app.do(t, http.MethodPost, "/api/v1/withdrawals", token, map[string]string{
		"name": "Dana Doe", "bank": "GTBank", "account": "0123456789", "amount": "20000",
	})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	// A covered withdrawal settles and debits.
	resp, body := app.do(t, http.MethodPost, "/api/v1/withdrawals", token, map[string]string{
		"name": "Dana Doe", "bank": "GTBank", "account": "0123456789", "amount": "10000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	withdrawalID := body["data"].(map[string]interface{})["id"].(string)
	resp, _ = app.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+withdrawalID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4000.00", app.balance(t, token))

	// Re-approving a settled withdrawal leaves the balance alone.
	resp, body = app.do(t, http.MethodPost, "/api/v1/admin/withdrawals/"+withdrawalID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "already_settled", body["data"].(map[string]interface{})["outcome"])
	assert.Equal(t, "4000.00", app.balance(t, token))
}

func TestIntegration_LogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "leaver@example.com")
	token := app.login(t, "leaver@example.com", userPassword)

	resp, _ := app.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_003", body["error_code"])
}

func TestIntegration_AdminRoutesForbiddenForUsers(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.register(t, "plain@example.com")
	token := app.login(t, "plain@example.com", userPassword)

	resp, body := app.do(t, http.MethodGet, "/api/v1/admin/overview", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "AUTH_004", body["error_code"])
}

func TestIntegration_AdminRateUpdate(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	adminToken := app.login(t, adminEmail, adminPassword)

	rate, err := app.rateRepo.GetByMethod(t.Context(), "Bitcoin")
	require.NoError(t, err)

	resp, body := app.do(t, http.MethodPut, "/api/v1/admin/rates", adminToken, map[string]interface{}{
		"rates": []map[string]interface{}{
			{"id": rate.ID.String(), "rate": "1350.50", "status": "locked"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["applied"])

	resp, body = app.do(t, http.MethodGet, "/api/v1/rates/Bitcoin", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1350.5", body["rate"])
	assert.Equal(t, "locked", body["status"])
}
