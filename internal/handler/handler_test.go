package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-warehouse-inventory/config"
	"go-warehouse-inventory/internal/handler"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/pkg/database"
	"go-warehouse-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	jwt.Configure("handler-test-secret", 1)

	db, err := database.OpenSQLite(":memory:", &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.ReportsConfig{RecentWindowDays: 7, SummaryWindowDays: 30}
	services := handler.NewServices(db, nil, nil, cfg)
	handlers := handler.NewHandlers(services, nil, cfg)

	app := fiber.New()
	handlers.Register(app, services.Users)
	return &testApp{app: app, db: db}
}

// login creates a user with the role and returns a bearer token for it.
func (a *testApp) login(t *testing.T, role string) string {
	t.Helper()
	email := strings.ToLower(role) + "@example.com"
	u := &model.User{Email: email, FullName: role, Role: role, IsActive: true}
	require.NoError(t, u.SetPassword("pw"))
	require.NoError(t, a.db.Create(u).Error)

	res, body := a.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func (a *testApp) do(t *testing.T, method, path, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

type productBody struct {
	ID           string          `json:"id"`
	Code         string          `json:"product_code"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	StockStatus  string          `json:"stock_status"`
}

type transactionBody struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	ReferenceNumber *string         `json:"reference_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Lines           []struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
	} `json:"stock_details"`
}

type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
	Detail struct {
		Product   string          `json:"product"`
		Available decimal.Decimal `json:"available"`
		Requested decimal.Decimal `json:"requested"`
	} `json:"detail"`
}

func (a *testApp) createProduct(t *testing.T, token, code string) productBody {
	t.Helper()
	res, body := a.do(t, http.MethodPost, "/api/v1/products", token, fiber.Map{
		"product_code":        code,
		"product_name":        "Product " + code,
		"minimum_stock_level": "5",
		"standard_cost":       "2.00",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var out struct {
		Data productBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Data
}

func stockMove(typ, productID, qty string) fiber.Map {
	return fiber.Map{
		"transaction_type": typ,
		"stock_details": []fiber.Map{
			{"product": productID, "quantity": qty, "unit_cost": "2.00"},
		},
	}
}

func TestAuth_Guards(t *testing.T) {
	a := newTestApp(t)

	res, _ := a.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = a.do(t, http.MethodGet, "/api/v1/products", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	viewer := a.login(t, model.RoleViewer)
	res, _ = a.do(t, http.MethodGet, "/api/v1/products", viewer, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = a.do(t, http.MethodPost, "/api/v1/products", viewer, fiber.Map{"product_code": "P-100", "product_name": "Bolt"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body := a.do(t, http.MethodPost, "/api/v1/auth/validate-token", viewer, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, string(body))

	res, _ = a.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "viewer@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestProducts_CreateAndConflict(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, model.RoleAdmin)

	p := a.createProduct(t, admin, "p-100")
	assert.Equal(t, "P-100", p.Code)
	assert.Equal(t, "LOW", p.StockStatus)

	res, body := a.do(t, http.MethodPost, "/api/v1/products", admin, fiber.Map{"product_code": "P-100", "product_name": "Again"})
	assert.Equal(t, http.StatusConflict, res.StatusCode, string(body))

	res, body = a.do(t, http.MethodPost, "/api/v1/products", admin, fiber.Map{"product_code": "P1", "product_name": "Bolt"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "field", e.Kind)
	assert.Equal(t, "product_code", e.Fields[0].Field)

	res, _ = a.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", admin, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = a.do(t, http.MethodGet, "/api/v1/products/6f1d1c1e-0000-4000-8000-000000000000", admin, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTransactions_StockFlow(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, model.RoleAdmin)
	p := a.createProduct(t, admin, "P-100")

	// Stock out with no history
	res, body := a.do(t, http.MethodPost, "/api/v1/transactions", admin, stockMove("OUT", p.ID, "5"))
	require.Equal(t, http.StatusBadRequest, res.StatusCode, string(body))
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "insufficient_stock", e.Kind)
	assert.Equal(t, "P-100", e.Detail.Product)
	assert.True(t, e.Detail.Available.IsZero())
	assert.True(t, decimal.NewFromInt(5).Equal(e.Detail.Requested))

	// Stock in 10 @ 2.00
	res, body = a.do(t, http.MethodPost, "/api/v1/transactions", admin, stockMove("IN", p.ID, "10"))
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var created struct {
		Data transactionBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "DRAFT", created.Data.Status)
	assert.True(t, decimal.NewFromInt(20).Equal(created.Data.TotalAmount))

	res, body = a.do(t, http.MethodGet, "/api/v1/products/"+p.ID, admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var got productBody
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, decimal.NewFromInt(10).Equal(got.CurrentStock))
	assert.Equal(t, "NORMAL", got.StockStatus)

	// Complete twice
	res, _ = a.do(t, http.MethodPost, "/api/v1/transactions/"+created.Data.ID+"/complete", admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, body = a.do(t, http.MethodPost, "/api/v1/transactions/"+created.Data.ID+"/complete", admin, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	e = errorBody{}
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "state_transition", e.Kind)

	// Completed transactions are kept
	res, _ = a.do(t, http.MethodDelete, "/api/v1/transactions/"+created.Data.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = a.do(t, http.MethodGet, "/api/v1/transactions/6f1d1c1e-0000-4000-8000-000000000000", admin, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTransactions_DuplicateProductInRequest(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, model.RoleAdmin)
	p := a.createProduct(t, admin, "P-100")

	res, body := a.do(t, http.MethodPost, "/api/v1/transactions", admin, fiber.Map{
		"transaction_type": "IN",
		"stock_details": []fiber.Map{
			{"product": p.ID, "quantity": "1"},
			{"product": p.ID, "quantity": "2"},
		},
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "cross_field", e.Kind)
	assert.Equal(t, "stock_details[1].product", e.Fields[0].Field)

	res, body = a.do(t, http.MethodGet, "/api/v1/transactions", admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Zero(t, list.Count)
}

func TestTransactions_EditHeaderAndLines(t *testing.T) {
	a := newTestApp(t)
	clerk := a.login(t, model.RoleClerk)
	admin := a.login(t, model.RoleAdmin)
	p := a.createProduct(t, admin, "P-100")
	q := a.createProduct(t, admin, "P-200")

	res, body := a.do(t, http.MethodPost, "/api/v1/transactions", clerk, fiber.Map{
		"transaction_type": "IN",
		"stock_details": []fiber.Map{
			{"product": p.ID, "quantity": "10", "unit_cost": "2.00"},
			{"product": q.ID, "quantity": "4", "unit_cost": "2.00"},
		},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	var created struct {
		Data transactionBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	path := "/api/v1/transactions/" + created.Data.ID

	res, body = a.do(t, http.MethodPut, path, clerk, fiber.Map{"reference_number": "PO-1001", "vendor_customer": "Acme"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var updated struct {
		Data transactionBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	require.NotNil(t, updated.Data.ReferenceNumber)
	assert.Equal(t, "PO-1001", *updated.Data.ReferenceNumber)
	assert.True(t, decimal.NewFromInt(28).Equal(updated.Data.TotalAmount))

	res, body = a.do(t, http.MethodPut, path, clerk, fiber.Map{"transaction_type": "OUT"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "transaction_type", e.Fields[0].Field)

	var qLine string
	for _, l := range created.Data.Lines {
		if l.ProductID == q.ID {
			qLine = l.ID
		}
	}
	require.NotEmpty(t, qLine)

	res, body = a.do(t, http.MethodDelete, "/api/v1/stock-lines/"+qLine, clerk, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	res, body = a.do(t, http.MethodGet, path, clerk, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var got transactionBody
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Lines, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(got.TotalAmount))

	res, _ = a.do(t, http.MethodDelete, "/api/v1/stock-lines/"+qLine, clerk, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	viewer := a.login(t, model.RoleViewer)
	res, _ = a.do(t, http.MethodPut, path, viewer, fiber.Map{"remarks": "x"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestReports(t *testing.T) {
	a := newTestApp(t)
	admin := a.login(t, model.RoleAdmin)
	p := a.createProduct(t, admin, "P-100")
	res, _ := a.do(t, http.MethodPost, "/api/v1/transactions", admin, stockMove("IN", p.ID, "3"))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := a.do(t, http.MethodGet, "/api/v1/reports/inventory", admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var inventory struct {
		TotalProducts int             `json:"total_products"`
		TotalValue    decimal.Decimal `json:"total_value"`
		LowStockCount int             `json:"low_stock_count"`
	}
	require.NoError(t, json.Unmarshal(body, &inventory))
	assert.Equal(t, 1, inventory.TotalProducts)
	assert.Equal(t, 1, inventory.LowStockCount)
	assert.True(t, decimal.NewFromInt(6).Equal(inventory.TotalValue))

	res, body = a.do(t, http.MethodGet, "/api/v1/products/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var low struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &low))
	assert.Equal(t, 1, low.Count)

	res, body = a.do(t, http.MethodGet, "/api/v1/reports/movements?start_date=2026-01-01", admin, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "end_date", e.Fields[0].Field)

	today := time.Now().UTC().Format("2006-01-02")
	res, body = a.do(t, http.MethodGet, "/api/v1/reports/movements?start_date="+today+"&end_date="+today, admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	res, _ = a.do(t, http.MethodGet, "/api/v1/dashboard/stats", admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = a.do(t, http.MethodGet, "/api/v1/dashboard/stock-movement?days=3", admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
