package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurante/backend/internal/auth"
	"github.com/restaurante/backend/internal/metrics"
	"github.com/restaurante/backend/internal/service"
	"github.com/restaurante/backend/internal/storage/sqldb"
)

type testServer struct {
	t   *testing.T
	url string
	// token is sent as a bearer token when set.
	token string
}

func setupServer(t *testing.T, withAuth bool) *testServer {
	t.Helper()

	store, err := sqldb.New(sqldb.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	cfg := Config{
		Store:     store,
		Customers: service.NewCustomerService(store),
		Catalog:   service.NewCatalogService(store),
		Orders:    service.NewOrderService(store),
		Payments:  service.NewPaymentService(store),
		Metrics:   metrics.New(),
	}
	if withAuth {
		jwtManager := auth.NewJWTManager("test-secret", time.Hour)
		authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
		cfg.JWT = jwtManager
		cfg.Auth = service.NewAuthService(authenticator, jwtManager, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, cfg.Auth.EnsureAdmin(t.Context(), "admin@restaurante.local", "Admin", "admin12345"))
	}

	server := httptest.NewServer(NewHandler(cfg))
	t.Cleanup(server.Close)
	return &testServer{t: t, url: server.URL}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (ts *testServer) do(method, path string, body any, out any) int {
	ts.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.url+path, reader)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type message struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Error   string `json:"error"`
	Fields  []struct {
		Field string `json:"campo"`
	} `json:"campos"`
}

func TestAddressCRUD(t *testing.T) {
	ts := setupServer(t, false)

	t.Run("empty list", func(t *testing.T) {
		var list []map[string]any
		assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/enderecos", nil, &list))
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	var created message
	status := ts.do(http.MethodPost, "/endereco", map[string]any{
		"id_endereco": "e1", "rua": "Rua da Aurora", "numero": "100", "bairro": "Santo Amaro",
		"cidade": "Recife", "estado": "pe", "cep": "50050000",
	}, &created)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Endereço criado!", created.Message)
	assert.Equal(t, "e1", created.ID)

	var got map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/endereco/e1", nil, &got))
	assert.Equal(t, "PE", got["estado"])
	assert.Equal(t, "50050-000", got["cep"])

	var updated message
	status = ts.do(http.MethodPut, "/endereco/e1", map[string]any{
		"rua": "Rua da Aurora", "numero": "200", "bairro": "Santo Amaro",
		"cidade": "Recife", "estado": "PE", "cep": "50050-000",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Endereço atualizado!", updated.Message)

	var list []map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/enderecos", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "200", list[0]["numero"])

	t.Run("duplicate id", func(t *testing.T) {
		var res message
		status := ts.do(http.MethodPost, "/endereco", map[string]any{
			"id_endereco": "e1", "rua": "R", "numero": "1", "bairro": "B",
			"cidade": "C", "estado": "SP", "cep": "01000-000",
		}, &res)
		assert.Equal(t, http.StatusConflict, status)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("validation", func(t *testing.T) {
		var res message
		status := ts.do(http.MethodPost, "/endereco", map[string]any{"rua": "R"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, res.Fields)
	})

	t.Run("malformed body", func(t *testing.T) {
		var res message
		assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPost, "/endereco", "{not json", &res))
		assert.Contains(t, res.Error, "malformed")
	})

	var deleted message
	require.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/endereco/e1", nil, &deleted))
	assert.Equal(t, "Endereço deletado!", deleted.Message)

	var missing message
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/endereco/e1", nil, &missing))
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/endereco/e1", nil, nil))
}

func TestOrderFlow(t *testing.T) {
	ts := setupServer(t, false)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/endereco", map[string]any{
		"id_endereco": "e1", "rua": "Rua A", "numero": "1", "bairro": "B",
		"cidade": "Recife", "estado": "PE", "cep": "50000-000",
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/cliente", map[string]any{
		"id_cliente": "c1", "nome": "Ana", "telefone": "81999990000", "cpf": "529.982.247-25", "id_endereco": "e1",
	}, nil))

	t.Run("client referencing a missing address", func(t *testing.T) {
		status := ts.do(http.MethodPost, "/cliente", map[string]any{
			"nome": "Bia", "telefone": "8133334444", "cpf": "111.444.777-35", "id_endereco": "nope",
		}, nil)
		assert.Equal(t, http.StatusConflict, status)
	})

	// The dish page posts to the plural path.
	var dish message
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/pratos", map[string]any{
		"nome": "Baião de dois", "descricao": "Arroz e feijão", "preco_centavos": 3200, "categoria": "prato_principal",
	}, &dish))
	assert.Equal(t, "Prato criado!", dish.Message)
	require.NotEmpty(t, dish.ID)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/ingrediente", map[string]any{
		"id_ingrediente": "i1", "nome": "Feijão", "unidade_medida": "kg",
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/prato_ingrediente", map[string]any{
		"id_prato": dish.ID, "id_ingrediente": "i1", "quantidade_utilizada": 0.3,
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/prato_ingrediente/"+dish.ID+"/i1", map[string]any{
		"quantidade_utilizada": 0.4,
	}, nil))

	var recipe []map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/prato/"+dish.ID+"/ingredientes", nil, &recipe))
	require.Len(t, recipe, 1)
	assert.Equal(t, 0.4, recipe[0]["quantidade_utilizada"])

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/pedido", map[string]any{
		"id_pedido": "o1", "id_cliente": "c1",
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/itempedido", map[string]any{
		"id_item": "it1", "id_pedido": "o1", "id_prato": dish.ID, "quantidade": 3,
	}, nil))

	var order map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pedido/o1", nil, &order))
	assert.Equal(t, "em_preparo", order["status"])
	assert.Equal(t, 9600.0, order["total_centavos"])

	// A status-only update leaves the item total alone.
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/pedido/o1", map[string]any{"status": "pronto"}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pedido/o1", nil, &order))
	assert.Equal(t, "pronto", order["status"])
	assert.Equal(t, 9600.0, order["total_centavos"])

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/pagamento", map[string]any{
		"id_pagamento": "pg1", "id_pedido": "o1", "metodo_pagamento": "DINHEIRO", "valor_centavos": 9600, "status": "pago",
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/pagamento_dinheiro", map[string]any{
		"id_pagamento": "pg1", "valor_recebido_centavos": 10000,
	}, nil))

	var details map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pagamento/pg1/detalhes", nil, &details))
	cash, ok := details["dinheiro"].(map[string]any)
	require.True(t, ok, "cash row expected in %v", details)
	assert.Equal(t, 400.0, cash["troco"])

	var payment map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/pagamento/pg1", map[string]any{"status": "pago"}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pagamento/pg1", nil, &payment))
	assert.Equal(t, 9600.0, payment["valor_centavos"])
	// The change was computed from this amount.
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, "/pagamento/pg1", map[string]any{"valor_centavos": 9000}, nil))

	var summary map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pedido/o1/resumo", nil, &summary))
	assert.Equal(t, 9600.0, summary["total_itens_centavos"])
	assert.Equal(t, 9600.0, summary["pago_centavos"])
	assert.Equal(t, 0.0, summary["em_aberto_centavos"])

	var deleted message
	require.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/itempedido/it1", nil, &deleted))
	assert.Equal(t, "ItemPedido deletado!", deleted.Message)
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pedido/o1", nil, &order))
	assert.Equal(t, 0.0, order["total_centavos"])

	var items []map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/pedido/o1/itens", nil, &items))
	assert.Empty(t, items)
}

func TestLowStockRoute(t *testing.T) {
	ts := setupServer(t, false)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/ingrediente", map[string]any{
		"id_ingrediente": "i1", "nome": "Leite", "unidade_medida": "L",
	}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/estoque", map[string]any{
		"id_estoque": "s1", "id_ingrediente": "i1", "quantidade": 2, "limite_minimo": 5,
	}, nil))

	var low []map[string]any
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/estoques/baixo", nil, &low))
	require.Len(t, low, 1)
	assert.Equal(t, "Leite", low[0]["nome_ingrediente"])
	assert.Equal(t, 3.0, low[0]["falta"])
}

func TestAuthRequiredForWrites(t *testing.T) {
	ts := setupServer(t, true)

	address := map[string]any{
		"rua": "Rua A", "numero": "1", "bairro": "B", "cidade": "Recife", "estado": "PE", "cep": "50000-000",
	}

	var res message
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/endereco", address, &res))
	assert.Equal(t, "authorization token required", res.Error)

	// Reads stay open.
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/enderecos", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "admin@restaurante.local", "senha": "wrong-password",
	}, nil))

	var login service.LoginResult
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/auth/login", map[string]any{
		"email": "admin@restaurante.local", "senha": "admin12345",
	}, &login))
	require.NotEmpty(t, login.Token)

	ts.token = login.Token
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/endereco", address, nil))
}

func TestOperationalRoutes(t *testing.T) {
	ts := setupServer(t, false)

	var health map[string]string
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])

	ts.do(http.MethodGet, "/pedidos", nil, nil)

	resp, err := http.Get(ts.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `route="/pedidos"`)

	var res message
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/nada", nil, &res))
	assert.Equal(t, "route not found", res.Error)
}
