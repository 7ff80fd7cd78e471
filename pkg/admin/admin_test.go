package admin_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgeflare/pgclient/internal/testutil"
	"github.com/edgeflare/pgclient/pkg/admin"
	"github.com/edgeflare/pgclient/pkg/postgrest"
)

func newTestAdmin(t *testing.T, server *testutil.MockServer) *admin.Admin {
	t.Helper()
	client, err := postgrest.NewService(server.URL, "anon-key", "service-key", postgrest.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	a, err := admin.New(client)
	require.NoError(t, err)
	return a
}

func TestNewRequiresServiceClient(t *testing.T) {
	client, err := postgrest.New("http://localhost", "anon-key", postgrest.WithLogger(zap.NewNop()))
	require.NoError(t, err)

	_, err = admin.New(client)
	assert.ErrorIs(t, err, postgrest.ErrServiceKeyRequired)
}

func TestEnableDisableRLS(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	a := newTestAdmin(t, server)
	ctx := context.Background()

	require.NoError(t, a.EnableRLS(ctx, "products"))
	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/rest/v1/rpc/enable_rls", req.Path)
	assert.JSONEq(t, `{"table_name":"products"}`, string(req.Body))

	require.NoError(t, a.DisableRLS(ctx, "products"))
	assert.Equal(t, "/rest/v1/rpc/disable_rls", server.LastRequest().Path)
}

func TestRLSStatus(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusOK, `true`)

	a := newTestAdmin(t, server)
	enabled, err := a.RLSStatus(context.Background(), "products")

	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "/rest/v1/rpc/rls_status", server.LastRequest().Path)
}

func TestCredentialRoutingOnAdminCalls(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	client, err := postgrest.NewService(server.URL, "A", "B", postgrest.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	a, err := admin.New(client)
	require.NoError(t, err)

	require.NoError(t, a.EnableRLS(context.Background(), "products"))

	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "A", req.Header.Get("apikey"))
	assert.Equal(t, "Bearer B", req.Header.Get("Authorization"))
}

func TestValidationFailsBeforeNetwork(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	a := newTestAdmin(t, server)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty table", func() error { return a.EnableRLS(ctx, "") }},
		{"quoted table", func() error { return a.EnableRLS(ctx, `products"; drop table x`) }},
		{"policy without name", func() error {
			return a.CreatePolicy(ctx, admin.PolicyParams{Table: "products"})
		}},
		{"policy with bad command", func() error {
			return a.CreatePolicy(ctx, admin.PolicyParams{Name: "p", Table: "products", Command: "TRUNCATE"})
		}},
		{"policy with bad role", func() error {
			return a.CreatePolicy(ctx, admin.PolicyParams{Name: "p", Table: "products", Roles: []string{"a role"}})
		}},
		{"table without columns", func() error {
			return a.CreateTable(ctx, admin.TableParams{Name: "products"})
		}},
		{"column with bad type", func() error {
			return a.CreateTable(ctx, admin.TableParams{Name: "t", Columns: []admin.ColumnDef{{Name: "c", Type: "text; drop table x"}}})
		}},
		{"add column without type", func() error {
			return a.AddColumn(ctx, admin.ColumnParams{Table: "t", Name: "c"})
		}},
		{"alter column with nothing to change", func() error {
			return a.AlterColumn(ctx, admin.ColumnParams{Table: "t", Name: "c"})
		}},
		{"index without columns", func() error {
			return a.CreateIndex(ctx, admin.IndexParams{Name: "i", Table: "t"})
		}},
		{"index with bad method", func() error {
			return a.CreateIndex(ctx, admin.IndexParams{Name: "i", Table: "t", Columns: []string{"c"}, Method: "bitmap"})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.call())
		})
	}

	assert.Zero(t, server.Count(), "invalid params must never reach the server")
}

func TestCreatePolicy(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	a := newTestAdmin(t, server)
	err := a.CreatePolicy(context.Background(), admin.PolicyParams{
		Name:    "tenant_isolation",
		Table:   "orders",
		Command: admin.PolicySelect,
		Roles:   []string{"app_user"},
		Using:   "tenant_id = current_setting('app.tenant')::bigint",
	})

	require.NoError(t, err)
	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/rest/v1/rpc/create_policy", req.Path)
	assert.JSONEq(t, `{
		"policy_name": "tenant_isolation",
		"table_name": "orders",
		"command": "SELECT",
		"roles": ["app_user"],
		"using_expression": "tenant_id = current_setting('app.tenant')::bigint"
	}`, string(req.Body))
}

func TestPolicyExists(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusOK, `false`)

	a := newTestAdmin(t, server)
	exists, err := a.PolicyExists(context.Background(), "p", "orders")

	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "/rest/v1/rpc/policy_exists", server.LastRequest().Path)
}

func TestCreateTable(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	a := newTestAdmin(t, server)
	err := a.CreateTable(context.Background(), admin.TableParams{
		Name: "products",
		Columns: []admin.ColumnDef{
			{Name: "id", Type: "bigint", PrimaryKey: true},
			{Name: "name", Type: "text", Nullable: false},
			{Name: "price", Type: "numeric(10,2)", Nullable: true},
		},
		IfNotExists: true,
	})

	require.NoError(t, err)
	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/rest/v1/rpc/create_table", req.Path)
	assert.Contains(t, string(req.Body), `"numeric(10,2)"`)
}

func TestDropTableAndIndex(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	a := newTestAdmin(t, server)
	ctx := context.Background()

	require.NoError(t, a.DropTable(ctx, "products", true))
	assert.JSONEq(t, `{"table_name":"products","cascade":true}`, string(server.LastRequest().Body))

	require.NoError(t, a.CreateIndex(ctx, admin.IndexParams{
		Name: "idx_products_name", Table: "products", Columns: []string{"name"}, Unique: true, Method: admin.IndexBtree,
	}))
	assert.Equal(t, "/rest/v1/rpc/create_index", server.LastRequest().Path)

	require.NoError(t, a.DropIndex(ctx, "idx_products_name"))
	assert.Equal(t, "/rest/v1/rpc/drop_index", server.LastRequest().Path)
}

func TestColumnLifecycle(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusNoContent, "")

	a := newTestAdmin(t, server)
	ctx := context.Background()

	require.NoError(t, a.AddColumn(ctx, admin.ColumnParams{Table: "products", Name: "sku", Type: "text", Nullable: true}))
	assert.Equal(t, "/rest/v1/rpc/add_column", server.LastRequest().Path)

	require.NoError(t, a.AlterColumn(ctx, admin.ColumnParams{Table: "products", Name: "sku", Type: "varchar(64)"}))
	assert.Equal(t, "/rest/v1/rpc/alter_column", server.LastRequest().Path)

	require.NoError(t, a.DropColumn(ctx, "products", "sku"))
	assert.JSONEq(t, `{"table_name":"products","column_name":"sku"}`, string(server.LastRequest().Body))
}

func TestServerErrorSurfaces(t *testing.T) {
	server := testutil.NewMockServer()
	defer server.Close()
	server.Respond(http.StatusForbidden, `{"message":"permission denied for function enable_rls"}`)

	a := newTestAdmin(t, server)
	err := a.EnableRLS(context.Background(), "products")

	require.Error(t, err)
	assert.True(t, postgrest.IsStatus(err, http.StatusForbidden))
}
