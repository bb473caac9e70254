package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumnSalesHeaders(t *testing.T) {
	headers := []string{"Produto", "Código", "Quantidade", "Data"}

	assert.Equal(t, 1, ResolveColumn(headers, RoleSalesSKU))
	assert.Equal(t, 2, ResolveColumn(headers, RoleSalesQty))
	assert.Equal(t, 3, ResolveColumn(headers, RoleSalesDate))
	assert.Equal(t, 0, ResolveColumn(headers, RoleProductName))
}

func TestResolveColumnMojibakeHeader(t *testing.T) {
	// Encoding-damaged exports drop the accented character entirely.
	headers := []string{"Cdigo", "Qtd"}

	assert.Equal(t, 0, ResolveColumn(headers, RoleSalesSKU))
	assert.Equal(t, 1, ResolveColumn(headers, RoleSalesQty))
}

func TestResolveColumnKitConjunction(t *testing.T) {
	headers := []string{"codigo", "codigo_kit", "sku_componentes", "qtd_componentes"}

	// The kit SKU role requires both keywords, so the bare "codigo" column
	// at index 0 must not win.
	assert.Equal(t, 1, ResolveColumn(headers, RoleKitSKU))
	assert.Equal(t, 2, ResolveColumn(headers, RoleKitComponents))
	assert.Equal(t, 3, ResolveColumn(headers, RoleKitQuantities))
}

func TestResolveColumnInventoryHeaders(t *testing.T) {
	headers := []string{"codigo", "descricao", "estoque_atual", "custo_unitario"}

	assert.Equal(t, 0, ResolveColumn(headers, RoleInvSKU))
	assert.Equal(t, 2, ResolveColumn(headers, RoleInvOnHand))
	assert.Equal(t, 3, ResolveColumn(headers, RoleInvCost))
}

func TestResolveColumnMissing(t *testing.T) {
	headers := []string{"foo", "bar"}

	assert.Equal(t, -1, ResolveColumn(headers, RoleSalesSKU))
	assert.Equal(t, -1, ResolveColumn(headers, RoleSalesQty))
	assert.Equal(t, -1, ResolveColumn(nil, RoleSalesSKU))
}
