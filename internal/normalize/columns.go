package normalize

import "strings"

// Role identifies the semantic role a column plays in one of the feeds.
type Role string

const (
	RoleSalesSKU      Role = "sales_sku"
	RoleSalesQty      Role = "sales_qty"
	RoleSalesDate     Role = "sales_date"
	RoleProductName   Role = "product_name"
	RoleKitSKU        Role = "kit_sku"
	RoleKitComponents Role = "kit_components"
	RoleKitQuantities Role = "kit_quantities"
	RoleInvSKU        Role = "inv_sku"
	RoleInvOnHand     Role = "inv_on_hand"
	RoleInvCost       Role = "inv_cost"
)

// roleKeywords maps each role to its alternatives. An alternative is a
// conjunction: the header must contain every keyword in it. The first
// column whose header (trimmed, lowercased) satisfies any alternative wins.
var roleKeywords = map[Role][][]string{
	RoleSalesSKU:      {{"código"}, {"codigo"}, {"cdigo"}},
	RoleSalesQty:      {{"quantidade"}, {"qtd"}, {"qty"}, {"quantity"}, {"vendas"}},
	RoleSalesDate:     {{"data"}, {"date"}, {"dia"}},
	RoleProductName:   {{"produto"}, {"item"}, {"descricao"}, {"description"}},
	RoleKitSKU:        {{"codigo", "kit"}},
	RoleKitComponents: {{"sku", "componente"}},
	RoleKitQuantities: {{"qtd", "componente"}},
	RoleInvSKU:        {{"codigo"}},
	RoleInvOnHand:     {{"estoque", "atual"}},
	RoleInvCost:       {{"custo"}},
}

// ResolveColumn returns the index of the first header matching the role, or
// -1 when no header qualifies.
func ResolveColumn(headers []string, role Role) int {
	alternatives := roleKeywords[role]
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, keywords := range alternatives {
			match := true
			for _, kw := range keywords {
				if !strings.Contains(h, kw) {
					match = false
					break
				}
			}
			if match {
				return i
			}
		}
	}
	return -1
}
