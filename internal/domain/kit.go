package domain

type Kit struct {
	ID                   string  `json:"id"`
	TenantID             string  `json:"tenant_id"`
	Name                 string  `json:"name"`
	Code                 string  `json:"code"`
	FixedCommission      float64 `json:"fixed_commission"`
	PercentageCommission float64 `json:"percentage_commission"`
	Active               bool    `json:"active"`
}

// KitReference é a forma como o produto chega no webhook: id interno, código
// externo ou nome.
type KitReference struct {
	ID   string
	Code string
	Name string
}

func (r KitReference) IsEmpty() bool {
	return r.ID == "" && r.Code == "" && r.Name == ""
}
