package domain

type CreativeStatus string

const (
	CreativeStatusTest     CreativeStatus = "test"
	CreativeStatusApproved CreativeStatus = "approved"
	CreativeStatusRejected CreativeStatus = "rejected"
)

// Creative é a variante de link de marketing. O nome é o código de
// atribuição que volta no utm_content.
type Creative struct {
	ID       string         `json:"id"`
	TenantID string         `json:"tenant_id"`
	Name     string         `json:"name"`
	Campaign string         `json:"campaign"`
	Status   CreativeStatus `json:"status"`
}
