package dto

// ListFilter contains query parameters for bakery listing endpoints.
type ListFilter struct {
	Q            string
	SemlorStatus string
	Sort         string
}

// Sort orders accepted by ListFilter.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
)

// CreateBakeryRequest captures the payload for POST /api/bakeries.
type CreateBakeryRequest struct {
	Name            string `json:"name"`
	InstagramHandle string `json:"instagramHandle"`
	Website         string `json:"website"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	Description     string `json:"description"`
	HasSemlor       *bool  `json:"hasSemlor,omitempty"`
	SemlorStatus    string `json:"semlorStatus,omitempty"`
}

// UpdateBakeryRequest captures partial updates for PUT /api/bakeries/:id.
type UpdateBakeryRequest struct {
	Name            *string `json:"name,omitempty"`
	InstagramHandle *string `json:"instagramHandle,omitempty"`
	Website         *string `json:"website,omitempty"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Description     *string `json:"description,omitempty"`
	HasSemlor       *bool   `json:"hasSemlor,omitempty"`
	SemlorStatus    *string `json:"semlorStatus,omitempty"`
}
