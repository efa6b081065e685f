package domain

// ProductBasic is the normalised view of a product catalogue entry.
type ProductBasic struct {
	ProductID    int
	PartNumber   string
	Description  string
	Manufacturer string
	IsActive     *bool
	FamilyID     int
}

// ProductCreatePayload describes a new catalogue entry.
// ManufacturerID is mandatory; the backend rejects products without one.
type ProductCreatePayload struct {
	PartNumber     string
	Description    string
	ManufacturerID int
	FamilyID       *int
}

// ProductPatch is a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	PartNumber     *string `json:"part_number,omitempty"`
	Description    *string `json:"description,omitempty"`
	ManufacturerID *int    `json:"manufacturer_id,omitempty"`
	FamilyID       *int    `json:"family_id,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}
