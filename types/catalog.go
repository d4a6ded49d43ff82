package types

// Location is a physical place assets can be assigned to.
// The name acts as the de facto unique key; other records reference
// locations by name.
type Location struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// Name is the location's display name and reference key.
	Name string `json:"name"`

	// Address is the location's street address, if any.
	Address string `json:"address"`

	// Description is free-form descriptive text.
	Description string `json:"description"`
}

// Category groups assets at the top level.
type Category struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// Name is the category's display name and reference key.
	Name string `json:"name"`

	// Code is the short code used in generated asset codes. When not
	// supplied it defaults to the first three letters of the name,
	// uppercased.
	Code string `json:"code"`

	// Description is free-form descriptive text.
	Description string `json:"description"`
}

// Subcategory groups assets below a category. The parent category is
// referenced by name, not by identifier.
type Subcategory struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// Category is the name of the parent category.
	Category string `json:"category"`

	// Name is the subcategory's display name.
	Name string `json:"name"`

	// Code is the short code used in generated asset codes, defaulted
	// like Category.Code.
	Code string `json:"code"`

	// Description is free-form descriptive text.
	Description string `json:"description"`
}

// Brand is a manufacturer or vendor label assignable to assets.
type Brand struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// Name is the brand's display name and reference key.
	Name string `json:"name"`

	// Description is free-form descriptive text.
	Description string `json:"description"`
}

// AssetType is a free-form classification label kept alongside the
// category tree.
type AssetType struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// Name is the asset type's display name.
	Name string `json:"name"`

	// Description is free-form descriptive text.
	Description string `json:"description"`
}
