package types

import "time"

// Valid values for the Status field of an Asset.
var AssetStatuses = []string{"Active", "Inactive", "Under Maintenance", "Disposed", "Lost"}

// Valid values for the Ownership field of an Asset.
var OwnershipOptions = []string{"Company", "Leased", "Rented"}

// Asset represents a tracked physical asset.
//
// Foreign references (category, subcategory, brand, location) are held by
// name, matching the referenced record's name field exactly. The row store
// does not enforce referential integrity; dangling names are possible and
// read back as-is.
type Asset struct {
	// RowID is the synthetic identifier of the backing row. It is
	// assigned once at creation and is the handle used for updates
	// and deletes, independent of the row's current position.
	RowID string `json:"-"`

	// Code is the generated human-readable asset code, also encoded
	// into the asset's barcode. Intended to be unique; uniqueness is
	// very likely but not guaranteed.
	Code string `json:"code"`

	// ItemName is the human-readable name of the asset.
	ItemName string `json:"item_name"`

	// Category is the name of the asset's category.
	Category string `json:"category"`

	// Subcategory is the name of the asset's subcategory, if any.
	Subcategory string `json:"subcategory"`

	// Brand is the name of the asset's brand, if any.
	Brand string `json:"brand"`

	// Description is free-form descriptive text.
	Description string `json:"description"`

	// Amount is the monetary value of the asset.
	Amount float64 `json:"amount"`

	// Location is the name of the location currently holding the asset.
	// It is updated in place when the asset is moved.
	Location string `json:"location"`

	// PurchaseDate is the date the asset was purchased, zero when unknown.
	PurchaseDate time.Time `json:"purchase_date"`

	// Warranty is free-form warranty text (e.g. "1 Year").
	Warranty string `json:"warranty"`

	// Department is the department the asset is assigned to.
	Department string `json:"department"`

	// Ownership is one of OwnershipOptions, or empty.
	Ownership string `json:"ownership"`

	// Status is one of AssetStatuses.
	Status string `json:"status"`

	// HasImage reports whether an image attachment is stored for the asset.
	HasImage bool `json:"has_image"`

	// HasDocument reports whether a document attachment is stored for the asset.
	HasDocument bool `json:"has_document"`

	// CreatedAt is the timestamp at which the asset record was created.
	CreatedAt time.Time `json:"created_at"`
}

// ValidAssetStatus reports whether s is a recognized asset status.
func ValidAssetStatus(s string) bool {
	for _, v := range AssetStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidOwnership reports whether s is a recognized ownership value.
// The empty string is accepted: ownership is optional.
func ValidOwnership(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range OwnershipOptions {
		if v == s {
			return true
		}
	}
	return false
}
