package catalog

// Product is a read-only catalog record. The catalog owns product data;
// the order side only ever sees priced cart line snapshots.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	// Price is the price at the highest tier of every variant axis
	// (the full-spec configuration).
	Price int64 `json:"price"`
	// OriginalPrice is the pre-discount reference price used for the
	// strike-through display.
	OriginalPrice int64 `json:"originalPrice,omitempty"`
	// Variants maps an axis name (storage, ram, colors, ...) to its option
	// labels ordered from lowest to highest tier.
	Variants map[string][]string `json:"variants,omitempty"`
	// VariantSteps optionally overrides the catalog-wide step table for
	// this product generation.
	VariantSteps StepTable `json:"variantSteps,omitempty"`
}
