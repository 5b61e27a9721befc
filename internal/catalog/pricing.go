// Package catalog holds the read-only product catalog and the variant
// pricing engine.
//
// A product's listed price corresponds to the highest-index option on every
// variant axis. Choosing a lower tier on an axis deducts a fixed step amount
// per tier skipped. The engine is pure: the same product and selection always
// produce the same price, which is relied on both for the "From ₹X" minimum
// price on listing pages and for the final add-to-cart price.
package catalog

// StepTable maps a variant axis name to the per-tier deduction for that axis.
// Axes absent from the table contribute no deduction (colors, for example,
// never affect price).
type StepTable map[string]int64

// DefaultSteps returns the step table for the current catalog generation.
func DefaultSteps() StepTable {
	return StepTable{
		"storage": 5000,
		"ram":     2000,
	}
}

// Quote computes the price for one variant selection.
//
// For each axis present in both axes and selection, the deduction is
// (maxIndex - selectedIndex) * step. An axis missing from the selection, or a
// selection value that is not one of the axis options, deducts nothing —
// unknown input never fails a quote. The result is floored at zero.
func (s StepTable) Quote(basePrice int64, axes map[string][]string, selection map[string]string) int64 {
	price := basePrice
	for axis, options := range axes {
		step, ok := s[axis]
		if !ok {
			continue
		}
		chosen, ok := selection[axis]
		if !ok {
			continue
		}
		idx := indexOf(options, chosen)
		if idx < 0 {
			continue
		}
		maxIndex := len(options) - 1
		price -= int64(maxIndex-idx) * step
	}
	if price < 0 {
		return 0
	}
	return price
}

// MinQuote is the lowest price any selection of the given axes can reach:
// the lowest-index option on every axis. Listing pages show it as "From ₹X".
func (s StepTable) MinQuote(basePrice int64, axes map[string][]string) int64 {
	lowest := make(map[string]string, len(axes))
	for axis, options := range axes {
		if len(options) > 0 {
			lowest[axis] = options[0]
		}
	}
	return s.Quote(basePrice, axes, lowest)
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}
