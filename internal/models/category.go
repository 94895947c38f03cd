package models

// CategoryPlaceholder is what the entry form shows before a choice is made.
const CategoryPlaceholder = "Select"

var categories = map[string][]string{
	TypeIncome:  {"Profit"},
	TypeExpense: {"Electricity", "Salaries", "Water", "Raw Materials", "Rent", "Other"},
}

// Categories returns the fixed category vocabulary for an entry type.
func Categories(entryType string) []string {
	list := categories[entryType]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// IsValidCategory reports whether category belongs to the vocabulary of entryType.
func IsValidCategory(entryType, category string) bool {
	for _, c := range categories[entryType] {
		if c == category {
			return true
		}
	}
	return false
}
