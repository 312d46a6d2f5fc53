package pricing

import "salonbook/models"

// Selection is an insertion-ordered set of services, unique by id.
type Selection []models.ServiceItem

// Toggle adds the item when absent and removes it when present. It reports whether
// the item is selected afterwards.
func (s *Selection) Toggle(item models.ServiceItem) bool {
	for i, it := range *s {
		if it.ID == item.ID {
			*s = append((*s)[:i:i], (*s)[i+1:]...)
			return false
		}
	}
	*s = append(*s, item)
	return true
}

func (s Selection) Contains(id string) bool {
	for _, it := range s {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s Selection) Len() int { return len(s) }

// Categories lists the distinct categories in selection order.
func (s Selection) Categories() []string {
	seen := make(map[string]struct{}, len(s))
	var out []string
	for _, it := range s {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

func (s Selection) Summary() Summary {
	return Calculate(s)
}
