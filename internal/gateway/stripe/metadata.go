package stripe

import (
	"encoding/json"
	"strconv"

	"storefront/internal/domain"
)

const (
	// maxNameLen truncates item names inside session metadata.
	maxNameLen = 50

	// maxCartJSONLen is the safety threshold for the serialized minimal cart.
	// Stripe enforces a 500-character limit per metadata value; beyond this
	// the metadata degrades to product IDs only.
	maxCartJSONLen = 450
)

type metadataItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// buildMetadata packs minimal cart data (id, truncated name, price) into
// session metadata, falling back to an IDs-only form when the JSON would
// exceed the per-value safety threshold.
func buildMetadata(cart domain.Cart) (map[string]string, error) {
	if len(cart) == 0 {
		return nil, nil
	}

	minimal := make([]metadataItem, 0, len(cart))
	ids := make([]string, 0, len(cart))
	for _, entry := range cart {
		name := entry.Name
		if name == "" {
			name = "Product"
		} else {
			name = truncate(name, maxNameLen)
		}
		minimal = append(minimal, metadataItem{
			ID:    entry.ID,
			Name:  name,
			Price: entry.Price.String(),
		})
		ids = append(ids, entry.ID)
	}

	cartJSON, err := json.Marshal(minimal)
	if err != nil {
		return nil, err
	}
	if len(cartJSON) <= maxCartJSONLen {
		return map[string]string{"orderData": string(cartJSON)}, nil
	}

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"productIds": string(idsJSON),
		"itemCount":  strconv.Itoa(len(cart)),
	}, nil
}
