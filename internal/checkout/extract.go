package checkout

import (
	"fmt"
	"strings"

	"github.com/kasoahq/checkout-backend/pkg/errors"
)

// CreatedOrder is the identity of an order pulled from a loosely-shaped
// creation response.
type CreatedOrder struct {
	ID          string
	OrderNumber string
	Raw         map[string]any
}

// orderContainerPaths locate the order object itself inside the response.
// The empty path means the response is the order.
var orderContainerPaths = [][]string{
	{},
	{"data"},
	{"order"},
	{"data", "order"},
	{"result"},
}

var orderIDKeys = []string{"id", "_id", "order_id", "orderId"}

var orderNumberKeys = []string{"order_number", "orderNumber", "number", "reference"}

// ExtractOrder walks the known response shapes looking for an object with an
// id-like field. No match fails closed: proceeding with an undefined order
// id would corrupt everything downstream, and the order may already exist,
// so the failure is integrity-fatal rather than retryable.
func ExtractOrder(resp map[string]any) (*CreatedOrder, error) {
	for _, path := range orderContainerPaths {
		container, ok := digMap(resp, path)
		if !ok {
			continue
		}
		id, ok := firstString(container, orderIDKeys)
		if !ok {
			continue
		}
		number, _ := firstString(container, orderNumberKeys)
		return &CreatedOrder{ID: id, OrderNumber: number, Raw: container}, nil
	}
	return nil, errors.NewReason(errors.CodeStateConflict, errors.ReasonOrderExtractionFailed, "order created but response shape unrecognized")
}

// digMap resolves a nested map at the given key path.
func digMap(m map[string]any, path []string) (map[string]any, bool) {
	current := m
	for _, key := range path {
		value, ok := current[key]
		if !ok {
			return nil, false
		}
		current, ok = value.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// firstString returns the first non-empty value among keys, coercing
// numeric ids to their decimal string form.
func firstString(m map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		value, ok := m[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v, true
			}
		case float64:
			if v == float64(int64(v)) {
				return fmt.Sprintf("%d", int64(v)), true
			}
			return fmt.Sprintf("%v", v), true
		}
	}
	return "", false
}
