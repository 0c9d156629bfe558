// Package pricing holds the pure price math shared by the audit and
// purchase services. Every write path that touches an item detail's
// price fields goes through these functions so the derived total stays
// consistent with the quantity counters.
package pricing

import "github.com/shopspring/decimal"

// ResolveUnitPrice picks the unit price for a new item detail row:
// the most recent purchase price wins over the item master price,
// and an unpriced item resolves to zero.
func ResolveUnitPrice(latestPurchasePrice, itemMasterPrice *decimal.Decimal) decimal.Decimal {
	if latestPurchasePrice != nil {
		return *latestPurchasePrice
	}
	if itemMasterPrice != nil {
		return *itemMasterPrice
	}
	return decimal.Zero
}

// ComputeTotalPrice derives the total value of an item detail row from
// its unit price and the sum of all quantity counters.
func ComputeTotalPrice(unitPrice decimal.Decimal, active, broken, inactive int) decimal.Decimal {
	total := int64(active) + int64(broken) + int64(inactive)
	return unitPrice.Mul(decimal.NewFromInt(total))
}

// BlendUnitPrice computes the quantity-weighted average cost basis after
// folding a purchase into an existing row:
//
//	(oldTotalPrice + addedCost) / (oldQty + addedQty)
//
// When the resulting quantity is zero the incoming unit price is returned
// instead, since there is nothing to average over.
func BlendUnitPrice(oldTotalPrice, addedCost decimal.Decimal, oldQty, addedQty int, incomingUnitPrice decimal.Decimal) decimal.Decimal {
	totalQty := int64(oldQty) + int64(addedQty)
	if totalQty <= 0 {
		return incomingUnitPrice
	}
	return oldTotalPrice.Add(addedCost).DivRound(decimal.NewFromInt(totalQty), 4)
}
