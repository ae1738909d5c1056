package validation

import (
	"fmt"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const (
	maxShippingAddressLen = 500
	maxTrackingNumberLen  = 100
)

// ValidateOrderCreate проверяет заказ перед отправкой.
// Ошибки позиций адресуются как items[i].field.
func ValidateOrderCreate(o pkgapi.OrderCreate) error {
	errs := FieldErrors{}

	if len(o.Items) == 0 {
		errs.Add("items", "order must contain at least one item")
	}
	for i, item := range o.Items {
		if item.ProductID <= 0 {
			errs.Add(fmt.Sprintf("items[%d].product_id", i), "product id is required")
		}
		if item.Quantity <= 0 {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than 0")
		}
		if !(item.Price > 0) {
			errs.Add(fmt.Sprintf("items[%d].price", i), "price must be greater than 0")
		}
	}
	if o.Status != "" && !o.Status.Valid() {
		errs.Add("status", fmt.Sprintf("unknown status %q", o.Status))
	}
	checkShipping(errs, o.ShippingAddress, o.TrackingNumber)

	return errs.Err()
}

// ValidateOrderUpdate проверяет только заданные поля
func ValidateOrderUpdate(u pkgapi.OrderUpdate) error {
	errs := FieldErrors{}
	if u.Status != nil && !u.Status.Valid() {
		errs.Add("status", fmt.Sprintf("unknown status %q", *u.Status))
	}
	checkShipping(errs, u.ShippingAddress, u.TrackingNumber)
	return errs.Err()
}

func checkShipping(errs FieldErrors, address, tracking *string) {
	if address != nil && runeLen(*address) > maxShippingAddressLen {
		errs.Add("shipping_address", fmt.Sprintf("shipping address must not exceed %d characters", maxShippingAddressLen))
	}
	if tracking != nil && runeLen(*tracking) > maxTrackingNumberLen {
		errs.Add("tracking_number", fmt.Sprintf("tracking number must not exceed %d characters", maxTrackingNumberLen))
	}
}
