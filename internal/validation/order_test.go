package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func TestValidateOrderCreate(t *testing.T) {
	address := "1 Main St, Springfield"
	longAddress := strings.Repeat("a", 501)
	longTracking := strings.Repeat("9", 101)

	tests := []struct {
		name   string
		order  pkgapi.OrderCreate
		fields []string
	}{
		{
			name: "valid",
			order: pkgapi.OrderCreate{
				Items:           []pkgapi.OrderItemCreate{{ProductID: 1, Quantity: 2, Price: 9.5}},
				ShippingAddress: &address,
			},
		},
		{
			name:   "no items",
			order:  pkgapi.OrderCreate{},
			fields: []string{"items"},
		},
		{
			name: "bad item",
			order: pkgapi.OrderCreate{
				Items: []pkgapi.OrderItemCreate{
					{ProductID: 1, Quantity: 1, Price: 1},
					{Quantity: 0, Price: -1},
				},
			},
			fields: []string{"items[1].price", "items[1].product_id", "items[1].quantity"},
		},
		{
			name: "shipping too long",
			order: pkgapi.OrderCreate{
				Items:           []pkgapi.OrderItemCreate{{ProductID: 1, Quantity: 1, Price: 1}},
				ShippingAddress: &longAddress,
				TrackingNumber:  &longTracking,
				Status:          "lost",
			},
			fields: []string{"shipping_address", "status", "tracking_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderCreate(tt.order)
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.fields, sortedKeys(fe))
		})
	}
}

func TestValidateOrderUpdate(t *testing.T) {
	require.NoError(t, ValidateOrderUpdate(pkgapi.OrderUpdate{}))

	status := pkgapi.OrderStatus("lost")
	err := ValidateOrderUpdate(pkgapi.OrderUpdate{Status: &status})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "status")
}
