package bot

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/usdt-market/backend/internal/models"
)

type Action string

const (
	ActionBuyProduct    Action = "buy_product"
	ActionSelectNetwork Action = "select_network"
	ActionCheckPayment  Action = "check_payment"
	ActionCancelOrder   Action = "cancel_order"
	ActionViewProduct   Action = "view_product"
)

// Callback is parsed inline button data. ID is the product for buy, view and
// select_network, the order otherwise.
type Callback struct {
	Action  Action
	Network models.Network
	ID      uuid.UUID
}

// ParseCallback decodes callback data such as "select_network_TRC20_<uuid>".
func ParseCallback(data string) (Callback, error) {
	for _, action := range []Action{ActionBuyProduct, ActionSelectNetwork, ActionCheckPayment, ActionCancelOrder, ActionViewProduct} {
		rest, ok := strings.CutPrefix(data, string(action)+"_")
		if !ok {
			continue
		}
		cb := Callback{Action: action}
		if action == ActionSelectNetwork {
			net, id, ok := strings.Cut(rest, "_")
			if !ok {
				return Callback{}, fmt.Errorf("callback %q: missing product id", data)
			}
			network, known := models.ParseNetwork(net)
			if !known {
				return Callback{}, fmt.Errorf("callback %q: unknown network", data)
			}
			cb.Network = network
			rest = id
		}
		id, err := uuid.Parse(rest)
		if err != nil {
			return Callback{}, fmt.Errorf("callback %q: %w", data, err)
		}
		cb.ID = id
		return cb, nil
	}
	return Callback{}, fmt.Errorf("unknown callback %q", data)
}

func BuyProductData(productID uuid.UUID) string {
	return string(ActionBuyProduct) + "_" + productID.String()
}

func ViewProductData(productID uuid.UUID) string {
	return string(ActionViewProduct) + "_" + productID.String()
}

func SelectNetworkData(network models.Network, productID uuid.UUID) string {
	return string(ActionSelectNetwork) + "_" + string(network) + "_" + productID.String()
}

func CheckPaymentData(orderID uuid.UUID) string {
	return string(ActionCheckPayment) + "_" + orderID.String()
}

func CancelOrderData(orderID uuid.UUID) string {
	return string(ActionCancelOrder) + "_" + orderID.String()
}
