package dto

type AuthTelegramRequest struct {
	InitData string `json:"init_data"`
}

type CreateOrderRequest struct {
	ProductID string `json:"product_id"`
	Network   string `json:"network"` // TRC20 / ERC20 / BEP20
}
