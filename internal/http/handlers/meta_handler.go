package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/usdt-market/backend/internal/http/dto"
	"github.com/usdt-market/backend/internal/i18n"
	"github.com/usdt-market/backend/internal/middleware"
	"github.com/usdt-market/backend/internal/models"
)

// WalletDirectory resolves the deposit address of a network.
type WalletDirectory interface {
	Wallet(network models.Network) string
	Networks() []models.Network
}

type MetaHandler struct {
	wallets WalletDirectory
}

func NewMetaHandler(wallets WalletDirectory) *MetaHandler {
	return &MetaHandler{wallets: wallets}
}

type MetaLanguage struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var supportedLanguages = []MetaLanguage{
	{ID: i18n.LangRU, Label: "Русский"},
	{ID: i18n.LangEN, Label: "English"},
	{ID: i18n.LangUK, Label: "Українська"},
}

var networkLabels = map[models.Network]i18n.Key{
	models.NetworkTRC20: i18n.NetworkTRC20,
	models.NetworkERC20: i18n.NetworkERC20,
	models.NetworkBEP20: i18n.NetworkBEP20,
}

// GetNetworks lists networks that have a deposit wallet configured.
func (h *MetaHandler) GetNetworks(c *fiber.Ctx) error {
	lang := c.Query("lang", middleware.GetLanguage(c))
	networks := h.wallets.Networks()
	out := make([]dto.NetworkResponse, 0, len(networks))
	for _, n := range networks {
		out = append(out, dto.NetworkResponse{
			Network: n,
			Label:   i18n.T(lang, networkLabels[n]),
			Address: h.wallets.Wallet(n),
		})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: out})
}

func (h *MetaHandler) GetLanguages(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: supportedLanguages})
}
