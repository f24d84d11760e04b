// Package i18n holds the user-facing texts of the order flow in ru, en and uk.
package i18n

import (
	"fmt"
	"strings"

	"github.com/usdt-market/backend/internal/apperr"
)

const (
	LangRU = "ru"
	LangEN = "en"
	LangUK = "uk"

	DefaultLang = LangRU
)

type Key string

const (
	Welcome Key = "welcome"

	ChooseNetwork    Key = "choose_network"
	NetworkTRC20     Key = "network_trc20"
	NetworkERC20     Key = "network_erc20"
	NetworkBEP20     Key = "network_bep20"
	BtnBack          Key = "btn_back"
	BtnSentPayment   Key = "btn_sent_payment"
	BtnCheckPayment  Key = "btn_check_payment"
	BtnCancelOrder   Key = "btn_cancel_order"
	BtnBackToProduct Key = "btn_back_to_product"
	BtnReview        Key = "btn_review"
	BtnMyOrders      Key = "btn_my_orders"

	PayTitle      Key = "pay_title"
	PayAmount     Key = "pay_amount"
	PayCommission Key = "pay_commission"
	PayTotal      Key = "pay_total"
	PayNetwork    Key = "pay_network"
	PayOrderID    Key = "pay_order_id"
	PayAddress    Key = "pay_address"
	PayImportant  Key = "pay_important"
	PayNoteExact  Key = "pay_note_exact"
	PayNoteNet    Key = "pay_note_network"
	PayNoteAuto   Key = "pay_note_auto"
	PayWaiting    Key = "pay_waiting"

	MonitorStopped Key = "monitor_stopped"
	Checking       Key = "checking"
	NotReceived    Key = "not_received"

	StatusPaid      Key = "status_paid"
	StatusDelivered Key = "status_delivered"
	StatusCompleted Key = "status_completed"
	StatusCancelled Key = "status_cancelled"

	DeliveryTitle   Key = "delivery_title"
	DeliveryProduct Key = "delivery_product"
	DeliveryFile    Key = "delivery_file"
	DeliveryText    Key = "delivery_text"
	DeliveryThanks  Key = "delivery_thanks"
	DeliverySupport Key = "delivery_support"
	SellerSale      Key = "seller_sale" // title, price, commission, net

	OrderCancelled Key = "order_cancelled"

	ErrGeneric            Key = "err_generic"
	ErrUserNotFound       Key = "err_user_not_found"
	ErrProductNotFound    Key = "err_product_not_found"
	ErrOwnProduct         Key = "err_own_product"
	ErrNetworkUnavailable Key = "err_network_unavailable"
	ErrNetworkNamed       Key = "err_network_named" // network
	ErrOrderNotFound      Key = "err_order_not_found"
	ErrNotYourOrder       Key = "err_not_your_order"
	ErrCannotCancel       Key = "err_cannot_cancel"
	ErrInvalidState       Key = "err_invalid_state"
	ErrAccessDenied       Key = "err_access_denied"
	ErrNotFound           Key = "err_not_found"
	ErrCreateOrder        Key = "err_create_order"
	ErrCheckPayment       Key = "err_check_payment"
	ErrDelivery           Key = "err_delivery"
)

// Normalize maps any language code onto a supported one.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := texts[lang]; ok {
		return lang
	}
	return DefaultLang
}

// T returns the text for key in lang, formatted with args when given.
// Missing translations fall back to the default language, then to the key.
func T(lang string, key Key, args ...any) string {
	s, ok := texts[Normalize(lang)][key]
	if !ok {
		s, ok = texts[DefaultLang][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// ErrorText translates err by its kind. Unknown errors get the generic text.
func ErrorText(lang string, err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		return T(lang, ErrNetworkUnavailable)
	case apperr.KindNotFound:
		return T(lang, ErrNotFound)
	case apperr.KindAuthorization:
		return T(lang, ErrAccessDenied)
	case apperr.KindInvalidState:
		return T(lang, ErrInvalidState)
	default:
		return T(lang, ErrGeneric)
	}
}

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// EscapeMarkdown escapes user supplied text for Telegram legacy Markdown.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
