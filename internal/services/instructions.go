package services

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/usdt-market/backend/internal/i18n"
)

const qrSize = 400

// QRCode renders the deposit address as a PNG. The payload is the plain address.
func QRCode(address string) ([]byte, error) {
	q, err := qrcode.New(address, qrcode.Highest)
	if err != nil {
		return nil, err
	}
	return q.PNG(qrSize)
}

// PaymentInstructions is the Markdown caption shown under the QR code.
func PaymentInstructions(info PaymentInfo, lang string) string {
	t := func(k i18n.Key) string { return i18n.T(lang, k) }
	total := info.Amount.String()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", t(i18n.PayTitle))
	fmt.Fprintf(&b, "%s: %s USDT\n", t(i18n.PayAmount), info.ProductPrice.String())
	fmt.Fprintf(&b, "%s: %s USDT\n", t(i18n.PayCommission), info.Commission.String())
	fmt.Fprintf(&b, "%s: *%s USDT*\n", t(i18n.PayTotal), total)
	fmt.Fprintf(&b, "%s: %s\n", t(i18n.PayNetwork), info.Network)
	fmt.Fprintf(&b, "%s: `%s`\n\n", t(i18n.PayOrderID), info.OrderRef)
	fmt.Fprintf(&b, "%s:\n`%s`\n\n", t(i18n.PayAddress), info.Address)
	fmt.Fprintf(&b, "%s:\n", t(i18n.PayImportant))
	fmt.Fprintf(&b, "%s %s USDT\n", t(i18n.PayNoteExact), total)
	fmt.Fprintf(&b, "%s %s\n", t(i18n.PayNoteNet), info.Network)
	fmt.Fprintf(&b, "%s\n\n", t(i18n.PayNoteAuto))
	b.WriteString(t(i18n.PayWaiting))
	return b.String()
}
