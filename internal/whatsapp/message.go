// Package whatsapp turns a cart and checkout form into the outbound order
// message and the destination link for the business's WhatsApp number.
package whatsapp

import (
	"fmt"
	"strings"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/cart"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
)

const (
	header    = "🍽️ *NUEVO PEDIDO - LA COCINA DE ANITA*"
	separator = "━━━━━━━━━━━━━━━━━━━━"
	closing   = "¡Gracias por elegir La Cocina de Anita! 🙏"
)

// Message renders the order summary sent to the business. It is pure: the
// same items and form always produce byte-identical output, which the
// compare-and-resend path depends on.
func Message(items []cart.LineItem, form domain.CheckoutForm) string {
	var b strings.Builder
	b.WriteString(header + "\n\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", form.CustomerName)
	fmt.Fprintf(&b, "📱 *Teléfono:* %s\n", form.CustomerPhone)
	fmt.Fprintf(&b, "📍 *Dirección:* %s\n", form.CustomerAddress)
	if form.PaymentMethod != "" {
		fmt.Fprintf(&b, "💳 *Método de Pago:* %s\n", form.PaymentMethod)
	}
	b.WriteString("\n🛒 *PEDIDO:*\n")
	b.WriteString(separator + "\n")

	total := 0.0
	for i, li := range items {
		subtotal := domain.Round2(li.Subtotal())
		total += subtotal
		fmt.Fprintf(&b, "%d. %s\n", i+1, li.Item.Name)
		fmt.Fprintf(&b, "   • Cantidad: %d\n", li.Quantity)
		fmt.Fprintf(&b, "   • Precio unitario: $%.2f\n", li.Item.Price)
		fmt.Fprintf(&b, "   • Subtotal: $%.2f\n", subtotal)
		if li.Notes != "" {
			fmt.Fprintf(&b, "   • Notas: %s\n", li.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "💰 *TOTAL: $%.2f*\n\n", domain.Round2(total))

	if form.SpecialNotes != "" {
		fmt.Fprintf(&b, "📝 *Notas especiales:*\n%s\n\n", form.SpecialNotes)
	}
	if form.DeliveryDate != nil {
		fmt.Fprintf(&b, "📅 *Fecha de entrega solicitada:* %s\n\n",
			form.DeliveryDate.In(domain.BusinessLocation()).Format("02/01/2006 15:04"))
	}

	b.WriteString(closing)
	return b.String()
}
