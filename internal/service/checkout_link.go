package service

import (
	"fmt"
	"net/url"
	"strings"
)

// CheckoutLink builds the wa.me link that hands the order over to the shop's chat.
func CheckoutLink(phone string, r *Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo, saya ingin memesan (Order #%d):\n", r.Order.ID)
	for _, it := range r.Order.Items {
		name := r.ProductNames[it.ProductID]
		if name == "" {
			name = fmt.Sprintf("Produk #%d", it.ProductID)
		}
		fmt.Fprintf(&b, "- %s x %d = %s\n", name, it.Qty, it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s", r.Order.Total.StringFixed(2))

	text := strings.ReplaceAll(url.QueryEscape(b.String()), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}
