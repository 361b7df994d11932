package checkout

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cleanshop/cart/internal/domain"
	"github.com/cleanshop/cart/internal/money"
)

type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

var mobileAgent = regexp.MustCompile(`(?i)Mobi|Android`)

// DetectDevice is a coarse user agent sniff.
func DetectDevice(userAgent string) Device {
	if mobileAgent.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// FormatMessage builds the order summary sent to the shop.
func FormatMessage(s domain.Snapshot) string {
	var b strings.Builder
	b.WriteString("🛍️ New Order:\n")
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "• %s (x%d) - %s\n", e.Name, e.Quantity, money.Format(e.LineTotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPlease confirm my order ✅", money.Format(s.Totals.Total))
	return b.String()
}

// BuildLink returns the WhatsApp send link for device.
func BuildLink(device Device, phone, message string) string {
	host := "web.whatsapp.com"
	if device == DeviceMobile {
		host = "api.whatsapp.com"
	}

	q := url.Values{}
	q.Set("phone", phone)
	q.Set("text", message)

	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/send",
		RawQuery: q.Encode(),
	}
	return u.String()
}
