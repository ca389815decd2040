package whatsapp

import (
	"net/url"
	"regexp"
)

// BusinessPhone is the fixed destination number in E.164 digits without the
// plus sign. It is never user input.
const BusinessPhone = "50768257958"

type DeviceClass int

const (
	DeviceDesktop DeviceClass = iota
	DeviceMobile
)

var mobileUA = regexp.MustCompile(`(?i)android|ipad|iphone|ipod|blackberry|iemobile|opera mini`)

// DetectDevice classifies a user agent as mobile or not. The result is
// captured once per session and not re-checked mid-flow.
func DetectDevice(userAgent string) DeviceClass {
	if mobileUA.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// Link builds the destination URI for the outbound message: the native app
// scheme on mobile, the wa.me web gateway elsewhere. The same message text is
// embedded in both.
func Link(device DeviceClass, phone, message string) string {
	text := url.QueryEscape(message)
	if device == DeviceMobile {
		return "whatsapp://send?phone=" + phone + "&text=" + text
	}
	return "https://wa.me/" + phone + "?text=" + text
}
