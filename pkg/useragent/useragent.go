package useragent

import "strings"

// DeviceType classifies the client hardware
type DeviceType int

const (
	Desktop DeviceType = iota
	Mobile
	Tablet
	Unknown
)

// String returns string representation of DeviceType
func (d DeviceType) String() string {
	switch d {
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	default:
		return "unknown"
	}
}

// Client is the coarse description of a User-Agent header attached to audit events
type Client struct {
	Device  DeviceType `json:"device"`
	OS      string     `json:"os"`
	Browser string     `json:"browser"`
	IsBot   bool       `json:"is_bot"`
}

type pattern struct {
	name     string
	patterns []string
}

var (
	tabletPatterns = []string{
		"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 10", "sm-t", "xoom",
	}

	mobilePatterns = []string{
		"iphone", "ipod", "blackberry", "windows phone", "opera mini", "opera mobi", "mobile",
	}

	// scripts and crawlers hitting the login endpoint
	botPatterns = []string{
		"bot", "crawler", "spider", "scraper", "curl", "wget", "python-requests",
		"go-http-client", "okhttp", "httpclient", "postman", "insomnia", "headless",
	}

	// specific before general
	osPatterns = []pattern{
		{"iOS", []string{"iphone", "ipad", "ipod"}},
		{"Android", []string{"android"}},
		{"HarmonyOS", []string{"harmonyos"}},
		{"Windows Phone", []string{"windows phone"}},
		{"Windows", []string{"windows nt", "win32", "win64"}},
		{"Chrome OS", []string{"cros"}},
		{"macOS", []string{"mac os x", "macintosh"}},
		{"Linux", []string{"linux", "x11"}},
	}

	// browsers built on Chrome advertise "chrome/" too, so they come first
	browserPatterns = []pattern{
		{"Edge", []string{"edg/", "edge/"}},
		{"Opera", []string{"opr/", "opera"}},
		{"Samsung Browser", []string{"samsungbrowser/"}},
		{"Yandex", []string{"yabrowser/"}},
		{"Vivaldi", []string{"vivaldi/"}},
		{"Firefox", []string{"firefox/", "fxios/"}},
		{"Chrome", []string{"chrome/", "crios/"}},
		{"Safari", []string{"safari/"}},
		{"Internet Explorer", []string{"msie", "trident/"}},
	}
)

// Detect classifies userAgent. An empty header yields an Unknown device.
func Detect(userAgent string) Client {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return Client{Device: Unknown, OS: "unknown", Browser: "unknown"}
	}

	return Client{
		Device:  detectDevice(ua),
		OS:      match(ua, osPatterns),
		Browser: match(ua, browserPatterns),
		IsBot:   containsAny(ua, botPatterns),
	}
}

func detectDevice(ua string) DeviceType {
	switch {
	case containsAny(ua, tabletPatterns):
		return Tablet
	case strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return Tablet
	case containsAny(ua, mobilePatterns):
		return Mobile
	case strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") ||
		strings.Contains(ua, "x11") || strings.Contains(ua, "cros"):
		return Desktop
	}
	return Unknown
}

func match(ua string, patterns []pattern) string {
	for _, p := range patterns {
		if containsAny(ua, p.patterns) {
			return p.name
		}
	}
	return "unknown"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
