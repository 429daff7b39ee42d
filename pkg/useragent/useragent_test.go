package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		device  DeviceType
		os      string
		browser string
		bot     bool
	}{
		{
			name:    "chrome on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			device:  Desktop,
			os:      "Windows",
			browser: "Chrome",
		},
		{
			name:    "edge on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.51",
			device:  Desktop,
			os:      "Windows",
			browser: "Edge",
		},
		{
			name:    "opera on linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0",
			device:  Desktop,
			os:      "Linux",
			browser: "Opera",
		},
		{
			name:    "safari on iphone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			device:  Mobile,
			os:      "iOS",
			browser: "Safari",
		},
		{
			name:    "firefox on mac",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.4; rv:125.0) Gecko/20100101 Firefox/125.0",
			device:  Desktop,
			os:      "macOS",
			browser: "Firefox",
		},
		{
			name:    "android phone",
			ua:      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
			device:  Mobile,
			os:      "Android",
			browser: "Chrome",
		},
		{
			name:    "android tablet",
			ua:      "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			device:  Tablet,
			os:      "Android",
			browser: "Chrome",
		},
		{
			name:    "ipad",
			ua:      "Mozilla/5.0 (iPad; CPU OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			device:  Tablet,
			os:      "iOS",
			browser: "Safari",
		},
		{
			name:    "curl",
			ua:      "curl/8.5.0",
			device:  Unknown,
			os:      "unknown",
			browser: "unknown",
			bot:     true,
		},
		{
			name:    "googlebot",
			ua:      "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			device:  Unknown,
			os:      "unknown",
			browser: "unknown",
			bot:     true,
		},
		{
			name:    "go client",
			ua:      "Go-http-client/1.1",
			device:  Unknown,
			os:      "unknown",
			browser: "unknown",
			bot:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.ua)
			assert.Equal(t, tt.device, got.Device, "device")
			assert.Equal(t, tt.os, got.OS, "os")
			assert.Equal(t, tt.browser, got.Browser, "browser")
			assert.Equal(t, tt.bot, got.IsBot, "bot")
		})
	}
}

func TestDetectEmpty(t *testing.T) {
	got := Detect("   ")
	assert.Equal(t, Unknown, got.Device)
	assert.Equal(t, "unknown", got.OS)
	assert.False(t, got.IsBot)
}

func TestDeviceTypeString(t *testing.T) {
	assert.Equal(t, "desktop", Desktop.String())
	assert.Equal(t, "mobile", Mobile.String())
	assert.Equal(t, "tablet", Tablet.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "unknown", DeviceType(42).String())
}
