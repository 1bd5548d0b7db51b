package clientclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaMobileSafari = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
	uaAndroid      = "Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Mobile Safari/537.36"
	uaDesktop      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
)

func TestFromUserAgent(t *testing.T) {
	t.Run("mobile safari is unstable", func(t *testing.T) {
		assert.Equal(t, ClassUnstable, FromUserAgent(uaMobileSafari))
	})

	t.Run("android chrome is unstable", func(t *testing.T) {
		assert.Equal(t, ClassUnstable, FromUserAgent(uaAndroid))
	})

	t.Run("desktop chrome is stable", func(t *testing.T) {
		assert.Equal(t, ClassStable, FromUserAgent(uaDesktop))
	})

	t.Run("empty user agent is stable", func(t *testing.T) {
		assert.Equal(t, ClassStable, FromUserAgent(""))
	})
}

func TestDetect(t *testing.T) {
	t.Run("explicit hint wins over user agent", func(t *testing.T) {
		assert.Equal(t, ClassStable, Detect("stable", uaMobileSafari))
		assert.Equal(t, ClassUnstable, Detect("unstable", uaDesktop))
	})

	t.Run("unknown hint falls back to sniffing", func(t *testing.T) {
		assert.Equal(t, ClassUnstable, Detect("quantum", uaAndroid))
	})

	t.Run("empty hint falls back to sniffing", func(t *testing.T) {
		assert.Equal(t, ClassStable, Detect("", uaDesktop))
	})
}

func TestDescribe(t *testing.T) {
	t.Run("empty user agent", func(t *testing.T) {
		assert.Equal(t, "Unknown Device", Describe(""))
	})

	t.Run("desktop browser", func(t *testing.T) {
		assert.Contains(t, Describe(uaDesktop), "Chrome")
	})
}
