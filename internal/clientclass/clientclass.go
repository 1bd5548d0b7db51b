// Package clientclass classifies calling clients by how reliably their network
// stack holds background sessions. Mobile browser stacks are known to drop
// in-flight auth requests and silently discard long-lived sessions, so the
// verifier retries them and the continuity watchdog monitors them.
package clientclass

import (
	"strings"

	"github.com/mssola/useragent"
)

// Class describes the reliability class of a calling client.
type Class string

const (
	// ClassStable clients fail fast and need no session monitoring.
	ClassStable Class = "stable"
	// ClassUnstable clients get transient-failure retries and background
	// session continuity monitoring.
	ClassUnstable Class = "unstable"
)

// Hint values accepted from the X-Client-Class header. An explicit hint wins
// over user-agent sniffing so native apps can self-report.
const (
	HintStable   = "stable"
	HintUnstable = "unstable"
)

// Detect classifies a client from an optional header hint and its User-Agent.
func Detect(hint, userAgentString string) Class {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case HintStable:
		return ClassStable
	case HintUnstable:
		return ClassUnstable
	}
	return FromUserAgent(userAgentString)
}

// FromUserAgent classifies a client from its User-Agent string alone.
// Mobile browsers are treated as unstable; everything else, including an empty
// or unparseable User-Agent, is stable (fail fast by default).
func FromUserAgent(userAgentString string) Class {
	if userAgentString == "" {
		return ClassStable
	}

	ua := useragent.New(userAgentString)
	if ua.Mobile() {
		return ClassUnstable
	}
	return ClassStable
}

// IsUnstable reports whether the class needs retry and monitoring treatment.
func (c Class) IsUnstable() bool { return c == ClassUnstable }

// Describe extracts a human-readable device display name from a User-Agent
// string for audit details. Returns "Browser on OS" (e.g. "Chrome on Linux").
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
