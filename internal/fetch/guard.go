package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrBlockedAddress is returned when a URL resolves to a loopback, private,
// link-local or otherwise non-public address.
var ErrBlockedAddress = errors.New("address is not publicly routable")

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// blockedIP reports whether ip must not be dialed for an untrusted URL.
func blockedIP(ip net.IP) bool {
	return ip == nil ||
		ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip)
}

// guardControl rejects connections to blocked addresses. It runs after DNS
// resolution, so redirects and rebinding are covered too.
func guardControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if blockedIP(net.ParseIP(host)) {
		return fmt.Errorf("dial %s: %w", host, ErrBlockedAddress)
	}
	return nil
}

// guardedClient returns an HTTP client whose dialer refuses blocked addresses.
func guardedClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   guardControl,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.Proxy = nil
	return &http.Client{Timeout: timeout, Transport: transport}
}

// CheckHost resolves the host of rawURL and fails with ErrBlockedAddress when
// any of its addresses is blocked. It is the pre-flight check for fetchers
// that do not dial through guardedClient, such as the headless browser.
func CheckHost(ctx context.Context, rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	parsed, _ := url.Parse(rawURL)
	host := parsed.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		if blockedIP(ip) {
			return &Error{URL: rawURL, Message: "refusing to fetch", Cause: ErrBlockedAddress}
		}
		return nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return &Error{URL: rawURL, Message: "failed to resolve host", Cause: err}
	}
	for _, addr := range addrs {
		if blockedIP(addr.IP) {
			return &Error{URL: rawURL, Message: "refusing to fetch", Cause: ErrBlockedAddress}
		}
	}
	return nil
}
