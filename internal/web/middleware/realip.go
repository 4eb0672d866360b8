package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For, but
// only for requests whose connection comes from a trusted proxy. Rate
// limiting and request logs key on RemoteAddr, so untrusted clients must
// not be able to pick their own address.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	proxies := parseProxies(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if proxies.contains(extractIP(r.RemoteAddr)) {
				if ip := forwardedIP(r.Header); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type proxySet []*net.IPNet

// parseProxies accepts CIDRs and bare IPs. Invalid entries are logged and
// skipped.
func parseProxies(entries []string) proxySet {
	var set proxySet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			set = append(set, network)
			continue
		}

		ip := net.ParseIP(entry)
		if ip == nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "entry", entry)
			continue
		}
		bits := 128
		if ip.To4() != nil {
			ip, bits = ip.To4(), 32
		}
		set = append(set, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return set
}

func (s proxySet) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, network := range s {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// forwardedIP returns X-Real-IP, else the first X-Forwarded-For entry, if
// it parses as an IP.
func forwardedIP(h http.Header) net.IP {
	if rip := strings.TrimSpace(h.Get("X-Real-IP")); rip != "" {
		return net.ParseIP(rip)
	}
	xff := h.Get("X-Forwarded-For")
	if xff == "" {
		return nil
	}
	first, _, _ := strings.Cut(xff, ",")
	return net.ParseIP(strings.TrimSpace(first))
}

// extractIP parses an IP address from a host:port string or plain IP.
func extractIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
