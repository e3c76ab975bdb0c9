package security

import (
	"strings"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// tlsVersionRank maps the accepted minimum-TLS-version strings to a
// comparable rank, so the minimum-version check is a plain integer
// comparison instead of a string switch.
var tlsVersionRank = map[string]int{
	"1.0": 10,
	"1.1": 11,
	"1.2": 12,
	"1.3": 13,
}

// IPPolicy is an exact-string blocklist check against the source IP.
type IPPolicy struct {
	Blocklist map[string]struct{}
}

// NewIPPolicy builds an IPPolicy from a blocklist slice.
func NewIPPolicy(blocklist []string) IPPolicy {
	set := make(map[string]struct{}, len(blocklist))
	for _, ip := range blocklist {
		set[ip] = struct{}{}
	}
	return IPPolicy{Blocklist: set}
}

// Check rejects the request if ip is an exact match in the blocklist.
func (p IPPolicy) Check(ip string) *apperrors.SecurityError {
	if _, blocked := p.Blocklist[ip]; blocked {
		return apperrors.NewSecurityError(
			apperrors.SecurityKindIPBlocked, apperrors.SeverityHigh,
			"Request rejected due to security policy", "ip on blocklist",
		)
	}
	return nil
}

// TLSPolicy enforces the configured TLS requirement and minimum version.
type TLSPolicy struct {
	Require    bool
	MinVersion string
}

// Check derives TLS presence from the canonical X-Forwarded-Proto header
// value and, if a minimum version is configured, compares it via the
// lexically-ordered rank table.
func (p TLSPolicy) Check(forwardedProto, tlsVersion string) *apperrors.SecurityError {
	isTLS := strings.EqualFold(forwardedProto, "https")
	if p.Require && !isTLS {
		return apperrors.NewSecurityError(
			apperrors.SecurityKindTLSRequired, apperrors.SeverityMedium,
			"Request rejected due to security policy", "tls required but absent",
		)
	}
	if p.MinVersion == "" || !isTLS {
		return nil
	}
	want, ok := tlsVersionRank[p.MinVersion]
	if !ok {
		return nil
	}
	got, ok := tlsVersionRank[tlsVersion]
	if !ok || got < want {
		return apperrors.NewSecurityError(
			apperrors.SecurityKindTLSRequired, apperrors.SeverityMedium,
			"Request rejected due to security policy", "tls version below minimum",
		)
	}
	return nil
}

// EndpointPolicy matches an endpoint path against allow/block lists using
// `*` (match-all), `prefix*`, `*suffix`, and exact-match patterns.
type EndpointPolicy struct {
	Blocklist []string
	Allowlist []string
}

// Check rejects on a blocklist match first; if an allowlist is configured
// and nothing in it matches, it also rejects.
func (p EndpointPolicy) Check(path string) *apperrors.SecurityError {
	for _, pattern := range p.Blocklist {
		if matchEndpointPattern(pattern, path) {
			return endpointRejected()
		}
	}
	if len(p.Allowlist) == 0 {
		return nil
	}
	for _, pattern := range p.Allowlist {
		if matchEndpointPattern(pattern, path) {
			return nil
		}
	}
	return endpointRejected()
}

func endpointRejected() *apperrors.SecurityError {
	return apperrors.NewSecurityError(
		apperrors.SecurityKindEndpointBlocked, apperrors.SeverityMedium,
		"Request rejected due to security policy", "endpoint policy rejected path",
	)
}

func matchEndpointPattern(pattern, path string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*") && strings.HasPrefix(pattern, "*"):
		return strings.Contains(path, strings.Trim(pattern, "*"))
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(path, strings.TrimPrefix(pattern, "*"))
	default:
		return pattern == path
	}
}

// CheckRequestSize rejects requests whose Content-Length exceeds max.
// A non-positive max disables the check.
func CheckRequestSize(contentLength, max int64) *apperrors.SecurityError {
	if max <= 0 || contentLength <= max {
		return nil
	}
	return apperrors.NewSecurityError(
		apperrors.SecurityKindPayloadTooLarge, apperrors.SeverityLow,
		"Request rejected due to security policy", "content length exceeds maximum",
	)
}
