package security

import (
	"regexp"
	"strings"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Detector patterns are compiled once at package scope rather than per
// call. No third-party library offers SQLi/XSS/path-traversal detection;
// regexp is the right standard-library tool for fixed signature matching.
var (
	sqlInjectionPattern = regexp.MustCompile(`(?i)(\b(union|select|insert|update|delete|drop|alter|exec|execute)\b\s|--|;|'\s*or\s*'|\bor\b\s+1\s*=\s*1|\/\*|\*\/)`)
	xssPattern          = regexp.MustCompile(`(?i)(<\s*script|<\s*iframe|javascript:|on\w+\s*=|eval\s*\(|expression\s*\()`)
	pathTraversalPattern = regexp.MustCompile(`(\.\.(/|\\)|%2e%2e(%2f|%5c)|\.\.%2f|%2e%2e/)`)
	shellMetaPattern    = regexp.MustCompile("[;&|$`\\\\]|\\$\\(|>\\(|<\\(")
	ldapInjectionPattern = regexp.MustCompile(`[()&|!*\x00]`)
)

const maxValidatedLength = 8192

// ValidateInput runs the path and each '&'-separated query parameter
// through the detector set, plus a maximum-length check on the path and
// the whole query string. Any match aborts with BadRequest(400) and
// the specific kind that tripped, with a sanitized public message.
func ValidateInput(path, rawQuery string) *apperrors.SecurityError {
	if len(rawQuery) > maxValidatedLength {
		return rejectInput(apperrors.SecurityKindOversize, "input exceeds maximum length")
	}
	for _, s := range append([]string{path}, strings.Split(rawQuery, "&")...) {
		if len(s) > maxValidatedLength {
			return rejectInput(apperrors.SecurityKindOversize, "input exceeds maximum length")
		}
		if sqlInjectionPattern.MatchString(s) {
			return rejectInput(apperrors.SecurityKindSQLInjection, "sql injection pattern matched")
		}
		if xssPattern.MatchString(s) {
			return rejectInput(apperrors.SecurityKindXSS, "xss pattern matched")
		}
		if pathTraversalPattern.MatchString(s) {
			return rejectInput(apperrors.SecurityKindPathTraversal, "path traversal pattern matched")
		}
		if shellMetaPattern.MatchString(s) {
			return rejectInput(apperrors.SecurityKindCommandInjection, "shell metacharacter matched")
		}
		if ldapInjectionPattern.MatchString(s) {
			return rejectInput(apperrors.SecurityKindLDAPInjection, "ldap injection pattern matched")
		}
	}
	return nil
}

func rejectInput(kind apperrors.SecurityKind, detail string) *apperrors.SecurityError {
	return apperrors.NewSecurityError(kind, apperrors.SeverityHigh, "Request rejected due to security policy", detail)
}
