package service

import (
	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// LogAuthAttempt records an authentication attempt, successful or not.
func (s *Service) LogAuthAttempt(user, ip string, success bool) {
	e := auditDomain.New(auditDomain.AuthAttempt)
	e.User, e.Metadata = user, map[string]string{"ip": ip, "success": boolString(success)}
	e.Severity = apperrors.SeverityLow
	if !success {
		e.Severity = apperrors.SeverityMedium
	}
	s.Log(e)
}

// LogAuthzCheck records an authorization decision for a request path.
func (s *Service) LogAuthzCheck(user, path string, allowed bool) {
	e := auditDomain.New(auditDomain.AuthzCheck)
	e.User, e.Message = user, path
	e.Severity = apperrors.SeverityLow
	if !allowed {
		e.Severity = apperrors.SeverityMedium
	}
	s.Log(e)
}

// LogSystemEvent records an operational event not tied to a specific
// configuration entry (startup, shutdown, key rotation, and similar).
func (s *Service) LogSystemEvent(message string, severity apperrors.Severity) {
	e := auditDomain.New(auditDomain.SystemEvent)
	e.Message, e.Severity = message, severity
	s.Log(e)
}

// LogSecurityEvent records a security pipeline rejection raised by the
// request security pipeline (rate limiting, banning, blocked IP/endpoint,
// input validation failures, and similar).
func (s *Service) LogSecurityEvent(kind apperrors.SecurityKind, severity apperrors.Severity, ip, message string) {
	e := auditDomain.New(auditDomain.SecurityEvent)
	e.Severity, e.Message = severity, message
	e.Metadata = map[string]string{"ip": ip, "kind": string(kind)}
	s.Log(e)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
