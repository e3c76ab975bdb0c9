package service

import (
	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// ConfigAuditor adapts Service to the configstore usecase package's narrow
// Auditor interface, translating each configuration-engine event into an
// audit Event with severity and fields appropriate to its kind.
type ConfigAuditor struct {
	service *Service
}

// NewConfigAuditor wraps service as a configuration-engine Auditor.
func NewConfigAuditor(service *Service) *ConfigAuditor {
	return &ConfigAuditor{service: service}
}

func (a *ConfigAuditor) LogConfigCreated(ns, key string, env configDomain.Environment, user string, version int) {
	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Severity = apperrors.SeverityLow
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	e.NewVersion = version
	a.service.Log(e)
}

func (a *ConfigAuditor) LogConfigUpdated(ns, key string, env configDomain.Environment, user string, oldVersion, newVersion int) {
	e := auditDomain.New(auditDomain.ConfigUpdated)
	e.Severity = apperrors.SeverityLow
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	e.OldVersion, e.NewVersion = oldVersion, newVersion
	a.service.Log(e)
}

func (a *ConfigAuditor) LogConfigDeleted(ns, key string, env configDomain.Environment, user string) {
	e := auditDomain.New(auditDomain.ConfigDeleted)
	e.Severity = apperrors.SeverityMedium
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	a.service.Log(e)
}

func (a *ConfigAuditor) LogConfigAccessed(ns, key string, env configDomain.Environment, user string) {
	e := auditDomain.New(auditDomain.ConfigAccessed)
	e.Severity = apperrors.SeverityLow
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	a.service.Log(e)
}

func (a *ConfigAuditor) LogConfigRolledBack(ns, key string, env configDomain.Environment, user string, fromVersion, toVersion int) {
	e := auditDomain.New(auditDomain.ConfigRolledBack)
	e.Severity = apperrors.SeverityMedium
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	e.FromVersion, e.ToVersion = fromVersion, toVersion
	a.service.Log(e)
}

func (a *ConfigAuditor) LogSecretModified(ns, key string, env configDomain.Environment, user string) {
	e := auditDomain.New(auditDomain.SecretModified)
	e.Severity = apperrors.SeverityHigh
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	a.service.Log(e)
}

func (a *ConfigAuditor) LogSecretAccessed(ns, key string, env configDomain.Environment, user string) {
	e := auditDomain.New(auditDomain.SecretAccessed)
	e.Severity = apperrors.SeverityHigh
	e.Namespace, e.Key, e.Environment, e.User = ns, key, string(env), user
	a.service.Log(e)
}
