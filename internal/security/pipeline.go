package security

import (
	"log/slog"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Auditor is the narrow interface the pipeline needs to record a
// rejection, satisfied structurally by audit/service.Service without the
// security package importing it directly (same narrow-interface pattern
// as configstore/usecase.Auditor).
type Auditor interface {
	LogSecurityEvent(kind apperrors.SecurityKind, severity apperrors.Severity, ip, message string)
}

// Request carries everything the pipeline's seven stages need, decoupled
// from any particular HTTP framework so the HTTP layer can adapt a
// *gin.Context into this shape.
type Request struct {
	IP              string
	Path            string
	RawQuery        string
	ContentLength   int64
	Authenticated   bool
	UserID          string
	SessionID       string
	ForwardedProto  string
	TLSVersion      string
}

// Config bundles the policy parameters read from application config.
type Config struct {
	RateLimit          RateLimitConfig
	IPBlocklist        []string
	RequireTLS         bool
	MinTLSVersion      string
	EndpointBlocklist  []string
	EndpointAllowlist  []string
	MaxRequestBodySize int64
}

// Pipeline evaluates the seven fixed-order security stages from spec
// §4.5: rate limit, IP block, TLS policy, endpoint policy, input
// validation, request size, security context construction.
type Pipeline struct {
	rateLimiter *RateLimiter
	ipPolicy    IPPolicy
	tlsPolicy   TLSPolicy
	endpoint    EndpointPolicy
	maxBodySize int64
	auditor     Auditor
	logger      *slog.Logger
}

// NewPipeline builds a Pipeline from config. auditor and logger are both
// optional.
func NewPipeline(cfg Config, auditor Auditor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		rateLimiter: NewRateLimiter(cfg.RateLimit, logger),
		ipPolicy:    NewIPPolicy(cfg.IPBlocklist),
		tlsPolicy:   TLSPolicy{Require: cfg.RequireTLS, MinVersion: cfg.MinTLSVersion},
		endpoint:    EndpointPolicy{Blocklist: cfg.EndpointBlocklist, Allowlist: cfg.EndpointAllowlist},
		maxBodySize: cfg.MaxRequestBodySize,
		auditor:     auditor,
		logger:      logger,
	}
}

// Evaluate runs all seven stages in order; the first failure aborts and
// returns its SecurityError. On success it returns the constructed
// security context for the request.
func (p *Pipeline) Evaluate(req Request) (*Context, *apperrors.SecurityError) {
	if err := p.rateLimiter.Allow(req.IP, req.Authenticated); err != nil {
		p.reject(req, err)
		return nil, err
	}
	if err := p.ipPolicy.Check(req.IP); err != nil {
		p.reject(req, err)
		return nil, err
	}
	if err := p.tlsPolicy.Check(req.ForwardedProto, req.TLSVersion); err != nil {
		p.reject(req, err)
		return nil, err
	}
	if err := p.endpoint.Check(req.Path); err != nil {
		p.reject(req, err)
		return nil, err
	}
	if err := ValidateInput(req.Path, req.RawQuery); err != nil {
		p.reject(req, err)
		return nil, err
	}
	if err := CheckRequestSize(req.ContentLength, p.maxBodySize); err != nil {
		p.reject(req, err)
		return nil, err
	}

	ctx := BuildContext(req.UserID, req.IP, req.SessionID, map[string]string{"path": req.Path})
	return ctx, nil
}

// Cleanup reaps stale rate limiter state on demand.
func (p *Pipeline) Cleanup() {
	p.rateLimiter.Cleanup()
}

func (p *Pipeline) reject(req Request, err *apperrors.SecurityError) {
	p.logger.Warn("security pipeline rejected request",
		slog.String("kind", string(err.Kind)),
		slog.String("ip", req.IP),
		slog.String("path", req.Path),
	)
	if p.auditor != nil {
		p.auditor.LogSecurityEvent(err.Kind, err.Severity, req.IP, err.PublicMessage)
	}
}
