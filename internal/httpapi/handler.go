package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/usecase"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/httpapi/dto"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/httputil"
)

// ConfigHandler serves the /api/v1/configs routes, delegating every
// operation to the configuration engine (usecase.Manager) and
// translating its errors via httputil.HandleErrorGin.
type ConfigHandler struct {
	manager *usecase.Manager
	logger  *slog.Logger
	version string
}

// NewConfigHandler builds a ConfigHandler.
func NewConfigHandler(manager *usecase.Manager, version string, logger *slog.Logger) *ConfigHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigHandler{manager: manager, version: version, logger: logger}
}

// Health answers GET /health with `{status,service,version}`.
func (h *ConfigHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Service: "llm-config-manager",
		Version: h.version,
	})
}

func (h *ConfigHandler) environment(c *gin.Context) (configDomain.Environment, bool) {
	raw := c.Query("env")
	if raw == "" {
		httputil.HandleErrorGin(c, configDomain.ErrInvalidEnvironment, h.logger)
		return "", false
	}
	env, err := configDomain.ParseEnvironment(raw)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return "", false
	}
	return env, true
}

// Create handles POST /api/v1/configs/{ns}/{key}.
func (h *ConfigHandler) Create(c *gin.Context) {
	ns, key := c.Param("ns"), c.Param("key")

	var req dto.SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	env, err := configDomain.ParseEnvironment(req.Env)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if req.Secret {
		var plaintext string
		if err := parseJSONString(req.Value, &plaintext); err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "secret value must be a JSON string"), h.logger)
			return
		}
		entry, err := h.manager.SetSecret(ns, key, []byte(plaintext), env, req.User)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}

	var value configDomain.Value
	if err := value.UnmarshalJSON(req.Value); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	entry, err := h.manager.Set(ns, key, value, env, req.User)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Get handles GET /api/v1/configs/{ns}/{key}?env=...&with_overrides=....
func (h *ConfigHandler) Get(c *gin.Context) {
	ns, key := c.Param("ns"), c.Param("key")
	env, ok := h.environment(c)
	if !ok {
		return
	}

	var entry *configDomain.Entry
	var found bool
	var err error
	if c.Query("with_overrides") == "true" {
		entry, found, err = h.manager.GetWithOverrides(ns, key, env)
	} else {
		entry, found, err = h.manager.Get(ns, key, env)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !found {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// List handles GET /api/v1/configs/{ns}?env=...&offset=...&limit=....
// offset/limit apply to the in-memory result since the configuration
// engine has no query planner to push the window down to.
func (h *ConfigHandler) List(c *gin.Context) {
	ns := c.Param("ns")
	env, ok := h.environment(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), h.logger)
		return
	}

	entries, err := h.manager.List(ns, env)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, paginate(entries, offset, limit))
}

func paginate(entries []*configDomain.Entry, offset, limit int) []*configDomain.Entry {
	if offset >= len(entries) {
		return []*configDomain.Entry{}
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

// Delete handles DELETE /api/v1/configs/{ns}/{key}?env=....
func (h *ConfigHandler) Delete(c *gin.Context) {
	ns, key := c.Param("ns"), c.Param("key")
	env, ok := h.environment(c)
	if !ok {
		return
	}

	deleted, err := h.manager.Delete(ns, key, env, c.Query("user"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !deleted {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// History handles GET /api/v1/configs/{ns}/{key}/history?env=....
func (h *ConfigHandler) History(c *gin.Context) {
	ns, key := c.Param("ns"), c.Param("key")
	env, ok := h.environment(c)
	if !ok {
		return
	}

	versions, err := h.manager.GetHistory(ns, key, env)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// Rollback handles POST /api/v1/configs/{ns}/{key}/rollback/{version}?env=....
func (h *ConfigHandler) Rollback(c *gin.Context) {
	ns, key := c.Param("ns"), c.Param("key")
	env, ok := h.environment(c)
	if !ok {
		return
	}

	targetVersion, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "version must be an integer"), h.logger)
		return
	}

	entry, found, err := h.manager.Rollback(ns, key, env, targetVersion)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !found {
		httputil.HandleErrorGin(c, configDomain.ErrVersionNotFound, h.logger)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func parseJSONString(raw []byte, out *string) error {
	if len(raw) < 2 || raw[0] != '"' {
		return errors.New("not a JSON string")
	}
	return json.Unmarshal(raw, out)
}
