// Package commands implements the llm-config-manager CLI's subcommands:
// one file per command, each exporting a Run* function that main.go
// wires to a urfave/cli/v3 Action.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	customValidation "github.com/globalbusinessadvisors/llm-config-manager/internal/validation"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// parseEnv normalizes an --env flag value to its canonical Environment
// (base, dev/development, staging/stage, prod/production, edge).
func parseEnv(raw string) (configDomain.Environment, error) {
	if raw == "" {
		return "", fmt.Errorf("--env is required")
	}
	return configDomain.ParseEnvironment(raw)
}

// parseValue interprets a --value flag as JSON when possible (so
// "42", "true", "[1,2]", and quoted strings decode to the matching
// Value kind), and falls back to a plain string otherwise.
func parseValue(raw string) (configDomain.Value, error) {
	var v configDomain.Value
	if err := v.UnmarshalJSON([]byte(raw)); err == nil {
		return v, nil
	}
	var quoted []byte
	quotedStr, err := json.Marshal(raw)
	if err != nil {
		return configDomain.Value{}, err
	}
	quoted = quotedStr
	if err := v.UnmarshalJSON(quoted); err != nil {
		return configDomain.Value{}, err
	}
	return v, nil
}

// validateNamespace rejects a blank or whitespace-padded namespace
// argument before it reaches storage, where it'd otherwise become part
// of a file path.
func validateNamespace(ns string) error {
	if err := validation.Validate(ns, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace); err != nil {
		return fmt.Errorf("invalid namespace: %w", err)
	}
	return nil
}

// validateNamespaceKey rejects blank or whitespace-padded namespace/key
// arguments before they reach storage.
func validateNamespaceKey(ns, key string) error {
	if err := validateNamespace(ns); err != nil {
		return err
	}
	if err := validation.Validate(key, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace); err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
