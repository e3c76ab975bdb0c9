package commands

import (
	"fmt"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
)

// RunSet handles `set <ns> <key> --value <v> --env <env> --user <u> [--secret]`.
// --secret requires an encryption key to already be configured.
func RunSet(container *app.Container, ns, key, value, env, user string, secret bool) error {
	logger := container.Logger()
	defer closeContainer(container, logger)

	if err := validateNamespaceKey(ns, key); err != nil {
		return err
	}

	e, err := parseEnv(env)
	if err != nil {
		return err
	}

	manager, err := container.Manager()
	if err != nil {
		return err
	}

	if secret {
		if len(container.Config().EncryptionKey) == 0 {
			return fmt.Errorf("--secret requires an encryption key (--encryption-key or LLM_CONFIG_KEY)")
		}
		entry, err := manager.SetSecret(ns, key, []byte(value), e, user)
		if err != nil {
			return err
		}
		return printJSON(entry)
	}

	v, err := parseValue(value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	entry, err := manager.Set(ns, key, v, e, user)
	if err != nil {
		return err
	}
	return printJSON(entry)
}
