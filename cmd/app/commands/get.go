package commands

import (
	"fmt"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
)

// RunGet handles `get <ns> <key> --env <env> [--with-overrides] [--secret]`.
func RunGet(container *app.Container, ns, key, env string, withOverrides, secret bool) error {
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
		plaintext, err := manager.GetSecret(ns, key, e)
		if err != nil {
			return err
		}
		fmt.Println(string(plaintext))
		return nil
	}

	if withOverrides {
		found, ok, err := manager.GetWithOverrides(ns, key, e)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("config %s/%s not found in %s", ns, key, e)
		}
		return printJSON(found)
	}

	found, ok, err := manager.Get(ns, key, e)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("config %s/%s not found in %s", ns, key, e)
	}
	return printJSON(found)
}
