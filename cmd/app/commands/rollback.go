package commands

import (
	"fmt"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
)

// RunRollback handles `rollback <ns> <key> <version> --env <env>`.
func RunRollback(container *app.Container, ns, key string, targetVersion int, env string) error {
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

	entry, found, err := manager.Rollback(ns, key, e, targetVersion)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("version %d of %s/%s not found in %s", targetVersion, ns, key, e)
	}
	return printJSON(entry)
}
