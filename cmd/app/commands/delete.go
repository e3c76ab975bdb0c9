package commands

import (
	"fmt"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
)

// RunDelete handles `delete <ns> <key> --env <env> --user <u>`.
func RunDelete(container *app.Container, ns, key, env, user string) error {
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

	deleted, err := manager.Delete(ns, key, e, user)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("config %s/%s not found in %s", ns, key, e)
	}
	fmt.Printf("deleted %s/%s in %s\n", ns, key, e)
	return nil
}
