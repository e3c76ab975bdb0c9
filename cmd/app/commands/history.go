package commands

import "github.com/globalbusinessadvisors/llm-config-manager/internal/app"

// RunHistory handles `history <ns> <key> --env <env>`.
func RunHistory(container *app.Container, ns, key, env string) error {
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

	versions, err := manager.GetHistory(ns, key, e)
	if err != nil {
		return err
	}
	return printJSON(versions)
}
