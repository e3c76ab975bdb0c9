package commands

import "github.com/globalbusinessadvisors/llm-config-manager/internal/app"

// RunList handles `list <ns> --env <env>`.
func RunList(container *app.Container, ns, env string) error {
	logger := container.Logger()
	defer closeContainer(container, logger)

	if err := validateNamespace(ns); err != nil {
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

	entries, err := manager.List(ns, e)
	if err != nil {
		return err
	}
	return printJSON(entries)
}
