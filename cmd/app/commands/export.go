package commands

import (
	"fmt"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
)

// RunExport handles `export --dir <dir>`, writing one file per current
// entry in storage.
func RunExport(container *app.Container, dir string) error {
	logger := container.Logger()
	defer closeContainer(container, logger)

	st, err := container.Storage()
	if err != nil {
		return err
	}

	count, err := st.ExportAll(dir)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d entries to %s\n", count, dir)
	return nil
}
