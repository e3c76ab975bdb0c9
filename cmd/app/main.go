// Package main is the llm-config-manager CLI entry point: a versioned,
// encrypted configuration and secrets store for multi-environment
// deployments, addressable as both a CLI and an HTTP service.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/jellydator/validation"
	"github.com/urfave/cli/v3"

	"github.com/globalbusinessadvisors/llm-config-manager/cmd/app/commands"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/app"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/config"
	customValidation "github.com/globalbusinessadvisors/llm-config-manager/internal/validation"
)

var version = "dev"

// loadConfig builds a config.Config from the environment, then applies
// the top-level --storage/--encryption-key flags, which take precedence
// over the environment.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Load()

	if storageDir := cmd.String("storage"); storageDir != "" {
		cfg.StorageDir = storageDir
		if os.Getenv("LLM_CONFIG_CACHE_DIR") == "" {
			cfg.CacheDir = filepath.Join(storageDir, "cache")
		}
		if os.Getenv("LLM_CONFIG_AUDIT_DIR") == "" {
			cfg.AuditDir = filepath.Join(storageDir, "audit")
		}
	}
	if encodedKey := cmd.String("encryption-key"); encodedKey != "" {
		if err := validation.Validate(encodedKey, customValidation.Base64); err != nil {
			return nil, fmt.Errorf("invalid --encryption-key: %w", err)
		}
		key, err := base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid --encryption-key: %w", err)
		}
		cfg.EncryptionKey = key
	}
	return cfg, nil
}

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "environment: base, dev/development, staging/stage, prod/production, edge",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "llm-config-manager",
		Usage:   "Versioned, encrypted configuration and secrets manager",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "storage", Usage: "storage directory (default .llm-config)"},
			&cli.StringFlag{Name: "encryption-key", Usage: "base64-encoded 32-byte key (or env LLM_CONFIG_KEY)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Fetch a configuration entry",
				ArgsUsage: "<namespace> <key>",
				Flags: []cli.Flag{
					envFlag(),
					&cli.BoolFlag{Name: "with-overrides", Usage: "resolve through the environment override chain, from base up to --env"},
					&cli.BoolFlag{Name: "secret", Usage: "decrypt and print the secret plaintext"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: get <namespace> <key>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunGet(app.NewContainer(cfg), cmd.Args().Get(0), cmd.Args().Get(1),
						cmd.String("env"), cmd.Bool("with-overrides"), cmd.Bool("secret"))
				},
			},
			{
				Name:      "set",
				Usage:     "Create or update a configuration entry",
				ArgsUsage: "<namespace> <key>",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{Name: "value", Required: true, Usage: "value (JSON or plain string)"},
					&cli.StringFlag{Name: "user", Usage: "actor recorded in the audit log"},
					&cli.BoolFlag{Name: "secret", Usage: "encrypt value as a secret (requires an encryption key)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: set <namespace> <key> --value <v>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunSet(app.NewContainer(cfg), cmd.Args().Get(0), cmd.Args().Get(1),
						cmd.String("value"), cmd.String("env"), cmd.String("user"), cmd.Bool("secret"))
				},
			},
			{
				Name:      "list",
				Usage:     "List every entry in a namespace",
				ArgsUsage: "<namespace>",
				Flags:     []cli.Flag{envFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 1 {
						return fmt.Errorf("usage: list <namespace>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunList(app.NewContainer(cfg), cmd.Args().Get(0), cmd.String("env"))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a configuration entry",
				ArgsUsage: "<namespace> <key>",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{Name: "user", Usage: "actor recorded in the audit log"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: delete <namespace> <key>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunDelete(app.NewContainer(cfg), cmd.Args().Get(0), cmd.Args().Get(1),
						cmd.String("env"), cmd.String("user"))
				},
			},
			{
				Name:      "history",
				Usage:     "Show the version history of a configuration entry",
				ArgsUsage: "<namespace> <key>",
				Flags:     []cli.Flag{envFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: history <namespace> <key>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunHistory(app.NewContainer(cfg), cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("env"))
				},
			},
			{
				Name:      "rollback",
				Usage:     "Roll a configuration entry back to a prior version",
				ArgsUsage: "<namespace> <key> <version>",
				Flags:     []cli.Flag{envFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 3 {
						return fmt.Errorf("usage: rollback <namespace> <key> <version>")
					}
					var targetVersion int
					if _, err := fmt.Sscanf(cmd.Args().Get(2), "%d", &targetVersion); err != nil {
						return fmt.Errorf("version must be an integer: %w", err)
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunRollback(app.NewContainer(cfg), cmd.Args().Get(0), cmd.Args().Get(1), targetVersion, cmd.String("env"))
				},
			},
			{
				Name:  "export",
				Usage: "Write one file per current entry to a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Required: true, Usage: "destination directory"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunExport(app.NewContainer(cfg), cmd.String("dir"))
				},
			},
			{
				Name:  "keygen",
				Usage: "Generate a new base64-encoded encryption key",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunKeygen(os.Stdout)
				},
			},
			{
				Name:  "derive-key",
				Usage: "Derive an encryption key from a password (Argon2id)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true, Usage: "password to derive the key from"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeriveKey(os.Stdout, cmd.String("password"))
				},
			},
			{
				Name:  "server",
				Usage: "Start the HTTP API and metrics servers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return commands.RunServer(ctx, cfg, version)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
