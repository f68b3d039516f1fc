// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// secretFiles lets keys be mounted as files instead of passed inline. The
// env library reads the named file and stores its contents.
type secretFiles struct {
	ServerPrivateKey string `env:"APP_SERVER_PRIVATE_KEY_FILE,file"`
	WalletPrivateKey string `env:"APP_WALLET_PRIVATE_KEY_FILE,file"`
	TokenSignKey     string `env:"APP_TOKEN_SIGN_KEY_FILE,file"`
}

// parseEnv populates cfg from environment variables using the `env` and
// `envPrefix` tags on [StructuredConfig]. An inline key wins over its *_FILE
// counterpart.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	var files secretFiles
	if err := env.Parse(&files); err != nil {
		return fmt.Errorf("error reading secret files: %w", err)
	}

	fillEmpty(&cfg.App.ServerPrivateKey, files.ServerPrivateKey)
	fillEmpty(&cfg.App.WalletPrivateKey, files.WalletPrivateKey)
	fillEmpty(&cfg.App.TokenSignKey, files.TokenSignKey)

	return nil
}

func fillEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
