/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"errors"
	"net/url"
	"os"
	"time"

	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
)

const defaultPollInterval = 5 * time.Second

var (
	errCoreURLRequired = errors.New("core_url is required")
	errCoreURLInvalid  = errors.New("core_url is not a valid URL")
)

// Config is the console configuration.
type Config struct {
	CoreURL       string          `json:"core_url"`
	APIKey        string          `json:"api_key,omitempty"`
	PollInterval  models.Duration `json:"poll_interval,omitempty"`
	Timeout       models.Duration `json:"timeout,omitempty"`
	TLSSkipVerify bool            `json:"tls_skip_verify,omitempty"`
	Logging       *logger.Config  `json:"logging,omitempty"`
}

// Validate fills defaults and rejects unusable configuration.
func (c *Config) Validate() error {
	if c.CoreURL == "" {
		return errCoreURLRequired
	}

	parsed, err := url.Parse(c.CoreURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errCoreURLInvalid
	}

	if time.Duration(c.PollInterval) <= 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	return nil
}

// Load reads a config file, applies environment overrides, and validates.
// An empty path yields a config built purely from the environment.
func Load(ctx context.Context, path string, loader ConfigLoader) (*Config, error) {
	if loader == nil {
		loader = &FileConfigLoader{}
	}

	cfg := &Config{}

	if path != "" {
		if err := loader.Load(ctx, path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CORALSTOR_CORE_URL"); v != "" {
		cfg.CoreURL = v
	}

	if v := os.Getenv("CORALSTOR_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	if v := os.Getenv("CORALSTOR_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = models.Duration(d)
		}
	}
}
