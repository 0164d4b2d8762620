package main

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

const defaultTimeout = 10 * time.Second

type commandContext struct {
	configFlag *string
	serverFlag *string
	tokenFlag  *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *cliConfig
	configErr  error
}

func newCommandContext(configFlag, serverFlag, tokenFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
		tokenFlag:  tokenFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) configPath() (string, error) {
	if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
		return strings.TrimSpace(*c.configFlag), nil
	}
	return defaultConfigPath()
}

func (c *commandContext) ensureConfig() (*cliConfig, error) {
	c.configOnce.Do(func() {
		path, err := c.configPath()
		if err != nil {
			c.configErr = err
			return
		}
		cfg, err := loadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.serverFlag != nil && *c.serverFlag != "" {
			cfg.Server = strings.TrimSuffix(*c.serverFlag, "/")
		}
		if c.tokenFlag != nil && *c.tokenFlag != "" {
			cfg.Token = *c.tokenFlag
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) withClient(fn func(*client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	timeout := defaultTimeout
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}
	return fn(newClient(cfg.Server, cfg.Token, timeout))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
