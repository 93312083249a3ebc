/*
Copyright 2025 Konflux CI.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads operator configuration from a file and/or the
// environment via viper, recognizing dot- or double-underscore-separated
// keys interchangeably.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ObserveMethod selects how the ObserveLoop discovers downstream namespaces.
type ObserveMethod string

const (
	ObserveMethodWatch ObserveMethod = "watch"
	ObserveMethodPoll  ObserveMethod = "poll"
	ObserveMethodNone  ObserveMethod = "none"
)

// Config is the operator's resolved configuration.
type Config struct {
	RancherURL           string
	RancherToken         string
	RancherUsername      string
	RancherPassword      string
	RancherAllowInsecure bool
	CleanupNamespaces    bool
	ObserveMethod        ObserveMethod
	ClusterCheckInterval time.Duration
	PollingInterval      time.Duration
}

const envPrefix = "RANCHER_OPERATOR"

// Load reads configuration from configFile (if non-empty) and the
// environment, applying defaults for ClusterCheckInterval (5m),
// PollingInterval (2m) and ObserveMethod (watch).
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	v.SetDefault("rancher.allowinsecuressl", false)
	v.SetDefault("cleanupnamespaces", false)
	v.SetDefault("observemethod", string(ObserveMethodWatch))
	v.SetDefault("clustercheckinterval", 5)
	v.SetDefault("pollinginterval", 2)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configFile, err)
		}
	}

	observeMethod := ObserveMethod(strings.ToLower(v.GetString("observemethod")))
	switch observeMethod {
	case ObserveMethodWatch, ObserveMethodPoll, ObserveMethodNone:
	default:
		return nil, fmt.Errorf("invalid ObserveMethod %q: must be watch, poll, or none", observeMethod)
	}

	cfg := &Config{
		RancherURL:           v.GetString("rancher.url"),
		RancherToken:         v.GetString("rancher.token"),
		RancherUsername:      v.GetString("rancher.username"),
		RancherPassword:      v.GetString("rancher.password"),
		RancherAllowInsecure: v.GetBool("rancher.allowinsecuressl"),
		CleanupNamespaces:    v.GetBool("cleanupnamespaces") || v.GetBool("rancher.cleanupnamespaces"),
		ObserveMethod:        observeMethod,
		ClusterCheckInterval: time.Duration(v.GetInt("clustercheckinterval")) * time.Minute,
		PollingInterval:      time.Duration(v.GetInt("pollinginterval")) * time.Minute,
	}

	if cfg.RancherURL == "" {
		return nil, fmt.Errorf("Rancher.Url is required")
	}
	if cfg.RancherToken == "" && (cfg.RancherUsername == "" || cfg.RancherPassword == "") {
		return nil, fmt.Errorf("either Rancher.Token or both Rancher.Username and Rancher.Password must be set")
	}

	return cfg, nil
}
