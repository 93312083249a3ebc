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

package config

import (
	"testing"
	"time"
)

func TestLoadRequiresURL(t *testing.T) {
	t.Setenv("RANCHER_OPERATOR_RANCHER__TOKEN", "tok")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when Rancher.Url is unset")
	}
}

func TestLoadRequiresAuth(t *testing.T) {
	t.Setenv("RANCHER_OPERATOR_RANCHER__URL", "https://rancher.example.com")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when neither token nor username/password is set")
	}
}

func TestLoadWithTokenAndDefaults(t *testing.T) {
	t.Setenv("RANCHER_OPERATOR_RANCHER__URL", "https://rancher.example.com")
	t.Setenv("RANCHER_OPERATOR_RANCHER__TOKEN", "tok")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RancherURL != "https://rancher.example.com" || cfg.RancherToken != "tok" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.ObserveMethod != ObserveMethodWatch {
		t.Fatalf("expected default ObserveMethod=watch, got %q", cfg.ObserveMethod)
	}
	if cfg.ClusterCheckInterval != 5*time.Minute {
		t.Fatalf("expected default ClusterCheckInterval=5m, got %v", cfg.ClusterCheckInterval)
	}
	if cfg.PollingInterval != 2*time.Minute {
		t.Fatalf("expected default PollingInterval=2m, got %v", cfg.PollingInterval)
	}
}

func TestLoadInvalidObserveMethod(t *testing.T) {
	t.Setenv("RANCHER_OPERATOR_RANCHER__URL", "https://rancher.example.com")
	t.Setenv("RANCHER_OPERATOR_RANCHER__TOKEN", "tok")
	t.Setenv("RANCHER_OPERATOR_OBSERVEMETHOD", "bogus")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid ObserveMethod")
	}
}
