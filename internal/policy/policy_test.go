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

package policy

import "testing"

func TestEvaluateDefaults(t *testing.T) {
	d := Evaluate(nil, nil)
	if !d.AllowCreate || d.AllowDelete || d.AllowObserve {
		t.Fatalf("expected default managementPolicies={Create}, got %+v", d)
	}
	if !d.AllowNsCreate || !d.AllowNsUpdate || d.AllowNsDelete {
		t.Fatalf("expected default namespaceManagementPolicies={Create,Update}, got %+v", d)
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	d := Evaluate([]string{"CREATE", " Delete ", "observe"}, []string{"create", "DELETE"})
	if !d.AllowCreate || !d.AllowDelete || !d.AllowObserve {
		t.Fatalf("expected all management policies set, got %+v", d)
	}
	if !d.AllowNsCreate || d.AllowNsUpdate || !d.AllowNsDelete {
		t.Fatalf("unexpected namespace policy decision: %+v", d)
	}
}

func TestEvaluateEmptyMeansNoneSetForProvidedList(t *testing.T) {
	d := Evaluate([]string{"Delete"}, nil)
	if d.AllowCreate {
		t.Fatalf("explicit non-empty list must not fall back to defaults: %+v", d)
	}
	if !d.AllowDelete {
		t.Fatalf("expected AllowDelete=true: %+v", d)
	}
}
