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

// Package policy interprets a Project's two policy lists into a compact
// decision vector consumed by the rest of the reconciliation engine.
package policy

import "strings"

// Decision is the evaluated permission set derived from a Project's
// managementPolicies and namespaceManagementPolicies.
type Decision struct {
	AllowCreate  bool
	AllowDelete  bool
	AllowObserve bool

	AllowNsCreate bool
	AllowNsUpdate bool
	AllowNsDelete bool
}

// Default management policies when the spec field is empty.
var defaultManagementPolicies = []string{"Create"}

// Default namespace management policies when the spec field is empty.
var defaultNamespaceManagementPolicies = []string{"Create", "Update"}

// Evaluate parses the two policy lists (case-insensitively) into a Decision.
// An empty managementPolicies defaults to {Create}; an empty
// namespaceManagementPolicies defaults to {Create, Update}.
func Evaluate(managementPolicies, namespaceManagementPolicies []string) Decision {
	mp := managementPolicies
	if len(mp) == 0 {
		mp = defaultManagementPolicies
	}
	nmp := namespaceManagementPolicies
	if len(nmp) == 0 {
		nmp = defaultNamespaceManagementPolicies
	}

	mset := toLowerSet(mp)
	nset := toLowerSet(nmp)

	return Decision{
		AllowCreate:  mset["create"],
		AllowDelete:  mset["delete"],
		AllowObserve: mset["observe"],

		AllowNsCreate: nset["create"],
		AllowNsUpdate: nset["update"],
		AllowNsDelete: nset["delete"],
	}
}

func toLowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}
