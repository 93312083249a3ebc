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

// Package fake is an in-memory implementation of platform.Client used by
// the reconciliation engine's tests in place of a real platform deployment.
package fake

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rancherlabs/devops-project-operator/internal/constant"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
)

// Client is a thread-safe, in-memory platform.Client.
type Client struct {
	mu sync.Mutex

	clusters   map[string]string // name -> id
	projects   map[string]*platform.Project
	namespaces map[string]*platform.Namespace // key: clusterID + "/" + name
	members    map[string][]platform.Member   // key: projectID
	principals map[string]string              // name (lowercased) -> id
	kubeconfig map[string]string              // clusterID -> kubeconfig

	nextID int
}

// New returns an empty Client.
func New() *Client {
	return &Client{
		clusters:   map[string]string{},
		projects:   map[string]*platform.Project{},
		namespaces: map[string]*platform.Namespace{},
		members:    map[string][]platform.Member{},
		principals: map[string]string{},
		kubeconfig: map[string]string{},
	}
}

// AddCluster seeds a cluster name -> id mapping.
func (c *Client) AddCluster(name, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clusters[name] = id
}

// AddPrincipal seeds a principal name -> id mapping.
func (c *Client) AddPrincipal(name, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.principals[strings.ToLower(name)] = id
}

// SeedProject inserts a pre-existing project directly, bypassing CreateProject.
func (c *Client) SeedProject(p platform.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := p
	c.projects[p.ID] = &cp
}

// SeedNamespace inserts a pre-existing namespace directly, bypassing CreateNamespace.
func (c *Client) SeedNamespace(clusterID string, ns platform.Namespace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := ns
	c.namespaces[nsKey(clusterID, ns.Name)] = &cp
}

// SeedMember inserts a pre-existing member binding directly.
func (c *Client) SeedMember(projectID string, m platform.Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m.ProjectID = projectID
	c.members[projectID] = append(c.members[projectID], m)
}

func nsKey(clusterID, name string) string {
	return clusterID + "/" + strings.ToLower(name)
}

func (c *Client) newID(prefix string) string {
	c.nextID++
	return prefix + "-" + strconv.Itoa(c.nextID)
}

func (c *Client) GetClusterIdByName(_ context.Context, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clusters[name], nil
}

func (c *Client) GetProjectByName(_ context.Context, clusterID, name string) (*platform.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.projects {
		if p.ClusterID == clusterID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (c *Client) CreateProject(_ context.Context, clusterID, name, description string, annotations map[string]string) (*platform.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &platform.Project{
		ID:          c.newID("p"),
		ClusterID:   clusterID,
		Name:        name,
		Description: description,
		Annotations: annotations,
	}
	c.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (c *Client) DeleteProject(_ context.Context, projectID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.projects[projectID]
	if !ok {
		return false, nil
	}
	if p.Annotations[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	delete(c.projects, projectID)
	delete(c.members, projectID)
	return true, nil
}

func (c *Client) GetNamespace(_ context.Context, clusterID, name string) (*platform.Namespace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[nsKey(clusterID, name)]
	if !ok {
		return nil, nil
	}
	cp := *ns
	return &cp, nil
}

func (c *Client) CreateNamespace(_ context.Context, clusterID, projectID, name string) (*platform.Namespace, error) {
	name = strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	ns := &platform.Namespace{
		Name:      name,
		ClusterID: clusterID,
		ProjectID: projectID,
		Annotations: map[string]string{
			constant.ManagedByKey: constant.ManagedByValue,
		},
		Labels: map[string]string{
			constant.ManagedByKey: constant.ManagedByValue,
		},
	}
	c.namespaces[nsKey(clusterID, name)] = ns
	cp := *ns
	return &cp, nil
}

func (c *Client) UpdateNamespaceProject(_ context.Context, clusterID, name, newProjectID string) error {
	name = strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[nsKey(clusterID, name)]
	if !ok {
		return fmt.Errorf("fake: namespace %q not found", name)
	}
	if ns.Labels == nil {
		ns.Labels = map[string]string{}
	}
	if ns.Labels[constant.ManagedByKey] == "" {
		ns.Labels[constant.ManagedByKey] = constant.ManagedByValue
	}
	ns.ProjectID = newProjectID
	return nil
}

func (c *Client) RemoveNamespaceFromProject(_ context.Context, clusterID, name string) (bool, error) {
	name = strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[nsKey(clusterID, name)]
	if !ok || ns.Labels[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	ns.ProjectID = ""
	return true, nil
}

func (c *Client) DeleteNamespace(_ context.Context, clusterID, name string) (bool, error) {
	name = strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[nsKey(clusterID, name)]
	if !ok || ns.Labels[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	delete(c.namespaces, nsKey(clusterID, name))
	return true, nil
}

func (c *Client) GetProjectNamespaces(_ context.Context, projectID string) ([]platform.Namespace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []platform.Namespace
	for _, ns := range c.namespaces {
		if ns.ProjectID == projectID {
			result = append(result, *ns)
		}
	}
	return result, nil
}

func (c *Client) GetProjectMembers(_ context.Context, projectID string) ([]platform.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]platform.Member, len(c.members[projectID]))
	copy(out, c.members[projectID])
	return out, nil
}

func (c *Client) CreateProjectMember(_ context.Context, projectID, principalID, roleTemplateID string) (*platform.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := platform.Member{
		ID:             c.newID("m"),
		ProjectID:      projectID,
		RoleTemplateID: roleTemplateID,
	}
	if strings.Contains(principalID, "user") {
		m.UserPrincipalID = principalID
	} else {
		m.GroupPrincipalID = principalID
	}
	c.members[projectID] = append(c.members[projectID], m)
	return &m, nil
}

func (c *Client) GetPrincipalIdByName(_ context.Context, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.principals[strings.ToLower(name)], nil
}

func (c *Client) GetClusterKubeconfig(_ context.Context, clusterID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kubeconfig[clusterID], nil
}

var _ platform.Client = (*Client)(nil)
