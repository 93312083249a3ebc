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

package rancher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rancherlabs/devops-project-operator/internal/constant"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
)

// wire shapes for the platform's REST surface.

type wireCollection[T any] struct {
	Data []T `json:"data"`
}

type wireCluster struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireProject struct {
	ID          string            `json:"id"`
	ClusterID   string            `json:"clusterId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Annotations map[string]string `json:"annotations"`
}

type wireNamespace struct {
	Name        string            `json:"name"`
	ProjectID   string            `json:"projectId"`
	Annotations map[string]string `json:"annotations"`
	Labels      map[string]string `json:"labels"`
}

type wireMember struct {
	ID               string `json:"id"`
	ProjectID        string `json:"projectId"`
	RoleTemplateID   string `json:"roleTemplateId"`
	UserPrincipalID  string `json:"userPrincipalId,omitempty"`
	GroupPrincipalID string `json:"groupPrincipalId,omitempty"`
}

type wirePrincipal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) GetClusterIdByName(ctx context.Context, name string) (string, error) {
	var col wireCollection[wireCluster]
	q := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodGet, "/v3/clusters", q, nil, &col); err != nil {
		return "", err
	}
	for _, cl := range col.Data {
		if cl.Name == name {
			return cl.ID, nil
		}
	}
	return "", nil
}

func (c *Client) GetProjectByName(ctx context.Context, clusterID, name string) (*platform.Project, error) {
	var col wireCollection[wireProject]
	q := url.Values{"clusterId": {clusterID}, "name": {name}}
	if err := c.do(ctx, http.MethodGet, "/v3/projects", q, nil, &col); err != nil {
		return nil, err
	}
	for _, p := range col.Data {
		if p.Name == name {
			return toProject(p), nil
		}
	}
	return nil, nil
}

func (c *Client) CreateProject(ctx context.Context, clusterID, name, description string, annotations map[string]string) (*platform.Project, error) {
	reqBody := wireProject{ClusterID: clusterID, Name: name, Description: description, Annotations: annotations}
	var resp wireProject
	if err := c.do(ctx, http.MethodPost, "/v3/projects", nil, reqBody, &resp); err != nil {
		return nil, err
	}
	return toProject(resp), nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) (bool, error) {
	var p wireProject
	if err := c.do(ctx, http.MethodGet, "/v3/projects/"+projectID, nil, nil, &p); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if p.Annotations[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	if err := c.do(ctx, http.MethodDelete, "/v3/projects/"+projectID, nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) GetNamespace(ctx context.Context, clusterID, name string) (*platform.Namespace, error) {
	name = strings.ToLower(name)
	var ns wireNamespace
	if err := c.do(ctx, http.MethodGet, "/k8s/clusters/"+clusterID+"/v1/namespaces/"+name, nil, nil, &ns); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toNamespace(ns), nil
}

func (c *Client) CreateNamespace(ctx context.Context, clusterID, projectID, name string) (*platform.Namespace, error) {
	name = strings.ToLower(name)
	reqBody := wireNamespace{
		Name:      name,
		ProjectID: projectID,
		Annotations: map[string]string{
			constant.ManagedByKey: constant.ManagedByValue,
		},
		Labels: map[string]string{
			constant.ManagedByKey: constant.ManagedByValue,
		},
	}
	var resp wireNamespace
	if err := c.do(ctx, http.MethodPost, "/k8s/clusters/"+clusterID+"/v1/namespaces", nil, reqBody, &resp); err != nil {
		return nil, err
	}
	return toNamespace(resp), nil
}

func (c *Client) UpdateNamespaceProject(ctx context.Context, clusterID, name, newProjectID string) error {
	name = strings.ToLower(name)
	ns, err := c.GetNamespace(ctx, clusterID, name)
	if err != nil {
		return err
	}
	if ns == nil {
		return &platform.Error{Op: "UpdateNamespaceProject", StatusCode: http.StatusNotFound, Err: fmt.Errorf("namespace %q not found", name)}
	}
	labels := ns.Labels
	if labels == nil {
		labels = map[string]string{}
	}
	if labels[constant.ManagedByKey] == "" {
		labels[constant.ManagedByKey] = constant.ManagedByValue
	}
	reqBody := wireNamespace{Name: name, ProjectID: newProjectID, Annotations: ns.Annotations, Labels: labels}
	return c.do(ctx, http.MethodPut, "/k8s/clusters/"+clusterID+"/v1/namespaces/"+name, nil, reqBody, nil)
}

func (c *Client) RemoveNamespaceFromProject(ctx context.Context, clusterID, name string) (bool, error) {
	name = strings.ToLower(name)
	ns, err := c.GetNamespace(ctx, clusterID, name)
	if err != nil {
		return false, err
	}
	if ns == nil || ns.Labels[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	reqBody := wireNamespace{Name: name, ProjectID: "", Annotations: ns.Annotations, Labels: ns.Labels}
	if err := c.do(ctx, http.MethodPut, "/k8s/clusters/"+clusterID+"/v1/namespaces/"+name, nil, reqBody, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) DeleteNamespace(ctx context.Context, clusterID, name string) (bool, error) {
	name = strings.ToLower(name)
	ns, err := c.GetNamespace(ctx, clusterID, name)
	if err != nil {
		return false, err
	}
	if ns == nil || ns.Labels[constant.ManagedByKey] != constant.ManagedByValue {
		return false, nil
	}
	if err := c.do(ctx, http.MethodDelete, "/k8s/clusters/"+clusterID+"/v1/namespaces/"+name, nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) GetProjectNamespaces(ctx context.Context, projectID string) ([]platform.Namespace, error) {
	var col wireCollection[wireNamespace]
	q := url.Values{"projectId": {projectID}}
	if err := c.do(ctx, http.MethodGet, "/v3/projectNamespaces", q, nil, &col); err != nil {
		return nil, err
	}
	result := make([]platform.Namespace, 0, len(col.Data))
	for _, ns := range col.Data {
		result = append(result, *toNamespace(ns))
	}
	return result, nil
}

func (c *Client) GetProjectMembers(ctx context.Context, projectID string) ([]platform.Member, error) {
	var col wireCollection[wireMember]
	q := url.Values{"projectId": {projectID}}
	if err := c.do(ctx, http.MethodGet, "/v3/projectRoleTemplateBindings", q, nil, &col); err != nil {
		return nil, err
	}
	result := make([]platform.Member, 0, len(col.Data))
	for _, m := range col.Data {
		result = append(result, toMember(m))
	}
	return result, nil
}

func (c *Client) CreateProjectMember(ctx context.Context, projectID, principalID, roleTemplateID string) (*platform.Member, error) {
	reqBody := wireMember{ProjectID: projectID, RoleTemplateID: roleTemplateID}
	if strings.Contains(principalID, "user") {
		reqBody.UserPrincipalID = principalID
	} else {
		reqBody.GroupPrincipalID = principalID
	}
	var resp wireMember
	if err := c.do(ctx, http.MethodPost, "/v3/projectRoleTemplateBindings", nil, reqBody, &resp); err != nil {
		return nil, err
	}
	m := toMember(resp)
	return &m, nil
}

func (c *Client) GetPrincipalIdByName(ctx context.Context, name string) (string, error) {
	var col wireCollection[wirePrincipal]
	q := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodGet, "/v3/principals", q, nil, &col); err != nil {
		return "", err
	}
	lower := strings.ToLower(name)
	for _, p := range col.Data {
		if strings.ToLower(p.Name) == lower {
			return p.ID, nil
		}
	}
	return "", nil
}

func (c *Client) GetClusterKubeconfig(ctx context.Context, clusterID string) (string, error) {
	var resp struct {
		Config string `json:"config"`
	}
	if err := c.do(ctx, http.MethodPost, "/v3/clusters/"+clusterID+"?action=generateKubeconfig", nil, nil, &resp); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return resp.Config, nil
}

func toProject(p wireProject) *platform.Project {
	return &platform.Project{
		ID:          p.ID,
		ClusterID:   p.ClusterID,
		Name:        p.Name,
		Description: p.Description,
		Annotations: p.Annotations,
	}
}

func toNamespace(ns wireNamespace) *platform.Namespace {
	return &platform.Namespace{
		Name:        ns.Name,
		ProjectID:   ns.ProjectID,
		Annotations: ns.Annotations,
		Labels:      ns.Labels,
	}
}

func toMember(m wireMember) platform.Member {
	return platform.Member{
		ID:               m.ID,
		ProjectID:        m.ProjectID,
		RoleTemplateID:   m.RoleTemplateID,
		UserPrincipalID:  m.UserPrincipalID,
		GroupPrincipalID: m.GroupPrincipalID,
	}
}

var _ platform.Client = (*Client)(nil)
