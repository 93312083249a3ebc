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

// Package condition provides the shared status-condition helpers used by the
// project controller, independent of any single resource type.
package condition

import (
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Accessor is implemented by any CR whose status carries a slice of standard
// conditions.
type Accessor interface {
	GetGeneration() int64
	GetConditions() []metav1.Condition
	SetConditions(conditions []metav1.Condition)
}

// SetCondition updates or adds a condition on obj's status. It sets
// ObservedGeneration automatically; LastTransitionTime is only touched when
// the condition's status actually changes.
func SetCondition(obj Accessor, cond metav1.Condition) {
	cond.ObservedGeneration = obj.GetGeneration()

	conditions := obj.GetConditions()
	apimeta.SetStatusCondition(&conditions, cond)
	obj.SetConditions(conditions)
}

// SetFailedCondition sets conditionType to False with reason and err's message.
func SetFailedCondition(obj Accessor, conditionType string, reason string, err error) {
	SetCondition(obj, metav1.Condition{
		Type:    conditionType,
		Status:  metav1.ConditionFalse,
		Reason:  reason,
		Message: err.Error(),
	})
}

// SetReadyCondition sets the Ready condition to True with the given reason and message.
func SetReadyCondition(obj Accessor, reason, message string) {
	SetCondition(obj, metav1.Condition{
		Type:    TypeReady,
		Status:  metav1.ConditionTrue,
		Reason:  reason,
		Message: message,
	})
}

// IsConditionTrue returns true if conditionType is present on obj with status True.
func IsConditionTrue(obj Accessor, conditionType string) bool {
	cond := apimeta.FindStatusCondition(obj.GetConditions(), conditionType)
	return cond != nil && cond.Status == metav1.ConditionTrue
}
