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

package condition

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
)

var _ = Describe("Conditions Helper Functions", func() {
	var testObject *rancherv1.Project

	BeforeEach(func() {
		testObject = &rancherv1.Project{
			ObjectMeta: metav1.ObjectMeta{
				Name:       "test-project",
				Generation: 5,
			},
		}
	})

	Describe("SetCondition", func() {
		It("should add a new condition", func() {
			SetCondition(testObject, metav1.Condition{
				Type:    TypeReady,
				Status:  metav1.ConditionTrue,
				Reason:  "TestReason",
				Message: "Test message",
			})

			conditions := testObject.GetConditions()
			Expect(conditions).To(HaveLen(1))
			Expect(conditions[0].Type).To(Equal(TypeReady))
			Expect(conditions[0].Status).To(Equal(metav1.ConditionTrue))
			Expect(conditions[0].Reason).To(Equal("TestReason"))
			Expect(conditions[0].Message).To(Equal("Test message"))
			Expect(conditions[0].ObservedGeneration).To(Equal(int64(5)))
		})

		It("should update an existing condition in place", func() {
			SetCondition(testObject, metav1.Condition{
				Type:    TypeReady,
				Status:  metav1.ConditionFalse,
				Reason:  "InitialReason",
				Message: "Initial message",
			})

			SetCondition(testObject, metav1.Condition{
				Type:    TypeReady,
				Status:  metav1.ConditionTrue,
				Reason:  "UpdatedReason",
				Message: "Updated message",
			})

			conditions := testObject.GetConditions()
			Expect(conditions).To(HaveLen(1))
			Expect(conditions[0].Status).To(Equal(metav1.ConditionTrue))
			Expect(conditions[0].Reason).To(Equal("UpdatedReason"))
			Expect(conditions[0].Message).To(Equal("Updated message"))
		})

		It("should preserve LastTransitionTime when status hasn't changed", func() {
			SetCondition(testObject, metav1.Condition{
				Type:   TypeReady,
				Status: metav1.ConditionTrue,
				Reason: "AllGood",
			})
			first := apimeta.FindStatusCondition(testObject.GetConditions(), TypeReady).LastTransitionTime

			SetCondition(testObject, metav1.Condition{
				Type:   TypeReady,
				Status: metav1.ConditionTrue,
				Reason: "StillGood",
			})
			second := apimeta.FindStatusCondition(testObject.GetConditions(), TypeReady).LastTransitionTime

			Expect(second).To(Equal(first))
		})
	})

	Describe("SetFailedCondition", func() {
		It("sets status False with the error's message", func() {
			testErr := fmt.Errorf("something went wrong")

			SetFailedCondition(testObject, TypeReady, ReasonReconcileFailed, testErr)

			cond := apimeta.FindStatusCondition(testObject.GetConditions(), TypeReady)
			Expect(cond).NotTo(BeNil())
			Expect(cond.Status).To(Equal(metav1.ConditionFalse))
			Expect(cond.Reason).To(Equal(ReasonReconcileFailed))
			Expect(cond.Message).To(Equal("something went wrong"))
		})
	})

	Describe("SetReadyCondition", func() {
		It("sets status True with reason and message", func() {
			SetReadyCondition(testObject, ReasonReconcileSucceeded, "all good")

			cond := apimeta.FindStatusCondition(testObject.GetConditions(), TypeReady)
			Expect(cond).NotTo(BeNil())
			Expect(cond.Status).To(Equal(metav1.ConditionTrue))
			Expect(cond.Reason).To(Equal(ReasonReconcileSucceeded))
			Expect(cond.Message).To(Equal("all good"))
		})
	})

	Describe("IsConditionTrue", func() {
		It("returns true when the condition exists and is True", func() {
			SetCondition(testObject, metav1.Condition{Type: TypeReady, Status: metav1.ConditionTrue, Reason: "AllReady"})
			Expect(IsConditionTrue(testObject, TypeReady)).To(BeTrue())
		})

		It("returns false when the condition exists but is False", func() {
			SetCondition(testObject, metav1.Condition{Type: TypeReady, Status: metav1.ConditionFalse, Reason: "NotReady"})
			Expect(IsConditionTrue(testObject, TypeReady)).To(BeFalse())
		})

		It("returns false when the condition does not exist", func() {
			Expect(IsConditionTrue(testObject, "NonExistent")).To(BeFalse())
		})
	})
})
