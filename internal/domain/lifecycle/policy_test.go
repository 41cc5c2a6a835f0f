package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/lifecycle"
)

func TestReachableStatuses(t *testing.T) {
	assert.ElementsMatch(t, entity.Statuses, lifecycle.ReachableStatuses())
}

func TestNext_SoloAristasDeLaTabla(t *testing.T) {
	allowed := map[string]map[lifecycle.Action]string{
		entity.StatusDraft: {
			lifecycle.ActionSubmit: entity.StatusPendingApproval,
			lifecycle.ActionEdit:   entity.StatusDraft,
			lifecycle.ActionDelete: entity.StatusDraft,
		},
		entity.StatusPendingApproval: {
			lifecycle.ActionApprove: entity.StatusApproved,
			lifecycle.ActionReject:  entity.StatusRejected,
			lifecycle.ActionEdit:    entity.StatusPendingApproval,
			lifecycle.ActionDelete:  entity.StatusPendingApproval,
		},
		entity.StatusApproved: {
			lifecycle.ActionDelete: entity.StatusApproved,
		},
		entity.StatusRejected: {
			lifecycle.ActionEdit:   entity.StatusRejected,
			lifecycle.ActionDelete: entity.StatusRejected,
		},
	}
	actions := []lifecycle.Action{
		lifecycle.ActionCreate, lifecycle.ActionSubmit, lifecycle.ActionApprove,
		lifecycle.ActionReject, lifecycle.ActionEdit, lifecycle.ActionDelete,
	}
	for _, status := range entity.Statuses {
		for _, a := range actions {
			next, ok := lifecycle.Next(status, a)
			want, wantOK := allowed[status][a]
			assert.Equalf(t, wantOK, ok, "%s --%s-->", status, a)
			assert.Equalf(t, want, next, "%s --%s-->", status, a)
		}
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"submit", "approve", "reject", "edit"} {
		a, ok := lifecycle.ParseAction(s)
		assert.True(t, ok, s)
		assert.Equal(t, lifecycle.Action(s), a)
	}
	for _, s := range []string{"create", "delete", "reopen", ""} {
		_, ok := lifecycle.ParseAction(s)
		assert.False(t, ok, s)
	}
}

func TestCapabilitiesFor(t *testing.T) {
	assert.Equal(t, lifecycle.Capabilities{CanCreateProduct: true, CanApproveProduct: true, CanManageUsers: true},
		lifecycle.CapabilitiesFor(entity.RoleAdmin))
	assert.Equal(t, lifecycle.Capabilities{CanCreateProduct: true},
		lifecycle.CapabilitiesFor(entity.RoleEditor))
	assert.Equal(t, lifecycle.Capabilities{CanApproveProduct: true},
		lifecycle.CapabilitiesFor(entity.RoleApprover))
	assert.Equal(t, lifecycle.Capabilities{}, lifecycle.CapabilitiesFor(entity.RoleViewer))
}

func TestAllowedRoles_CopiaDefensiva(t *testing.T) {
	roles := lifecycle.AllowedRoles(lifecycle.ActionApprove)
	assert.ElementsMatch(t, []string{entity.RoleApprover, entity.RoleAdmin}, roles)
	roles[0] = "viewer"
	assert.NotContains(t, lifecycle.AllowedRoles(lifecycle.ActionApprove), "viewer")
	assert.Nil(t, lifecycle.AllowedRoles("nope"))
}
