package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tallermotos/internal/domain"
)

func TestVisibleActions_AdminHasFullCrud(t *testing.T) {
	actions := VisibleActions(domain.RoleAdmin, domain.ModuleOrders)
	assert.ElementsMatch(t, []domain.Action{
		domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete,
	}, actions)
}

func TestVisibleActions_ReceptionistCannotDelete(t *testing.T) {
	actions := VisibleActions(domain.RoleReceptionist, domain.ModuleClients)
	assert.Contains(t, actions, domain.ActionCreate)
	assert.NotContains(t, actions, domain.ActionDelete)
}

func TestVisibleActions_MechanicLimitedToWorkModules(t *testing.T) {
	assert.NotEmpty(t, VisibleActions(domain.RoleMechanic, domain.ModuleOrders))
	assert.Empty(t, VisibleActions(domain.RoleMechanic, domain.ModuleClients))
	assert.Empty(t, VisibleActions(domain.RoleMechanic, domain.ModulePayments))
}

func TestVisibleActions_UnknownRoleFailsClosed(t *testing.T) {
	assert.Empty(t, VisibleActions(domain.Role("INTRUSO"), domain.ModuleOrders))
	assert.False(t, CanAccessModule(domain.Role(""), domain.ModuleOrders))
	assert.False(t, CanPerform(domain.Role("INTRUSO"), domain.ActionPay))
	assert.False(t, CanAccessRoute(domain.Role("INTRUSO"), "/ordenes"))
}

func TestCanAccessModule(t *testing.T) {
	assert.True(t, CanAccessModule(domain.RoleAdmin, domain.ModuleReports))
	assert.False(t, CanAccessModule(domain.RoleReceptionist, domain.ModuleReports))
	assert.False(t, CanAccessModule(domain.RoleMechanic, domain.ModuleBikes))
}

func TestCanAccessRoute(t *testing.T) {
	assert.True(t, CanAccessRoute(domain.RoleAdmin, "/mecanicos"))
	assert.True(t, CanAccessRoute(domain.RoleMechanic, "/ordenes/42"))
	assert.False(t, CanAccessRoute(domain.RoleMechanic, "/clientes"))
	assert.True(t, CanAccessRoute(domain.RoleReceptionist, "/pagos"))
	assert.False(t, CanAccessRoute(domain.RoleReceptionist, "/mecanicos"))
}

func TestCanPerform_WorkflowSplit(t *testing.T) {
	// Mechanics run the work, reception handles hand-over and money.
	assert.True(t, CanPerform(domain.RoleMechanic, domain.ActionDiagnose))
	assert.True(t, CanPerform(domain.RoleMechanic, domain.ActionComplete))
	assert.False(t, CanPerform(domain.RoleMechanic, domain.ActionDeliver))
	assert.False(t, CanPerform(domain.RoleMechanic, domain.ActionPay))

	assert.True(t, CanPerform(domain.RoleReceptionist, domain.ActionDeliver))
	assert.True(t, CanPerform(domain.RoleReceptionist, domain.ActionPay))
	assert.False(t, CanPerform(domain.RoleReceptionist, domain.ActionStart))

	for _, a := range []domain.Action{
		domain.ActionDiagnose, domain.ActionStart, domain.ActionComplete,
		domain.ActionDeliver, domain.ActionCancel, domain.ActionPay,
	} {
		assert.True(t, CanPerform(domain.RoleAdmin, a))
	}
}

func TestPermissions_IncludesWorkflowSurface(t *testing.T) {
	perms := Permissions(domain.RoleMechanic)
	assert.Contains(t, perms, "ordenes")
	assert.Contains(t, perms, "workflow")
	assert.NotContains(t, perms, "clientes")

	assert.Empty(t, Permissions(domain.Role("INTRUSO")))
}
