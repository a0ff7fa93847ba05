package access

import (
	"strings"

	"tallermotos/internal/domain"
)

// permissions is the static role -> module -> capability table. Loaded once,
// never mutated at runtime. Unknown roles resolve to an empty set.
var permissions = map[domain.Role]map[domain.Module][]domain.Action{
	domain.RoleAdmin: {
		domain.ModuleClients:   {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleBikes:     {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleOrders:    {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleMechanics: {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleParts:     {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleServices:  {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModulePayments:  {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete},
		domain.ModuleReports:   {domain.ActionRead},
	},
	domain.RoleReceptionist: {
		domain.ModuleClients:  {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate},
		domain.ModuleBikes:    {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate},
		domain.ModuleOrders:   {domain.ActionCreate, domain.ActionRead, domain.ActionUpdate},
		domain.ModuleParts:    {domain.ActionRead},
		domain.ModuleServices: {domain.ActionRead},
		domain.ModulePayments: {domain.ActionCreate, domain.ActionRead},
	},
	domain.RoleMechanic: {
		domain.ModuleOrders:   {domain.ActionRead, domain.ActionUpdate},
		domain.ModuleParts:    {domain.ActionRead},
		domain.ModuleServices: {domain.ActionRead},
	},
}

// workflow is the static role -> allowed order-workflow action table.
var workflow = map[domain.Role][]domain.Action{
	domain.RoleAdmin: {
		domain.ActionDiagnose, domain.ActionStart, domain.ActionComplete,
		domain.ActionDeliver, domain.ActionCancel, domain.ActionPay,
	},
	domain.RoleReceptionist: {
		domain.ActionDeliver, domain.ActionCancel, domain.ActionPay,
	},
	domain.RoleMechanic: {
		domain.ActionDiagnose, domain.ActionStart, domain.ActionComplete,
	},
}

// routePrefixes is the static role -> allowed route prefix table.
var routePrefixes = map[domain.Role][]string{
	domain.RoleAdmin:        {"/"},
	domain.RoleReceptionist: {"/clientes", "/motos", "/ordenes", "/pagos", "/repuestos", "/servicios"},
	domain.RoleMechanic:     {"/ordenes", "/repuestos", "/servicios"},
}

// VisibleActions returns the capability set of a role within a module.
// Unknown roles and modules fail closed.
func VisibleActions(role domain.Role, module domain.Module) []domain.Action {
	mods, ok := permissions[role]
	if !ok {
		return nil
	}
	actions := mods[module]
	out := make([]domain.Action, len(actions))
	copy(out, actions)
	return out
}

func CanAccessModule(role domain.Role, module domain.Module) bool {
	mods, ok := permissions[role]
	if !ok {
		return false
	}
	return len(mods[module]) > 0
}

func CanAccessRoute(role domain.Role, path string) bool {
	for _, prefix := range routePrefixes[role] {
		if prefix == "/" || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// CanPerform reports whether a role may run an order-workflow action.
func CanPerform(role domain.Role, action domain.Action) bool {
	for _, a := range workflow[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Permissions returns a role's full permission surface: per-module
// capabilities plus the workflow actions. Used by the UI to derive what it
// renders.
func Permissions(role domain.Role) map[string][]domain.Action {
	out := make(map[string][]domain.Action)
	for module, actions := range permissions[role] {
		cp := make([]domain.Action, len(actions))
		copy(cp, actions)
		out[string(module)] = cp
	}
	if wf := workflow[role]; len(wf) > 0 {
		cp := make([]domain.Action, len(wf))
		copy(cp, wf)
		out["workflow"] = cp
	}
	return out
}
