package domain

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPCIONISTA"
	RoleMechanic     Role = "MECANICO"
)

// Module names the administrative screens of the application.
type Module string

const (
	ModuleClients   Module = "clientes"
	ModuleBikes     Module = "motos"
	ModuleOrders    Module = "ordenes"
	ModuleMechanics Module = "mecanicos"
	ModuleParts     Module = "repuestos"
	ModuleServices  Module = "servicios"
	ModulePayments  Module = "pagos"
	ModuleReports   Module = "reportes"
)

// Action is a capability within a module or a workflow operation on an order.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	ActionDiagnose Action = "diagnose"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionDeliver  Action = "deliver"
	ActionCancel   Action = "cancel"
	ActionPay      Action = "pay"
)
