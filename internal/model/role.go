package model

// Role codes as constants
const (
	RoleAdmin  = "ADMIN"
	RoleClerk  = "CLERK"
	RoleViewer = "VIEWER"
)

// Privilege codes checked by the HTTP layer
const (
	PrivProductView         = "product:view"
	PrivProductCreate       = "product:create"
	PrivProductUpdate       = "product:update"
	PrivProductDelete       = "product:delete"
	PrivTransactionView     = "transaction:view"
	PrivTransactionCreate   = "transaction:create"
	PrivTransactionUpdate   = "transaction:update"
	PrivTransactionComplete = "transaction:complete"
	PrivTransactionCancel   = "transaction:cancel"
	PrivTransactionDelete   = "transaction:delete"
	PrivReportView          = "report:view"
	PrivDashboardView       = "dashboard:view"
)

var viewPrivileges = []string{
	PrivProductView,
	PrivTransactionView,
	PrivReportView,
	PrivDashboardView,
}

// RolePrivileges is the fixed privilege set granted by each role.
var RolePrivileges = map[string][]string{
	RoleAdmin: append([]string{
		PrivProductCreate, PrivProductUpdate, PrivProductDelete,
		PrivTransactionCreate, PrivTransactionUpdate, PrivTransactionComplete,
		PrivTransactionCancel, PrivTransactionDelete,
	}, viewPrivileges...),
	RoleClerk: append([]string{
		PrivProductCreate, PrivProductUpdate,
		PrivTransactionCreate, PrivTransactionUpdate,
	}, viewPrivileges...),
	RoleViewer: viewPrivileges,
}

// ValidRole reports whether code names a known role.
func ValidRole(code string) bool {
	_, ok := RolePrivileges[code]
	return ok
}
