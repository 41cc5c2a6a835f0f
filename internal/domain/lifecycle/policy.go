// Package lifecycle contiene la máquina de estados del producto y la compuerta de
// autorización por rol. Es código puro: no conoce persistencia ni HTTP.
//
// Estados: draft → pending_approval → {approved | rejected}. approved y rejected son
// terminales; rejected → draft no está soportado.
package lifecycle

import "github.com/Mutesi02/product-marketplace/internal/domain/entity"

// Action acción solicitada sobre un producto.
type Action string

// Acciones del ciclo de vida.
const (
	ActionCreate  Action = "create"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

// ParseAction convierte el texto recibido en una acción de transición (submit, approve, reject, edit).
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionSubmit, ActionApprove, ActionReject, ActionEdit:
		return a, true
	}
	return "", false
}

// rule fila de la tabla de políticas.
type rule struct {
	roles []string
	// editorOwnerOnly: un editor solo actúa sobre productos propios.
	editorOwnerOnly bool
	// from estados de origen válidos; vacío solo para create.
	from []string
	// to estado destino; vacío = sin cambio de estado.
	to string
	// editorScope estados en los que un editor puede actuar; fuera de ellos es Forbidden, no InvalidState.
	editorScope []string
}

var (
	anyStatus    = []string{entity.StatusDraft, entity.StatusPendingApproval, entity.StatusApproved, entity.StatusRejected}
	notApproved  = []string{entity.StatusDraft, entity.StatusPendingApproval, entity.StatusRejected}
	editableByEd = []string{entity.StatusDraft, entity.StatusPendingApproval}
)

var policy = map[Action]rule{
	ActionCreate: {
		roles: []string{entity.RoleEditor, entity.RoleAdmin},
		to:    entity.StatusDraft,
	},
	ActionSubmit: {
		roles:           []string{entity.RoleEditor, entity.RoleAdmin},
		editorOwnerOnly: true,
		from:            []string{entity.StatusDraft},
		to:              entity.StatusPendingApproval,
	},
	ActionApprove: {
		roles: []string{entity.RoleApprover, entity.RoleAdmin},
		from:  []string{entity.StatusPendingApproval},
		to:    entity.StatusApproved,
	},
	ActionReject: {
		roles: []string{entity.RoleApprover, entity.RoleAdmin},
		from:  []string{entity.StatusPendingApproval},
		to:    entity.StatusRejected,
	},
	ActionEdit: {
		roles:           []string{entity.RoleEditor, entity.RoleAdmin},
		editorOwnerOnly: true,
		from:            notApproved,
		editorScope:     editableByEd,
	},
	ActionDelete: {
		roles:           []string{entity.RoleEditor, entity.RoleAdmin},
		editorOwnerOnly: true,
		from:            anyStatus,
		editorScope:     notApproved,
	},
}

// AllowedRoles devuelve los roles que pueden solicitar la acción.
func AllowedRoles(a Action) []string {
	r, ok := policy[a]
	if !ok {
		return nil
	}
	out := make([]string, len(r.roles))
	copy(out, r.roles)
	return out
}

// Next devuelve el estado resultante de aplicar la acción desde status, sin considerar roles.
// ok=false si no existe la arista.
func Next(status string, a Action) (string, bool) {
	r, ok := policy[a]
	if !ok || a == ActionCreate {
		return "", false
	}
	if !contains(r.from, status) {
		return "", false
	}
	if r.to == "" {
		return status, true
	}
	return r.to, true
}

// ReachableStatuses clausura de la tabla de transiciones partiendo de draft.
func ReachableStatuses() []string {
	seen := map[string]bool{entity.StatusDraft: true}
	queue := []string{entity.StatusDraft}
	order := []string{entity.StatusDraft}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for a := range policy {
			next, ok := Next(cur, a)
			if !ok || seen[next] {
				continue
			}
			seen[next] = true
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}

// Capabilities permisos resumidos que muestran los dashboards.
type Capabilities struct {
	CanCreateProduct  bool `json:"can_create_product"`
	CanApproveProduct bool `json:"can_approve_product"`
	CanManageUsers    bool `json:"can_manage_users"`
}

// CapabilitiesFor calcula los permisos de un rol a partir de la tabla de políticas.
func CapabilitiesFor(role string) Capabilities {
	return Capabilities{
		CanCreateProduct:  contains(policy[ActionCreate].roles, role),
		CanApproveProduct: contains(policy[ActionApprove].roles, role),
		CanManageUsers:    role == entity.RoleAdmin,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
