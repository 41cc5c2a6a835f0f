package entity

// Identity es el actor autenticado de una sesión. Inmutable mientras dura la sesión.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	BusinessID  string `json:"business_id"`
}

// IsZero informa si la identidad está vacía (sin sesión).
func (i Identity) IsZero() bool {
	return i.ID == ""
}

// HasRole informa si la identidad tiene alguno de los roles dados.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
