package access

// Decision resultado de una regla de autorización: Allow o Deny(reason).
// La razón es siempre uno de los errores de dominio (ErrDuplicateSuperAdmin, ErrInsufficientPrivilege, ...).
type Decision struct {
	reason error
}

// Allow decisión positiva.
var Allow = Decision{}

// Deny construye una decisión negativa con su razón.
func Deny(reason error) Decision {
	return Decision{reason: reason}
}

// Allowed indica si la operación está permitida.
func (d Decision) Allowed() bool {
	return d.reason == nil
}

// Err devuelve la razón del rechazo, o nil si está permitida.
func (d Decision) Err() error {
	return d.reason
}

func (d Decision) String() string {
	if d.reason == nil {
		return "allow"
	}
	return "deny: " + d.reason.Error()
}
