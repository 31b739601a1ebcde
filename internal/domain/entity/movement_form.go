package entity

// Campos del formulario de movimiento; también son las claves de FormErrors.
const (
	FieldTipo           = "tipo"
	FieldProductoID     = "productoId"
	FieldQuantity       = "quantity"
	FieldFromLocationID = "fromLocationId"
	FieldToLocationID   = "toLocationId"
	FieldConfirmUnit    = "confirmUnit"
	FieldNota           = "nota"
)

// MovementForm es el estado del formulario tal como lo editó el usuario.
// Quantity es texto crudo: se parsea al validar.
type MovementForm struct {
	Tipo           MovementType `json:"tipo"`
	ProductoID     *int64       `json:"productoId"`
	Quantity       string       `json:"quantity"`
	FromLocationID *int64       `json:"fromLocationId"`
	ToLocationID   *int64       `json:"toLocationId"`
	PersonaID      *int64       `json:"personaId"`
	ProveedorID    *int64       `json:"proveedorId"`
	Nota           string       `json:"nota"`
	ConfirmUnit    bool         `json:"confirmUnit"`
}

// NewMovementForm devuelve el formulario con sus valores iniciales: ingreso hacia la bodega central.
func NewMovementForm(centralID int64) MovementForm {
	return MovementForm{
		Tipo:         MovementTypeIngreso,
		ToLocationID: Int64Ptr(centralID),
	}
}

// Clone copia el formulario sin compartir punteros con el original.
func (f MovementForm) Clone() MovementForm {
	out := f
	out.ProductoID = cloneID(f.ProductoID)
	out.FromLocationID = cloneID(f.FromLocationID)
	out.ToLocationID = cloneID(f.ToLocationID)
	out.PersonaID = cloneID(f.PersonaID)
	out.ProveedorID = cloneID(f.ProveedorID)
	return out
}

// FormErrors mensajes por campo más un mensaje a nivel de formulario.
type FormErrors struct {
	Fields map[string]string `json:"fields,omitempty"`
	Form   string            `json:"form,omitempty"`
}

// Set registra (o reemplaza) el mensaje de un campo.
func (e *FormErrors) Set(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// Get devuelve el mensaje de un campo ("" si no tiene error).
func (e FormErrors) Get(field string) string {
	return e.Fields[field]
}

// Has indica si el campo tiene error.
func (e FormErrors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Empty es true si no hay ningún error de campo ni de formulario.
func (e FormErrors) Empty() bool {
	return len(e.Fields) == 0 && e.Form == ""
}

// Merge devuelve la unión de ambos conjuntos; other tiene prioridad en colisiones.
func (e FormErrors) Merge(other FormErrors) FormErrors {
	out := FormErrors{Form: e.Form}
	for k, v := range e.Fields {
		out.Set(k, v)
	}
	for k, v := range other.Fields {
		out.Set(k, v)
	}
	if other.Form != "" {
		out.Form = other.Form
	}
	return out
}

// Int64Ptr helper para ids opcionales.
func Int64Ptr(v int64) *int64 { return &v }

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
