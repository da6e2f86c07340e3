package entity

// Tipos de origen de un mensaje.
const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// Identity remitente de un mensaje entrante. No se persiste.
type Identity struct {
	UserID        string // puede venir vacío en grupos
	SourceType    string
	GroupOrRoomID string
}

// IsGroup indica si el mensaje proviene de un grupo o sala.
func (i Identity) IsGroup() bool {
	return i.SourceType == SourceGroup || i.SourceType == SourceRoom
}
