// Package catalog holds the clinic's service and veterinarian directories.
package catalog

import (
	"strconv"
	"time"
)

type Service struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	// Slug is the stable machine identifier used by booking clients
	// (e.g. "consulta-general").
	Slug        string `gorm:"column:slug;type:varchar(50);uniqueIndex;not null" json:"slug"`
	Nombre      string `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Descripcion string `gorm:"column:descripcion;type:text" json:"descripcion,omitempty"`
	Activo      bool   `gorm:"column:activo;default:true;index" json:"activo"`
}

func (Service) TableName() string {
	return "clinical.servicios"
}

type Veterinarian struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	// UserID links the directory entry to the auth account.
	UserID       uint   `gorm:"column:user_id;uniqueIndex;not null" json:"userId"`
	Nombre       string `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Especialidad string `gorm:"column:especialidad;type:varchar(100)" json:"especialidad,omitempty"`
	Activo       bool   `gorm:"column:activo;default:true;index" json:"activo"`
}

func (Veterinarian) TableName() string {
	return "clinical.veterinarios"
}

// serviceIDs is the historical slug-to-id table the booking clients were
// built against. The database seeds these rows with matching IDs; the map
// stays authoritative for slug resolution so old clients keep working even
// if the directory is re-seeded.
var serviceIDs = map[string]uint{
	"consulta-general":       1,
	"vacunacion":             2,
	"emergencia":             3,
	"bano-corte":             4,
	"cirugia-menor":          5,
	"control-postoperatorio": 6,
}

// ResolveServiceID maps a service identifier from a booking client to a
// numeric ID. Known slugs use the fixed table; anything else is parsed as a
// plain number. Returns ErrUnknownService when neither works.
func ResolveServiceID(raw string) (uint, error) {
	if id, ok := serviceIDs[raw]; ok {
		return id, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, ErrUnknownService
	}
	return uint(n), nil
}
