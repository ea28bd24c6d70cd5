package pet

import (
	"strings"
	"time"

	"vetcita/internal/domain/clinicalnote"
)

type Sex string

const (
	SexMale   Sex = "macho"
	SexFemale Sex = "hembra"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale:
		return true
	}
	return false
}

type Pet struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"` // Soft Delete

	DuenoID uint `gorm:"column:dueno_id;not null;index" json:"duenoId"`

	Nombre  string `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Especie string `gorm:"column:especie;type:varchar(50);not null" json:"especie"`
	Raza    string `gorm:"column:raza;type:varchar(100)" json:"raza,omitempty"`
	Sexo    Sex    `gorm:"column:sexo;type:varchar(10)" json:"sexo,omitempty"`

	// FechaNacimiento is a calendar date (YYYY-MM-DD). Empty means the
	// owner never recorded it.
	FechaNacimiento string `gorm:"column:fecha_nacimiento;type:varchar(10)" json:"fechaNacimiento,omitempty"`

	// Foto is a URL or data URI, whatever the client uploaded.
	Foto string `gorm:"column:foto;type:text" json:"foto,omitempty"`
}

func (Pet) TableName() string {
	return "clinical.mascotas"
}

// AgeAt returns the pet's age in whole years on the given date (YYYY-MM-DD),
// or 0 if either date is unknown or malformed. Clinical snapshots use the
// appointment date here, not the wall clock, so a record read years later
// still shows the age at consult time.
func (p *Pet) AgeAt(fecha string) int {
	if strings.TrimSpace(p.FechaNacimiento) == "" {
		return 0
	}
	born, err := time.Parse("2006-01-02", p.FechaNacimiento)
	if err != nil {
		return 0
	}
	on, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return 0
	}
	years := on.Year() - born.Year()
	if on.Month() < born.Month() ||
		(on.Month() == born.Month() && on.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// SnapshotAt freezes the pet's descriptive fields for a clinical note, with
// the age computed against the appointment date.
func (p *Pet) SnapshotAt(fecha string) *clinicalnote.Snapshot {
	snap := &clinicalnote.Snapshot{
		Nombre:          p.Nombre,
		Especie:         p.Especie,
		Raza:            p.Raza,
		FechaNacimiento: p.FechaNacimiento,
		Sexo:            string(p.Sexo),
	}
	if edad := p.AgeAt(fecha); edad > 0 {
		snap.Edad = &edad
	}
	return snap
}

type CreatePetCommand struct {
	DuenoID         uint
	Nombre          string
	Especie         string
	Raza            string
	Sexo            Sex
	FechaNacimiento string
	Foto            string
}

type UpdatePetCommand struct {
	Nombre          *string
	Especie         *string
	Raza            *string
	Sexo            *Sex
	FechaNacimiento *string
	Foto            *string
}
