// Package clinicalnote packs structured consult results (diagnosis, treatment
// and a point-in-time copy of the patient) into the single free-text notes
// field the appointment schema offers, and parses them back out. The wire
// format is the JSON object historically written by the clinic's frontend, so
// field names are fixed.
package clinicalnote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is the patient as it was at consult time. Ages must be computed
// against the appointment date, not the clock at decode time: the patient
// keeps aging, the clinical record must not.
type Snapshot struct {
	Nombre          string `json:"nombre"`
	Especie         string `json:"especie"`
	Raza            string `json:"raza,omitempty"`
	Edad            *int   `json:"edad,omitempty"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty"`
	Sexo            string `json:"sexo,omitempty"`
}

// UnmarshalJSON coerces ages that legacy writers stored as strings ("3"
// instead of 3). A decoded age of 0 is kept as 0; the omit-if-not-positive
// rule applies on encode only.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type alias Snapshot
	aux := struct {
		*alias
		Edad json.RawMessage `json:"edad"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if raw := strings.Trim(strings.TrimSpace(string(aux.Edad)), `"`); raw != "" && raw != "null" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("edad %q is not numeric: %w", raw, err)
		}
		s.Edad = &n
	}
	// A blank birth date means "not recorded", never the empty string.
	if strings.TrimSpace(s.FechaNacimiento) == "" {
		s.FechaNacimiento = ""
	}
	return nil
}

// Normalize applies the encode-side omission rules: ages that are not
// strictly positive, blank birth dates, and empty raza/sexo are dropped so
// that a decoder never has to disambiguate 0 from "unknown". Returns nil for
// a nil snapshot.
func Normalize(s *Snapshot) *Snapshot {
	if s == nil {
		return nil
	}
	out := Snapshot{
		Nombre:          s.Nombre,
		Especie:         s.Especie,
		Raza:            strings.TrimSpace(s.Raza),
		FechaNacimiento: strings.TrimSpace(s.FechaNacimiento),
		Sexo:            strings.TrimSpace(s.Sexo),
	}
	if s.Edad != nil && *s.Edad > 0 {
		edad := *s.Edad
		out.Edad = &edad
	}
	return &out
}

type payload struct {
	Diagnostico        string    `json:"diagnostico"`
	Tratamiento        string    `json:"tratamiento"`
	InformacionMascota *Snapshot `json:"informacionMascota,omitempty"`
}

// Encode serializes a consult result for storage in the notes field.
func Encode(diagnostico, tratamiento string, snap *Snapshot) (string, error) {
	b, err := json.Marshal(payload{
		Diagnostico:        diagnostico,
		Tratamiento:        tratamiento,
		InformacionMascota: Normalize(snap),
	})
	if err != nil {
		return "", fmt.Errorf("encoding clinical note: %w", err)
	}
	return string(b), nil
}

// Kind tags a decode result so that "no notes at all" is distinguishable
// from "notes present but not written by Encode".
type Kind int

const (
	// KindEmpty means the notes field was empty or whitespace.
	KindEmpty Kind = iota
	// KindLegacy means the notes field held free text that is not a
	// structured clinical note. The raw text is preserved in Result.Raw.
	KindLegacy
	// KindStructured means the notes parsed as a clinical note payload.
	KindStructured
)

// Result is what Decode yields. Decode never fails: malformed legacy notes
// must not block rendering the rest of an appointment, so parse problems are
// reported through Kind/Err for the caller to log.
type Result struct {
	Kind               Kind
	Diagnostico        string
	Tratamiento        string
	InformacionMascota *Snapshot

	// Raw holds the original text for KindLegacy results.
	Raw string
	// Err holds the parse failure for KindLegacy results, for logging only.
	Err error
}

// Decode parses the notes field of an appointment.
func Decode(notas string) Result {
	if strings.TrimSpace(notas) == "" {
		return Result{Kind: KindEmpty}
	}

	var p payload
	if err := json.Unmarshal([]byte(notas), &p); err != nil {
		return Result{Kind: KindLegacy, Raw: notas, Err: err}
	}

	res := Result{
		Kind:               KindStructured,
		Diagnostico:        p.Diagnostico,
		Tratamiento:        p.Tratamiento,
		InformacionMascota: p.InformacionMascota,
	}
	return res
}
