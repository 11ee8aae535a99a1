// Package permission answers "can user U do action A on module M in
// autarquia T". The capability set is closed: four named flags, represented
// as a bitmask so combined checks stay exhaustive.
package permission

import (
	"strings"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// Flag selects one capability bit of a permission record.
type Flag uint8

const (
	Ler      Flag = 1 << iota // read
	Escrever                  // write
	Excluir                   // delete
	Admin                     // admin
)

// ParseFlag maps the wire names to a Flag. Accepts the Portuguese field
// names used across the API.
func ParseFlag(s string) (Flag, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ler", "pode_ler", "read":
		return Ler, true
	case "escrever", "pode_escrever", "write":
		return Escrever, true
	case "excluir", "pode_excluir", "delete":
		return Excluir, true
	case "admin", "e_admin":
		return Admin, true
	default:
		return 0, false
	}
}

// Has reports whether the record grants every capability in mask.
func Has(f models.PermissionFlags, mask Flag) bool {
	if mask == 0 {
		return false
	}
	granted := Flag(0)
	if f.PodeLer {
		granted |= Ler
	}
	if f.PodeEscrever {
		granted |= Escrever
	}
	if f.PodeExcluir {
		granted |= Excluir
	}
	if f.EAdmin {
		granted |= Admin
	}
	return granted&mask == mask
}

// AllFlags grants every capability; used for superadmin summaries.
func AllFlags() models.PermissionFlags {
	return models.PermissionFlags{PodeLer: true, PodeEscrever: true, PodeExcluir: true, EAdmin: true}
}
