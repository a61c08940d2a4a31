package content

import (
	"golang.org/x/text/unicode/norm"
)

// DefaultUnits is the closed set of company locations a collaborator can
// belong to. It can be overridden from the portal config file so the same
// list is enforced on sign-up and at the database.
var DefaultUnits = []string{
	"São Borja",
	"São Leopoldo",
	"Fortaleza",
	"Barreiras",
	"Ibotirama",
	"Luis Eduardo Magalhães",
	"Guanambi",
	"Bom Jesus da Lapa",
	"Brumado",
	"Livramento de Nossa Senhora",
	"Vitória da Conquista",
	"Jequié",
	"Itapetinga",
	"Feira de Santana",
	"Serrinha",
	"Itaberaba",
	"Irecê",
}

// Units is a configuration-supplied closed enumeration of unit names.
// Accented names are compared NFC-normalized so the value a collaborator
// picks at sign-up round-trips byte-identically through the profile record.
type Units struct {
	names  []string
	lookup map[string]string
}

func NewUnits(names []string) *Units {
	u := &Units{
		names:  make([]string, 0, len(names)),
		lookup: make(map[string]string, len(names)),
	}
	for _, name := range names {
		canonical := norm.NFC.String(name)
		u.names = append(u.names, canonical)
		u.lookup[canonical] = canonical
	}
	return u
}

// Names returns the enumeration in configured order.
func (u *Units) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Canonical returns the canonical spelling of name and whether name is a
// member of the enumeration.
func (u *Units) Canonical(name string) (string, bool) {
	canonical, ok := u.lookup[norm.NFC.String(name)]
	return canonical, ok
}

// Valid reports whether name is a member of the enumeration.
func (u *Units) Valid(name string) bool {
	_, ok := u.Canonical(name)
	return ok
}
