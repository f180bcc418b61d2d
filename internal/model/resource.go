// Package model defines the inventory records and the per-resource policy
// table that the generic repository, service and handler are built from.
package model

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Noun is the Spanish name of a resource, used to build response messages.
type Noun struct {
	Singular string
	Feminine bool
}

func (n Noun) article() string {
	if n.Feminine {
		return "la"
	}
	return "el"
}

func (n Noun) agree(masculine string) string {
	if n.Feminine {
		return strings.TrimSuffix(masculine, "o") + "a"
	}
	return masculine
}

func (n Noun) title() string {
	r, size := utf8.DecodeRuneInString(n.Singular)
	return string(unicode.ToUpper(r)) + n.Singular[size:]
}

// Indefinite returns e.g. "un portátil" or "una ficha".
func (n Noun) Indefinite() string {
	if n.Feminine {
		return "una " + n.Singular
	}
	return "un " + n.Singular
}

// Created returns e.g. "Portátil creado correctamente".
func (n Noun) Created() string {
	return fmt.Sprintf("%s %s correctamente", n.title(), n.agree("creado"))
}

// Updated returns e.g. "Ficha actualizada correctamente".
func (n Noun) Updated() string {
	return fmt.Sprintf("%s %s correctamente", n.title(), n.agree("actualizado"))
}

// Deleted returns e.g. "Ambiente eliminado correctamente".
func (n Noun) Deleted() string {
	return fmt.Sprintf("%s %s correctamente", n.title(), n.agree("eliminado"))
}

// NotFound returns e.g. "Portátil no encontrado".
func (n Noun) NotFound() string {
	return fmt.Sprintf("%s no %s", n.title(), n.agree("encontrado"))
}

// AlreadyExists returns e.g. "El portátil ya se encuentra registrado".
func (n Noun) AlreadyExists() string {
	return fmt.Sprintf("%s %s ya se encuentra %s", strings.ToUpper(n.article()[:1])+n.article()[1:], n.Singular, n.agree("registrado"))
}

// Failure returns e.g. "Error al crear el portátil" for verb "crear".
func (n Noun) Failure(verb string) string {
	return fmt.Sprintf("Error al %s %s %s", verb, n.article(), n.Singular)
}

// FailurePlural returns e.g. "Error al obtener los portátiles".
func (n Noun) FailurePlural(verb, plural string) string {
	article := "los"
	if n.Feminine {
		article = "las"
	}
	return fmt.Sprintf("Error al %s %s %s", verb, article, plural)
}

// Resource is the policy for one CRUD collection: what is stored, which
// fields each mutating operation requires, and how the identifier behaves.
type Resource struct {
	// Name is the route segment, e.g. "portatil".
	Name string
	// Aliases are extra route segments served by the same handler.
	Aliases []string
	// Plural is used in list failure messages.
	Plural string
	Noun   Noun

	Table    string
	IDColumn string

	// ClientID is true when the caller supplies the identifier on create.
	ClientID bool
	// CheckDuplicate runs an existence read before insert and answers 409
	// when the identifier is taken.
	CheckDuplicate bool

	// Columns are the non-identifier columns returned by reads.
	Columns []string
	// CreateColumns are written on insert. The identifier column is added
	// in front when ClientID is set.
	CreateColumns []string
	// UpdateColumns are written by Update.
	UpdateColumns []string
	// Optional columns store NULL when the payload omits them or sends "".
	Optional []string

	CreateRequired []string
	UpdateRequired []string
}

// InsertColumns returns the columns an INSERT writes, identifier first for
// client-supplied identifiers.
func (r Resource) InsertColumns() []string {
	if !r.ClientID {
		return r.CreateColumns
	}
	return append([]string{r.IDColumn}, r.CreateColumns...)
}

// SelectColumns returns the identifier followed by Columns.
func (r Resource) SelectColumns() []string {
	return append([]string{r.IDColumn}, r.Columns...)
}

// IsOptional reports whether column stores NULL for an empty value.
func (r Resource) IsOptional(column string) bool {
	return slices.Contains(r.Optional, column)
}

// ErrorCode builds a machine-readable code for the resource, e.g.
// ErrorCode("ALREADY_EXISTS") is "PORTATIL_ALREADY_EXISTS".
func (r Resource) ErrorCode(action string) string {
	return strings.ToUpper(strings.TrimPrefix(r.IDColumn, "id_")) + "_" + action
}

// Routes returns Name followed by Aliases.
func (r Resource) Routes() []string {
	return append([]string{r.Name}, r.Aliases...)
}
