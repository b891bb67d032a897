// Package catalog defines the user administration form served and prompted
// by formtoggle.
package catalog

import "github.com/goliatone/go-formtoggle/pkg/prompt"

// Roles lists the user roles.
var Roles = []prompt.Choice{
	{Value: "COORDINACION", Label: "Coordinación"},
	{Value: "SUPERVISOR", Label: "Supervisor"},
	{Value: "MECANICO", Label: "Mecánico"},
	{Value: "CHOFER", Label: "Chofer"},
	{Value: "GUARDIA", Label: "Guardia"},
	{Value: "JEFE_TALLER", Label: "Jefe de Taller"},
}

// Especialidades lists the mechanic specialties.
var Especialidades = []prompt.Choice{
	{Value: "GENERAL", Label: "General / Multiservicio"},
	{Value: "MOTOR", Label: "Motor y transmisión"},
	{Value: "ELECTRICIDAD", Label: "Electricidad automotriz"},
	{Value: "FRENOS", Label: "Frenos y suspensión"},
	{Value: "AIRE", Label: "Aire acondicionado y climatización"},
	{Value: "CARROCERIA", Label: "Carrocería y pintura"},
	{Value: "LLANTAS", Label: "Llantas y alineación"},
	{Value: "DIAGNOSTICO", Label: "Diagnóstico computarizado"},
}

// EspecialidadHelp is shown under the specialty select. It may contain markup
// and is sanitized before rendering.
const EspecialidadHelp = "Especialidad del mecánico (seleccione una opción o <em>General</em>)."

// UsuarioFields returns the prompt fields of the user form in display order.
func UsuarioFields() []prompt.Field {
	return []prompt.Field{
		{Name: "username", Label: "Nombre de usuario", Required: true},
		{Name: "first_name", Label: "Nombre"},
		{Name: "last_name", Label: "Apellido"},
		{Name: "rol", Label: "Rol", Choices: Roles, Required: true},
		{Name: "especialidad", Label: "Especialidad", Choices: Especialidades, Help: "Especialidad del mecánico (seleccione una opción o 'General')."},
	}
}

// Label returns the label of value within choices, or value itself.
func Label(choices []prompt.Choice, value string) string {
	for _, choice := range choices {
		if choice.Value == value {
			return choice.Label
		}
	}
	return value
}
