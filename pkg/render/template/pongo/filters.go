package pongo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Row layouts understood by the field_row filter. They match the two admin
// markup conventions the default dependent selector covers.
const (
	LayoutTabular = "tabular"
	LayoutGrouped = "grouped"
)

// FieldRowClass returns the class list of the container wrapping field.
// Unknown layouts fall back to the tabular convention.
func FieldRowClass(layout, field string) string {
	row := "form-row"
	if strings.EqualFold(strings.TrimSpace(layout), LayoutGrouped) {
		row = "form-group"
	}
	return row + " field-" + strings.TrimSpace(field)
}

var (
	filtersOnce sync.Once
	filtersErr  error
)

// registerFilters installs the admin filters into the process wide pongo2
// registry:
//
//	{{ "especialidad"|field_row:layout }}  -> form-row field-especialidad
//	<option{{ choice.value|selected:values.rol }}>  -> " selected" on a match
func registerFilters() error {
	filtersOnce.Do(func() {
		filters := map[string]pongo2.FilterFunction{
			"field_row": filterFieldRow,
			"selected":  filterSelected,
		}
		for name, fn := range filters {
			if pongo2.FilterExists(name) {
				continue
			}
			if err := pongo2.RegisterFilter(name, fn); err != nil {
				filtersErr = fmt.Errorf("pongo: register filter %q: %w", name, err)
				return
			}
		}
	})
	return filtersErr
}

func filterFieldRow(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	layout := ""
	if param != nil {
		layout = param.String()
	}
	return pongo2.AsValue(FieldRowClass(layout, in.String())), nil
}

func filterSelected(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if param == nil || param.IsNil() || in.String() != param.String() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsSafeValue(" selected"), nil
}
