package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// ExtensionKey marks a request schema property as dependent on another one:
//
//	especialidad:
//	  type: string
//	  x-formtoggle:
//	    controller: rol
//	    equals: MECANICO
const ExtensionKey = "x-formtoggle"

type extension struct {
	Controller string `json:"controller"`
	Equals     string `json:"equals"`
}

// FromOpenAPI derives rules from the request body schema of operationID.
// Selectors follow the admin markup conventions: `#id_<controller>` for the
// controller and the tabular and grouped row classes for the dependent.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) ([]toggle.Rule, error) {
	if len(data) == 0 {
		return nil, errors.New("rules: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("rules: load openapi: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("rules: operation %q not found", operationID)
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("rules: operation %q has no request schema", operationID)
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []toggle.Rule
	for _, name := range names {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		raw, ok := prop.Value.Extensions[ExtensionKey]
		if !ok {
			continue
		}
		ext, err := decodeExtension(raw)
		if err != nil {
			return nil, fmt.Errorf("rules: property %q: %w", name, err)
		}
		if _, ok := schema.Properties[ext.Controller]; !ok {
			return nil, fmt.Errorf("rules: property %q references unknown controller %q", name, ext.Controller)
		}
		out = append(out, AdminRule(ext.Controller, name, ext.Equals))
	}
	return out, nil
}

// AdminRule builds a rule using the admin markup conventions for the given
// controller and dependent field names.
func AdminRule(controllerField, dependentField, match string) toggle.Rule {
	return toggle.Rule{
		Name:               dependentField,
		ControllerSelector: "#id_" + controllerField,
		DependentSelector:  fmt.Sprintf(".form-row.field-%[1]s, .form-group.field-%[1]s", dependentField),
		MatchValue:         match,
		ControllerField:    controllerField,
		DependentField:     dependentField,
	}
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mime := range []string{"application/x-www-form-urlencoded", "application/json", "multipart/form-data"} {
		if media := content.Get(mime); media != nil && media.Schema != nil && media.Schema.Value != nil {
			return media.Schema.Value
		}
	}
	return nil
}

func decodeExtension(raw any) (extension, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return extension{}, fmt.Errorf("encode %s: %w", ExtensionKey, err)
	}
	var ext extension
	if err := json.Unmarshal(data, &ext); err != nil {
		return extension{}, fmt.Errorf("decode %s: %w", ExtensionKey, err)
	}
	ext.Controller = strings.TrimSpace(ext.Controller)
	if ext.Controller == "" {
		return extension{}, fmt.Errorf("%s.controller is required", ExtensionKey)
	}
	return ext, nil
}
