package template

import (
	"io"
)

// TemplateRenderer renders named templates with shared globals.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
