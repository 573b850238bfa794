package gen

import (
	"text/template"
)

var fileTmpl = template.Must(template.New("file").Parse(`// Code generated by goadvice. DO NOT EDIT.

package {{.PkgName}}

import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)
{{range .Wrappers}}
// Register{{.IfaceName}} registers every method of impl as an operation of c.
func Register{{.IfaceName}}(c *goadvice.Container, impl {{.IfaceType}}) error {
	ops := []goadvice.Operation{
{{- range .Methods}}
		{
			Name:  "{{.OpName}}",
			Arity: {{.Arity}},
			Body: func(ctx context.Context, args []any) (any, error) {
{{- range .BodyLines}}
				{{.}}
{{- end}}
			},
		},
{{- end}}
	}
	for _, op := range ops {
		if err := c.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// {{.WrapperName}} implements {{.IfaceName}} by invoking the operations registered by Register{{.IfaceName}}.
type {{.WrapperName}} struct {
	invoker goadvice.Invoker
}

var _ {{.IfaceType}} = (*{{.WrapperName}})(nil)

func New{{.WrapperName}}(invoker goadvice.Invoker) *{{.WrapperName}} {
	return &{{.WrapperName}}{invoker: invoker}
}
{{$wrapper := .WrapperName}}
{{- range .Methods}}
func (w *{{$wrapper}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- range .ProxyLines}}
	{{.}}
{{- end}}
}
{{end}}
{{- end}}`))
