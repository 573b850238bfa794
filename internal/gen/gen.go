// Package gen writes typed wrappers that route interface methods through a goadvice chain.
//
// For every interface I it emits RegisterI, which turns each method of an implementation
// into a goadvice.Operation named "<pkg>.I.<Method>", and IAdvised, which implements I by
// invoking those operations. A leading context.Context parameter becomes the invocation
// context and does not count towards the operation arity.
package gen

import (
	"bytes"
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	goadvicePath = "github.com/CherkashinEvgeny/goadvice"
	contextPath  = "context"
)

type Config struct {
	DstPkgName     string
	DstPackagePath string
	SrcPkg         *types.Package
	Wrappers       []WrapperConfig
}

type WrapperConfig struct {
	IfaceName   string
	Iface       *types.Interface
	WrapperName string
}

type fileData struct {
	PkgName  string
	Imports  []string
	Wrappers []wrapperData
}

type wrapperData struct {
	IfaceName   string
	IfaceType   string
	WrapperName string
	Methods     []methodData
}

type methodData struct {
	Name       string
	OpName     string
	Arity      string
	Params     string
	Results    string
	BodyLines  []string
	ProxyLines []string
}

// Generate renders the wrappers of cfg into Go source. The result is not gofmt-ed.
func Generate(cfg Config) (string, error) {
	if cfg.SrcPkg == nil {
		return "", errors.New("source package is nil")
	}
	if len(cfg.Wrappers) == 0 {
		return "", errors.Errorf("package='%s' has no interfaces to wrap", cfg.SrcPkg.Path())
	}
	imports := map[string]struct{}{
		contextPath:  {},
		goadvicePath: {},
	}
	qualifier := func(pkg *types.Package) string {
		if pkg.Path() == cfg.DstPackagePath {
			return ""
		}
		imports[pkg.Path()] = struct{}{}
		return pkg.Name()
	}

	data := fileData{PkgName: cfg.DstPkgName}
	for _, w := range cfg.Wrappers {
		wd, err := buildWrapper(cfg.SrcPkg, w, qualifier)
		if err != nil {
			return "", err
		}
		data.Wrappers = append(data.Wrappers, wd)
	}
	for path := range imports {
		data.Imports = append(data.Imports, path)
	}
	sort.Strings(data.Imports)

	buf := &bytes.Buffer{}
	if err := fileTmpl.Execute(buf, data); err != nil {
		return "", errors.Wrap(err, "execute template")
	}
	return buf.String(), nil
}

func buildWrapper(src *types.Package, w WrapperConfig, qualifier types.Qualifier) (wrapperData, error) {
	ifaceType := w.IfaceName
	if q := qualifier(src); q != "" {
		ifaceType = q + "." + w.IfaceName
	}
	wd := wrapperData{
		IfaceName:   w.IfaceName,
		IfaceType:   ifaceType,
		WrapperName: w.WrapperName,
	}
	for i := 0; i < w.Iface.NumMethods(); i++ {
		fn := w.Iface.Method(i)
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			return wrapperData{}, errors.Errorf("method='%s.%s' has no signature", w.IfaceName, fn.Name())
		}
		opName := fmt.Sprintf("%s.%s.%s", src.Name(), w.IfaceName, fn.Name())
		wd.Methods = append(wd.Methods, buildMethod(fn.Name(), opName, sig, qualifier))
	}
	return wd, nil
}

type param struct {
	name     string
	arg      string
	typ      string
	nillable bool
}

func buildMethod(name, opName string, sig *types.Signature, qualifier types.Qualifier) methodData {
	params := sig.Params()
	first := 0
	hasCtx := params.Len() > 0 && isContext(params.At(0).Type())
	if hasCtx {
		first = 1
	}

	var fixed []param
	var variadicElem *param
	for i := first; i < params.Len(); i++ {
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			elem := t.(*types.Slice).Elem()
			variadicElem = &param{typ: types.TypeString(elem, qualifier), nillable: isNillable(elem)}
			continue
		}
		n := len(fixed)
		fixed = append(fixed, param{
			name:     fmt.Sprintf("p%d", n),
			arg:      fmt.Sprintf("a%d", n),
			typ:      types.TypeString(t, qualifier),
			nillable: isNillable(t),
		})
	}
	variadic := variadicElem != nil

	results := sig.Results()
	hasErr := results.Len() > 0 && isError(results.At(results.Len()-1).Type())
	var values []param
	for i := 0; i < results.Len(); i++ {
		if hasErr && i == results.Len()-1 {
			continue
		}
		values = append(values, param{
			name: fmt.Sprintf("r%d", i),
			typ:  types.TypeString(results.At(i).Type(), qualifier),
		})
	}

	md := methodData{
		Name:   name,
		OpName: opName,
		Arity:  fmt.Sprint(len(fixed)),
	}
	if variadic {
		md.Arity = "goadvice.Variadic"
	}

	var paramList []string
	if hasCtx {
		paramList = append(paramList, "ctx context.Context")
	}
	for _, p := range fixed {
		paramList = append(paramList, p.name+" "+p.typ)
	}
	if variadic {
		paramList = append(paramList, "rest ..."+variadicElem.typ)
	}
	md.Params = strings.Join(paramList, ", ")

	var resultTypes []string
	for _, r := range values {
		resultTypes = append(resultTypes, r.typ)
	}
	if hasErr {
		resultTypes = append(resultTypes, "error")
	}
	switch len(resultTypes) {
	case 0:
	case 1:
		md.Results = resultTypes[0]
	default:
		md.Results = "(" + strings.Join(resultTypes, ", ") + ")"
	}

	md.BodyLines = bodyLines(name, opName, hasCtx, fixed, variadicElem, values, hasErr)
	md.ProxyLines = proxyLines(opName, hasCtx, fixed, variadic, values, hasErr)
	return md
}

// bodyLines is the operation body: unpack args, call impl, pack results.
// An argument of the wrong type fails with goadvice.ErrArgType; nil is accepted only
// where the parameter type can hold it.
func bodyLines(name, opName string, hasCtx bool, fixed []param, variadicElem *param, values []param, hasErr bool) []string {
	var lines []string
	if variadicElem != nil && len(fixed) > 0 {
		lines = append(lines,
			fmt.Sprintf("if len(args) < %d {", len(fixed)),
			"\treturn nil, goadvice.ErrArity",
			"}",
		)
	}
	var callArgs []string
	if hasCtx {
		callArgs = append(callArgs, "ctx")
	}
	for i, p := range fixed {
		value := fmt.Sprintf("args[%d]", i)
		lines = append(lines,
			fmt.Sprintf("%s, ok := %s.(%s)", p.arg, value, p.typ),
			"if "+typeMismatch(value, p.nillable)+" {",
			fmt.Sprintf("\treturn nil, goadvice.ArgTypeError(%q, %d, %q, %s)", opName, i, p.typ, value),
			"}",
		)
		callArgs = append(callArgs, p.arg)
	}
	if variadicElem != nil {
		index := "i"
		if len(fixed) > 0 {
			index = fmt.Sprintf("%d+i", len(fixed))
		}
		lines = append(lines,
			fmt.Sprintf("rest := make([]%s, 0, len(args)-%d)", variadicElem.typ, len(fixed)),
			fmt.Sprintf("for i, arg := range args[%d:] {", len(fixed)),
			fmt.Sprintf("\tv, ok := arg.(%s)", variadicElem.typ),
			"\tif "+typeMismatch("arg", variadicElem.nillable)+" {",
			fmt.Sprintf("\t\treturn nil, goadvice.ArgTypeError(%q, %s, %q, arg)", opName, index, variadicElem.typ),
			"\t}",
			"\trest = append(rest, v)",
			"}",
		)
		callArgs = append(callArgs, "rest...")
	}

	var lhs []string
	for _, r := range values {
		lhs = append(lhs, r.name)
	}
	if hasErr {
		lhs = append(lhs, "err")
	}
	call := fmt.Sprintf("impl.%s(%s)", name, strings.Join(callArgs, ", "))
	if len(lhs) > 0 {
		call = strings.Join(lhs, ", ") + " := " + call
	}
	lines = append(lines, call)

	errValue := "nil"
	if hasErr {
		errValue = "err"
	}
	switch len(values) {
	case 0:
		lines = append(lines, "return nil, "+errValue)
	case 1:
		lines = append(lines, fmt.Sprintf("return %s, %s", values[0].name, errValue))
	default:
		lines = append(lines, fmt.Sprintf("return []any{%s}, %s", strings.Join(lhs[:len(values)], ", "), errValue))
	}
	return lines
}

// proxyLines is the wrapper method: pack params, invoke, unpack results.
func proxyLines(opName string, hasCtx bool, fixed []param, variadic bool, values []param, hasErr bool) []string {
	ctx := "context.Background()"
	if hasCtx {
		ctx = "ctx"
	}
	res := "res"
	if len(values) == 0 {
		res = "_"
	}

	var lines []string
	if variadic {
		lines = append(lines, fmt.Sprintf("args := make([]any, 0, %d+len(rest))", len(fixed)))
		for _, p := range fixed {
			lines = append(lines, fmt.Sprintf("args = append(args, %s)", p.name))
		}
		lines = append(lines,
			"for _, v := range rest {",
			"\targs = append(args, v)",
			"}",
			fmt.Sprintf("%s, err := w.invoker.Invoke(%s, %q, args...)", res, ctx, opName),
		)
	} else {
		call := fmt.Sprintf("%s, err := w.invoker.Invoke(%s, %q", res, ctx, opName)
		for _, p := range fixed {
			call += ", " + p.name
		}
		lines = append(lines, call+")")
	}

	switch len(values) {
	case 0:
	case 1:
		lines = append(lines, fmt.Sprintf("%s, _ := res.(%s)", values[0].name, values[0].typ))
	default:
		lines = append(lines, "out, _ := res.([]any)")
		for _, r := range values {
			lines = append(lines, fmt.Sprintf("var %s %s", r.name, r.typ))
		}
		lines = append(lines, fmt.Sprintf("if len(out) == %d {", len(values)))
		for i, r := range values {
			lines = append(lines, fmt.Sprintf("\t%s, _ = out[%d].(%s)", r.name, i, r.typ))
		}
		lines = append(lines, "}")
	}

	var returned []string
	for _, r := range values {
		returned = append(returned, r.name)
	}
	if hasErr {
		returned = append(returned, "err")
	} else {
		lines = append(lines,
			"if err != nil {",
			"\tpanic(err)",
			"}",
		)
	}
	if len(returned) > 0 {
		lines = append(lines, "return "+strings.Join(returned, ", "))
	}
	return lines
}

func typeMismatch(value string, nillable bool) string {
	if nillable {
		return "!ok && " + value + " != nil"
	}
	return "!ok"
}

// isNillable reports whether nil is a valid value of t, so a nil argument can stand for it.
func isNillable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	}
	return false
}

func isContext(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == contextPath && obj.Name() == "Context"
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
