package gen

import (
	"go/ast"
	"go/format"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	. "github.com/onsi/gomega"
)

const paymentSource = `package payment

import "context"

type Service interface {
	MakePayment(ctx context.Context) error
	IncrementPayment(ctx context.Context, amount int) (int, error)
	Split(total int, parts ...int) ([]int, string, error)
	Name() string
	Reset()
}

type Ledger interface {
	Balance(ctx context.Context) (int64, error)
}

type Number interface {
	~int | ~int64
}

type Box[T any] interface {
	Get() T
}

type Empty interface{}

type Amount int
`

func checkSource(t *testing.T, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "payment.go", src, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/payment", fset, []*ast.File{file}, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return pkg
}

func TestFindWrappersToGenerate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	pkg := checkSource(t, paymentSource)

	wrappers, err := FindWrappersToGenerate(pkg, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(wrappers).To(HaveLen(2))
	g.Expect(wrappers[0].IfaceName).To(Equal("Ledger"))
	g.Expect(wrappers[0].WrapperName).To(Equal("LedgerAdvised"))
	g.Expect(wrappers[1].IfaceName).To(Equal("Service"))

	wrappers, err = FindWrappersToGenerate(pkg, ParseWrapperOptions([]string{"Service->AdvisedService"}))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(wrappers).To(HaveLen(1))
	g.Expect(wrappers[0].WrapperName).To(Equal("AdvisedService"))

	_, err = FindWrappersToGenerate(pkg, ParseWrapperOptions([]string{"Missing"}))
	g.Expect(err).To(MatchError(ContainSubstring("interface='Missing' not found")))

	_, err = FindWrappersToGenerate(pkg, ParseWrapperOptions([]string{"Box"}))
	g.Expect(err).To(HaveOccurred())
}

func TestParseWrapperOptions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	options := ParseWrapperOptions([]string{"Service", "Ledger->AuditedLedger", " Map -> MapAspect "})

	g.Expect(options).To(Equal(map[string]string{
		"Service": "",
		"Ledger":  "AuditedLedger",
		"Map":     "MapAspect",
	}))
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	pkg := checkSource(t, paymentSource)
	wrappers, err := FindWrappersToGenerate(pkg, ParseWrapperOptions([]string{"Service"}))
	g.Expect(err).NotTo(HaveOccurred())

	code, err := Generate(Config{
		DstPkgName:     "payment",
		DstPackagePath: "example.com/payment",
		SrcPkg:         pkg,
		Wrappers:       wrappers,
	})
	g.Expect(err).NotTo(HaveOccurred())

	formatted, err := format.Source([]byte(code))
	g.Expect(err).NotTo(HaveOccurred(), code)
	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", formatted, 0)
	g.Expect(err).NotTo(HaveOccurred())

	out := string(formatted)
	g.Expect(out).To(HavePrefix("// Code generated by goadvice. DO NOT EDIT."))
	g.Expect(out).To(ContainSubstring(`"github.com/CherkashinEvgeny/goadvice"`))
	g.Expect(out).NotTo(ContainSubstring(`"example.com/payment"`))
	g.Expect(out).To(ContainSubstring("func RegisterService(c *goadvice.Container, impl Service) error"))
	g.Expect(out).To(ContainSubstring(`"payment.Service.IncrementPayment"`))
	g.Expect(out).To(ContainSubstring("Arity: goadvice.Variadic"))
	g.Expect(out).To(ContainSubstring("a0, ok := args[0].(int)"))
	g.Expect(out).To(ContainSubstring(`return nil, goadvice.ArgTypeError("payment.Service.IncrementPayment", 0, "int", args[0])`))
	g.Expect(out).To(ContainSubstring("r0, err := impl.IncrementPayment(ctx, a0)"))
	g.Expect(out).To(ContainSubstring(`return nil, goadvice.ArgTypeError("payment.Service.Split", 1+i, "int", arg)`))
	g.Expect(out).To(ContainSubstring("impl.Split(a0, rest...)"))
	g.Expect(out).To(ContainSubstring("return []any{r0, r1}, err"))
	g.Expect(out).To(ContainSubstring("var _ Service = (*ServiceAdvised)(nil)"))
	g.Expect(out).To(ContainSubstring("func (w *ServiceAdvised) IncrementPayment(ctx context.Context, p0 int) (int, error)"))
	g.Expect(out).To(ContainSubstring("func (w *ServiceAdvised) Split(p0 int, rest ...int) ([]int, string, error)"))
	g.Expect(out).To(ContainSubstring(`w.invoker.Invoke(context.Background(), "payment.Service.Name")`))
	g.Expect(out).To(ContainSubstring("panic(err)"))
}

func TestGenerateIntoOtherPackage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	pkg := checkSource(t, paymentSource)
	wrappers, err := FindWrappersToGenerate(pkg, ParseWrapperOptions([]string{"Ledger"}))
	g.Expect(err).NotTo(HaveOccurred())

	code, err := Generate(Config{
		DstPkgName:     "advised",
		DstPackagePath: "example.com/advised",
		SrcPkg:         pkg,
		Wrappers:       wrappers,
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(code).To(ContainSubstring(`"example.com/payment"`))
	g.Expect(code).To(ContainSubstring("impl payment.Ledger"))
	g.Expect(code).To(ContainSubstring("var _ payment.Ledger = (*LedgerAdvised)(nil)"))
}

func TestGenerateRejectsEmptyConfig(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := Generate(Config{})
	g.Expect(err).To(HaveOccurred())

	_, err = Generate(Config{SrcPkg: types.NewPackage("example.com/x", "x")})
	g.Expect(err).To(HaveOccurred())
}

const storeSource = `package store

import "context"

type Option struct{}

type Store interface {
	Put(ctx context.Context, key string, value any, tags map[string]string, opts ...*Option) error
}
`

func TestGenerateChecksArgumentTypes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	pkg := checkSource(t, storeSource)
	wrappers, err := FindWrappersToGenerate(pkg, nil)
	g.Expect(err).NotTo(HaveOccurred())

	code, err := Generate(Config{
		DstPkgName:     "store",
		DstPackagePath: "example.com/payment",
		SrcPkg:         pkg,
		Wrappers:       wrappers,
	})
	g.Expect(err).NotTo(HaveOccurred())
	formatted, err := format.Source([]byte(code))
	g.Expect(err).NotTo(HaveOccurred(), code)

	out := string(formatted)
	g.Expect(out).To(ContainSubstring("a0, ok := args[0].(string)\n\t\t\t\tif !ok {"))
	g.Expect(out).To(ContainSubstring("if !ok && args[1] != nil {"))
	g.Expect(out).To(ContainSubstring("a2, ok := args[2].(map[string]string)\n\t\t\t\tif !ok && args[2] != nil {"))
	g.Expect(out).To(ContainSubstring("v, ok := arg.(*Option)\n\t\t\t\t\tif !ok && arg != nil {"))
	g.Expect(out).To(ContainSubstring(`goadvice.ArgTypeError("store.Store.Put", 3+i, "*Option", arg)`))
}
