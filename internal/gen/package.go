package gen

import (
	"bytes"
	"encoding/json"
	"go/build"
	"go/importer"
	"go/token"
	"go/types"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ParsePackage type-checks the package at the given import path from source.
func ParsePackage(path string) (*types.Package, error) {
	return importer.ForCompiler(token.NewFileSet(), "source", nil).Import(path)
}

// ResolvePackagePath asks the go tool for the import path of a directory.
func ResolvePackagePath(dir string) (string, error) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	cmd := exec.Command("go", "list", "-json", dir)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return "", errors.New(stderr.String())
		}
		return "", err
	}
	var stdoutJson struct {
		ImportPath string
	}
	err = json.Unmarshal(stdout.Bytes(), &stdoutJson)
	if err != nil {
		return "", errors.Wrap(err, "decode go list output")
	}
	return stdoutJson.ImportPath, nil
}

func ResolvePackageName(path string) (string, error) {
	pkg, err := build.Import(path, ".", build.ImportComment)
	if err != nil {
		return "", err
	}
	return pkg.Name, nil
}

// ParseWrapperOptions reads "Iface" and "Iface->Wrapper" arguments.
// An empty wrapper name means the default one.
func ParseWrapperOptions(options []string) map[string]string {
	names := make(map[string]string, len(options))
	for _, option := range options {
		splited := strings.SplitN(option, "->", 2)
		ifaceName := strings.TrimSpace(splited[0])
		var wrapperName string
		if len(splited) == 2 {
			wrapperName = strings.TrimSpace(splited[1])
		}
		names[ifaceName] = wrapperName
	}
	return names
}

// FindWrappersToGenerate picks the interfaces named in options, or every named
// non-generic interface of the package when options is empty. The result is sorted
// by interface name so generated files are stable.
func FindWrappersToGenerate(pkg *types.Package, options map[string]string) ([]WrapperConfig, error) {
	ifaces := findNamedInterfaces(pkg)
	var wrappers []WrapperConfig
	if len(options) == 0 {
		wrappers = make([]WrapperConfig, 0, len(ifaces))
		for ifaceName, iface := range ifaces {
			wrappers = append(wrappers, WrapperConfig{
				IfaceName:   ifaceName,
				Iface:       iface,
				WrapperName: defaultWrapperName(ifaceName),
			})
		}
	} else {
		wrappers = make([]WrapperConfig, 0, len(options))
		for ifaceName, wrapperName := range options {
			iface, found := ifaces[ifaceName]
			if !found {
				return nil, errors.Errorf("interface='%s' not found", ifaceName)
			}
			if wrapperName == "" {
				wrapperName = defaultWrapperName(ifaceName)
			}
			wrappers = append(wrappers, WrapperConfig{
				IfaceName:   ifaceName,
				Iface:       iface,
				WrapperName: wrapperName,
			})
		}
	}
	sort.Slice(wrappers, func(i, j int) bool {
		return wrappers[i].IfaceName < wrappers[j].IfaceName
	})
	return wrappers, nil
}

func defaultWrapperName(ifaceName string) string {
	return ifaceName + "Advised"
}

func findNamedInterfaces(pkg *types.Package) map[string]*types.Interface {
	items := map[string]*types.Interface{}
	pkgScope := pkg.Scope()
	for _, name := range pkgScope.Names() {
		obj := pkgScope.Lookup(name)
		if _, ok := obj.(*types.TypeName); !ok {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		iface, ok := named.Underlying().(*types.Interface)
		if !ok || iface.NumMethods() == 0 || !iface.IsMethodSet() {
			continue
		}
		items[name] = iface
	}
	return items
}
