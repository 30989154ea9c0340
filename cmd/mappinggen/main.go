// Command mappinggen writes FieldValue methods for entities mapped with orm
// struct tags, so the field accessor can read them without reflection.
//
//	//go:generate go run github.com/krew-solutions/ascetic-inmemory-go/cmd/mappinggen -type=Node
//
// With -type the output is <type>_mapping_gen.go, otherwise every tagged
// struct of the package goes to zz_mapping_gen.go.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

const header = "// Code generated by mappinggen. DO NOT EDIT.\n"

type entity struct {
	name   string
	fields []string
}

func main() {
	typeNames := flag.String("type", "", "comma-separated list of entity type names; all tagged structs if empty")
	dir := flag.String("dir", ".", "package directory")
	out := flag.String("out", "", "output file name")
	tagName := flag.String("tag", mapping.DefaultTagName, "struct tag holding the mapping")
	flag.Parse()

	var wanted []string
	if *typeNames != "" {
		wanted = strings.Split(*typeNames, ",")
	}
	if err := run(*dir, *out, *tagName, wanted); err != nil {
		fmt.Fprintf(os.Stderr, "mappinggen: %v\n", err)
		os.Exit(1)
	}
}

func run(dir, out, tagName string, wanted []string) error {
	pkgName, entities, err := collect(dir, tagName, wanted)
	if err != nil {
		return err
	}
	src, err := generate(pkgName, entities)
	if err != nil {
		return err
	}
	if out == "" {
		out = outputName(wanted)
	}
	path := filepath.Join(dir, out)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return nil
}

func outputName(wanted []string) string {
	if len(wanted) == 1 {
		return strings.ToLower(wanted[0]) + "_mapping_gen.go"
	}
	return "zz_mapping_gen.go"
}

type declared struct {
	name string
	st   *ast.StructType
}

// collect parses the non-test, non-generated files of dir and returns the
// tagged structs in declaration order.
func collect(dir, tagName string, wanted []string) (string, []entity, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "", nil, err
	}
	sort.Strings(paths)

	fset := token.NewFileSet()
	var pkgName string
	var decls []declared
	for _, path := range paths {
		base := filepath.Base(path)
		if strings.HasSuffix(base, "_test.go") || strings.HasSuffix(base, "_gen.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return "", nil, errors.Wrapf(err, "unable to parse %s", path)
		}
		pkgName = file.Name.Name
		decls = append(decls, structsOf(file)...)
	}
	if pkgName == "" {
		return "", nil, errors.Errorf("no Go files in %s", dir)
	}

	structs := make(map[string]*ast.StructType, len(decls))
	for _, d := range decls {
		structs[d.name] = d.st
	}
	var found []entity
	for _, d := range decls {
		fields, err := mappedFields(d.st, tagName, structs, map[string]struct{}{}, map[string]struct{}{d.name: {}})
		if err != nil {
			return "", nil, errors.Wrap(err, d.name)
		}
		if len(fields) > 0 {
			found = append(found, entity{name: d.name, fields: fields})
		}
	}
	if len(wanted) == 0 {
		return pkgName, found, nil
	}

	byName := make(map[string]entity, len(found))
	for _, e := range found {
		byName[e.name] = e
	}
	selected := make([]entity, 0, len(wanted))
	for _, name := range wanted {
		e, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return "", nil, errors.Errorf("type %s not found or has no %s tags", name, tagName)
		}
		selected = append(selected, e)
	}
	return pkgName, selected, nil
}

// structsOf returns the non-generic struct types declared in file.
func structsOf(file *ast.File) []declared {
	var result []declared
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok || ts.TypeParams != nil {
				continue
			}
			result = append(result, declared{name: ts.Name.Name, st: st})
		}
	}
	return result
}

// mappedFields lists the tagged fields of st, followed by the tagged fields
// promoted from its untagged embedded structs of the same package. Fields
// behind an embedded pointer are left to the reflective accessor, since the
// pointer may be nil.
func mappedFields(st *ast.StructType, tagName string, structs map[string]*ast.StructType, shadowed, visiting map[string]struct{}) ([]string, error) {
	names := make(map[string]struct{}, len(shadowed)+len(st.Fields.List))
	for name := range shadowed {
		names[name] = struct{}{}
	}
	for _, field := range st.Fields.List {
		for _, name := range fieldNames(field) {
			names[name] = struct{}{}
		}
	}

	var fields []string
	var embedded []string
	for _, field := range st.Fields.List {
		tag, ok, err := lookupTag(field, tagName)
		if err != nil {
			return nil, err
		}
		if !ok {
			if ident, isValue := field.Type.(*ast.Ident); isValue && len(field.Names) == 0 {
				if _, local := structs[ident.Name]; local {
					embedded = append(embedded, ident.Name)
				}
			}
			continue
		}
		if tag == "-" {
			continue
		}
		for _, name := range fieldNames(field) {
			if _, ok := shadowed[name]; ok {
				continue
			}
			if _, err := mapping.ParseTag(name, tag); err != nil {
				return nil, errors.Wrap(err, name)
			}
			fields = append(fields, name)
		}
	}
	for _, name := range embedded {
		if _, ok := shadowed[name]; ok {
			continue
		}
		if _, cycle := visiting[name]; cycle {
			continue
		}
		visiting[name] = struct{}{}
		promoted, err := mappedFields(structs[name], tagName, structs, names, visiting)
		delete(visiting, name)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		fields = append(fields, promoted...)
	}
	return fields, nil
}

func lookupTag(field *ast.Field, tagName string) (string, bool, error) {
	if field.Tag == nil {
		return "", false, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false, err
	}
	tag, ok := reflect.StructTag(raw).Lookup(tagName)
	return tag, ok, nil
}

// fieldNames returns the declared names of field, or the type name of an
// embedded field.
func fieldNames(field *ast.Field) []string {
	if len(field.Names) > 0 {
		names := make([]string, len(field.Names))
		for i, n := range field.Names {
			names[i] = n.Name
		}
		return names
	}
	t := field.Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	switch t := t.(type) {
	case *ast.Ident:
		return []string{t.Name}
	case *ast.SelectorExpr:
		return []string{t.Sel.Name}
	}
	return nil
}

func generate(pkgName string, entities []entity) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "\npackage %s\n", pkgName)
	for _, e := range entities {
		fmt.Fprintf(&buf, "\n// FieldValue returns the value of a mapped field of %s.\n", e.name)
		fmt.Fprintf(&buf, "func (e *%s) FieldValue(name string) (any, bool) {\n", e.name)
		buf.WriteString("switch name {\n")
		for _, f := range e.fields {
			fmt.Fprintf(&buf, "case %q:\nreturn e.%s, true\n", f, f)
		}
		buf.WriteString("}\nreturn nil, false\n}\n")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "generated code does not parse")
	}
	return src, nil
}
