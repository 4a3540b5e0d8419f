// Package ztest runs formulaic tests ("ztests") of query analysis.  A ztest
// analyzes one query against a domain model and checks the result against
// the expected canonical text of the Semantic Query Model or against an
// expected error.
//
// A ztest is defined in a YAML file.
//
//	query: select e.manager.name from Employee e
//
//	output: |
//	  select <gen:0>.name
//	  from
//	    Employee e
//	      left join e.manager <gen:0> implicit
//
// A test expecting an error gives a substring of the error message and,
// optionally, the kind of the error (semantic, strict-violation, internal,
// not-yet-implemented, or syntax).
//
//	query: from Person p
//	strict: true
//	error: no select clause
//	kind: strict-violation
//
// The query is analyzed against the model in the YAML file named by the
// model field, relative to the directory of the test, or against the
// fixture model of package domaintest when model is empty.  Setting strict
// turns on strict JPQL compliance.  Setting split expands the statement
// over the implementors of an unmapped polymorphic root, in which case
// output holds every resulting statement with a "---" line between each.
//
// Ztest YAML files for a package should reside in a subdirectory named
// testdata/ztest.
//
//	pkg/
//	  pkg.go
//	  pkg_test.go
//	  testdata/
//	    ztest/
//	      test-1.yaml
//	      test-2.yaml
//	      ...
//
// Name YAML files descriptively since each ztest runs as a subtest
// named for the file that defines it.
//
// pkg_test.go should contain a Go test named TestZTest that calls Run.
//
//	func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }
//
// Tests can be skipped by setting the skip field to a non-empty string.  A
// message containing the string will be written to the test log.
package ztest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sfmt"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Separator is the line between statements in the output of a split test.
const Separator = "---\n"

type Bundle struct {
	TestName string
	FileName string
	Test     *ZTest
	Error    error
}

func Load(dirname string) ([]Bundle, error) {
	var bundles []Bundle
	fileinfos, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	for _, fi := range fileinfos {
		filename := fi.Name()
		const dotyaml = ".yaml"
		if !strings.HasSuffix(filename, dotyaml) {
			continue
		}
		testname := strings.TrimSuffix(filename, dotyaml)
		filename = filepath.Join(dirname, filename)
		zt, err := FromYAMLFile(filename)
		bundles = append(bundles, Bundle{testname, filename, zt, err})
	}
	return bundles, nil
}

// Run runs the ztests in the directory named dirname.  For each file f.yaml in
// the directory, Run calls FromYAMLFile to load a ztest and then runs it in
// subtest named f.
func Run(t *testing.T, dirname string) {
	bundles, err := Load(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bundles {
		b := b
		t.Run(b.TestName, func(t *testing.T) {
			t.Parallel()
			if b.Error != nil {
				t.Fatalf("%s: %s", b.FileName, b.Error)
			}
			b.Test.Run(t, b.FileName)
		})
	}
}

// ZTest defines a ztest.
type ZTest struct {
	Skip   string `yaml:"skip,omitempty"`
	Query  string `yaml:"query"`
	Model  string `yaml:"model,omitempty"`
	Strict bool   `yaml:"strict,omitempty"`
	Split  bool   `yaml:"split,omitempty"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
}

func (z *ZTest) check() error {
	switch {
	case z.Query == "":
		return errors.New("query field missing")
	case z.Output != "" && z.Error != "":
		return errors.New("must specify at most one of output or error")
	case z.Kind != "" && z.Error == "":
		return errors.New("kind requires an error field")
	}
	return nil
}

// FromYAMLFile loads a ZTest from the YAML file named filename.
func FromYAMLFile(filename string) (*ZTest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var z ZTest
	if err := dec.Decode(&z); err != nil {
		return nil, err
	}
	return &z, nil
}

func (z *ZTest) loadModel(dir string) (*domain.Registry, error) {
	var model *domain.Registry
	if z.Model == "" {
		model = domaintest.Model()
	} else {
		f, err := os.Open(filepath.Join(dir, z.Model))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if model, err = domain.Load(f); err != nil {
			return nil, fmt.Errorf("%s: %w", z.Model, err)
		}
	}
	if z.Strict {
		model.Strict = true
	}
	return model, nil
}

// RunInternal analyzes the query of z and compares the outcome with the
// expected output or error.  dir is the directory containing the test.
func (z *ZTest) RunInternal(dir string) error {
	if err := z.check(); err != nil {
		return fmt.Errorf("bad yaml format: %w", err)
	}
	model, err := z.loadModel(dir)
	if err != nil {
		return err
	}
	out, err := run(compiler.New(model), z.Query, z.Split)
	return z.diff(out, err)
}

func run(c *compiler.Compiler, query string, split bool) (string, error) {
	stmt, err := c.Analyze(query)
	if err != nil {
		return "", err
	}
	stmts := []sqm.Statement{stmt}
	if split {
		if stmts, err = c.Split(stmt); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	for i, s := range stmts {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(sfmt.SQM(s))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (z *ZTest) diff(out string, err error) error {
	if z.Error == "" {
		if err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
		if z.Output != out {
			return diffErr("output", z.Output, out)
		}
		return nil
	}
	if err == nil {
		return fmt.Errorf("expected error containing %q but analysis succeeded with output:\n%s", z.Error, out)
	}
	var errs []error
	if !strings.Contains(err.Error(), z.Error) {
		errs = append(errs, diffErr("error", z.Error+"\n", err.Error()+"\n"))
	}
	if kind := qerr.KindOf(err).String(); z.Kind != "" && z.Kind != kind {
		errs = append(errs, fmt.Errorf("expected error kind %s but got %s: %w", z.Kind, kind, err))
	}
	return errors.Join(errs...)
}

func (z *ZTest) Run(t *testing.T, filename string) {
	if z.Skip != "" {
		t.Skip("skipping test:", z.Skip)
	}
	if err := z.RunInternal(filepath.Dir(filename)); err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

func diffErr(name, expected, actual string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		panic("ztest: " + err.Error())
	}
	return fmt.Errorf("expected and actual %s differ:\n%s", name, diff)
}
