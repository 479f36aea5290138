// Package rust renders checked IDL programs as Rust modules built on the
// thrift runtime macros (strukt!, enom!, service!).
package rust

import (
	"fmt"
	"path"
	"strings"

	"github.com/okra-platform/thriftrs/internal/codegen/writer"
	"github.com/okra-platform/thriftrs/internal/schema"
)

const (
	indent      = "    "
	bannerWidth = 63
)

// Options configures a Generator
type Options struct {
	// Namespace qualifies imports of other modules. When empty the program's
	// own "rs" namespace is used, and when that is empty too imports are bare.
	Namespace string

	// Version is stamped into the header comment
	Version string

	// MaxChainDepth bounds service extends chains; zero means DefaultMaxChainDepth
	MaxChainDepth int
}

// Generator generates Rust code from a program
type Generator struct {
	opts Options
}

// NewGenerator creates a new Rust code generator
func NewGenerator(opts Options) *Generator {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.MaxChainDepth <= 0 {
		opts.MaxChainDepth = DefaultMaxChainDepth
	}
	return &Generator{opts: opts}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "rs"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".rs"
}

// UnitPath returns <module>/mod.rs for the program
func (g *Generator) UnitPath(p *schema.Program) string {
	return path.Join(ModuleName(p.Name), "mod"+g.FileExtension())
}

// Generate renders the whole program. On error nothing is returned.
func (g *Generator) Generate(p *schema.Program) ([]byte, error) {
	u := &unit{
		w:       writer.NewWriter(indent),
		opts:    g.opts,
		program: p,
	}
	if err := u.compose(); err != nil {
		return nil, fmt.Errorf("program %s: %w", p.Name, err)
	}
	return u.w.Bytes(), nil
}

// unit holds the state of one Generate call. Nothing is shared between calls,
// so programs can be generated concurrently.
type unit struct {
	w       *writer.Writer
	opts    Options
	program *schema.Program
}

func (u *unit) compose() error {
	u.writeHeader()
	u.writeIncludes()
	u.writeServiceUses()

	p := u.program
	for _, e := range p.Enums {
		if err := u.writeEnum(e); err != nil {
			return err
		}
	}
	for _, td := range p.Typedefs {
		if err := u.writeTypedef(td); err != nil {
			return err
		}
	}
	for _, s := range p.Structs {
		if err := u.writeStruct(s); err != nil {
			return err
		}
	}
	for _, c := range p.Consts {
		if err := u.writeConst(c); err != nil {
			return err
		}
	}
	if len(p.Consts) > 0 {
		u.w.BlankLine()
	}
	for i := range p.Services {
		if err := u.writeService(&p.Services[i]); err != nil {
			return err
		}
	}
	return nil
}

func (u *unit) writeHeader() {
	u.w.WriteBanner(bannerWidth,
		fmt.Sprintf("Autogenerated by thriftrs (%s)", u.opts.Version),
		"",
		"DO NOT EDIT UNLESS YOU ARE SURE YOU KNOW WHAT YOU ARE DOING",
	)
	u.w.BlankLine()
	u.w.WriteLine("#![allow(unused_mut, dead_code, non_snake_case, unused_imports)]")
	u.w.WriteLine("use ::thrift::rt::OrderedFloat;")
	u.w.WriteLine("use std::collections::{BTreeMap, BTreeSet};")
	u.w.BlankLine()
}

func (u *unit) writeIncludes() {
	for _, inc := range u.program.Includes {
		u.w.WriteLinef("use %s::*;", u.modulePath(inc.Name))
	}
	u.w.BlankLine()
}

// writeServiceUses imports the module of every ancestor service declared elsewhere
func (u *unit) writeServiceUses() {
	seen := map[string]bool{u.program.Name: true}
	for i := range u.program.Services {
		for anc := u.program.Services[i].Parent; anc != nil; anc = anc.Parent {
			if seen[anc.Program] {
				continue
			}
			seen[anc.Program] = true
			u.w.WriteLinef("use %s::*;", u.modulePath(anc.Program))
		}
	}
	u.w.BlankLine()
}

// modulePath qualifies a module name with the namespace prefix, if any
func (u *unit) modulePath(module string) string {
	ns := u.opts.Namespace
	if ns == "" {
		ns = u.program.Namespace("rs")
	}
	name := ModuleName(module)
	if ns == "" {
		return name
	}
	return "::" + strings.ReplaceAll(ns, ".", "::") + "::" + name
}
