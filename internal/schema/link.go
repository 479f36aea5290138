package schema

import (
	"fmt"
	"strings"
)

type declKind int

const (
	declTypedef declKind = iota
	declEnum
	declStruct
	declService
)

type decl struct {
	kind    declKind
	program string
	typedef *Typedef
	enum    *Enum
	strukt  *Struct
	service *Service
}

// linker resolves by-name references of a bundle into pointers
type linker struct {
	decls    map[string]map[string]*decl
	resolved map[*Typedef]bool
	visiting map[*Typedef]bool
}

// Link resolves named type references, typedef targets and service parents.
// It reports duplicate declarations, dangling references and cyclic aliases, nothing more: the front end
// has already validated the program.
func (b *Bundle) Link() error {
	l := &linker{
		decls:    make(map[string]map[string]*decl),
		resolved: make(map[*Typedef]bool),
		visiting: make(map[*Typedef]bool),
	}

	for _, p := range b.Programs {
		if p.Name == "" {
			return fmt.Errorf("program without a name")
		}
		if _, dup := l.decls[p.Name]; dup {
			return fmt.Errorf("program %s declared twice", p.Name)
		}
		if err := l.index(p); err != nil {
			return err
		}
	}

	for _, p := range b.Programs {
		if err := l.linkProgram(p); err != nil {
			return fmt.Errorf("program %s: %w", p.Name, err)
		}
	}

	for _, p := range b.Programs {
		for i := range p.Services {
			if err := checkChain(&p.Services[i]); err != nil {
				return fmt.Errorf("program %s: %w", p.Name, err)
			}
		}
	}
	return nil
}

func (l *linker) index(p *Program) error {
	names := make(map[string]*decl)
	add := func(name string, d *decl) error {
		if _, dup := names[name]; dup {
			return fmt.Errorf("program %s: %s declared twice", p.Name, name)
		}
		names[name] = d
		return nil
	}

	for i := range p.Typedefs {
		if err := add(p.Typedefs[i].Name, &decl{kind: declTypedef, program: p.Name, typedef: &p.Typedefs[i]}); err != nil {
			return err
		}
	}
	for i := range p.Enums {
		if err := add(p.Enums[i].Name, &decl{kind: declEnum, program: p.Name, enum: &p.Enums[i]}); err != nil {
			return err
		}
	}
	for i := range p.Structs {
		s := &p.Structs[i]
		if s.Kind == "" {
			s.Kind = StructKindStruct
		}
		if err := add(s.Name, &decl{kind: declStruct, program: p.Name, strukt: s}); err != nil {
			return err
		}
	}
	for i := range p.Services {
		s := &p.Services[i]
		if s.Program == "" {
			s.Program = p.Name
		}
		if err := add(s.Name, &decl{kind: declService, program: p.Name, service: s}); err != nil {
			return err
		}
	}
	l.decls[p.Name] = names
	return nil
}

func (l *linker) linkProgram(p *Program) error {
	for i := range p.Typedefs {
		if err := l.linkTypedef(p.Name, &p.Typedefs[i]); err != nil {
			return err
		}
	}
	for i := range p.Structs {
		s := &p.Structs[i]
		if err := l.linkFields(p.Name, s.Fields); err != nil {
			return fmt.Errorf("%s %s: %w", s.Kind, s.Name, err)
		}
	}
	for i := range p.Services {
		s := &p.Services[i]
		if err := l.linkService(p.Name, s); err != nil {
			return fmt.Errorf("service %s: %w", s.Name, err)
		}
	}
	for i := range p.Consts {
		c := &p.Consts[i]
		if err := l.linkType(p.Name, c.Type); err != nil {
			return fmt.Errorf("const %s: %w", c.Name, err)
		}
	}
	return nil
}

func (l *linker) linkTypedef(program string, td *Typedef) error {
	if l.resolved[td] {
		return nil
	}
	if l.visiting[td] {
		return fmt.Errorf("typedef %s aliases itself", td.Name)
	}
	l.visiting[td] = true
	defer delete(l.visiting, td)

	if err := l.linkType(program, td.Type); err != nil {
		return fmt.Errorf("typedef %s: %w", td.Name, err)
	}
	l.resolved[td] = true
	return nil
}

func (l *linker) linkFields(program string, fields []Field) error {
	for i := range fields {
		f := &fields[i]
		if f.Requiredness == "" {
			f.Requiredness = DefaultRequired
		}
		if err := l.linkType(program, f.Type); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

func (l *linker) linkService(program string, s *Service) error {
	if s.Extends != "" {
		d, err := l.lookup(program, s.Extends)
		if err != nil {
			return err
		}
		if d.kind != declService {
			return fmt.Errorf("extends %s, which is not a service", s.Extends)
		}
		s.Parent = d.service
	}

	for i := range s.Functions {
		f := &s.Functions[i]
		if f.Returns == nil {
			f.Returns = Base(KindVoid)
		}
		if err := l.linkType(program, f.Returns); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		if err := l.linkFields(program, f.Args); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		if err := l.linkFields(program, f.Throws); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	return nil
}

func (l *linker) linkType(program string, t *Type) error {
	if t == nil {
		return fmt.Errorf("missing type")
	}

	switch t.Kind {
	case KindMap:
		if err := l.linkType(program, t.Key); err != nil {
			return err
		}
		return l.linkType(program, t.Value)
	case KindSet, KindList:
		return l.linkType(program, t.Elem)
	case KindNamed, KindTypedef, KindEnum, KindStruct, KindException, KindUnion, KindService:
		return l.linkNamed(program, t)
	}
	return nil
}

func (l *linker) linkNamed(program string, t *Type) error {
	ref := t.Name
	if t.Program != "" {
		ref = t.Program + "." + t.Name
	}
	d, err := l.lookup(program, ref)
	if err != nil {
		return err
	}
	t.Program = d.program

	switch d.kind {
	case declTypedef:
		if err := l.linkTypedef(d.program, d.typedef); err != nil {
			return err
		}
		t.Kind = KindTypedef
		t.Target = d.typedef.Type
	case declEnum:
		t.Kind = KindEnum
		t.Enum = d.enum
	case declStruct:
		t.Kind = Kind(d.strukt.Kind)
	case declService:
		t.Kind = KindService
	}
	return nil
}

func (l *linker) lookup(program, ref string) (*decl, error) {
	scope, name := program, ref
	if i := strings.LastIndex(ref, "."); i > 0 {
		scope, name = ref[:i], ref[i+1:]
	}
	names, ok := l.decls[scope]
	if !ok {
		return nil, fmt.Errorf("unknown module %s in reference %s", scope, ref)
	}
	d, ok := names[name]
	if !ok {
		return nil, fmt.Errorf("unknown name %s", ref)
	}
	return d, nil
}

func checkChain(s *Service) error {
	seen := make(map[*Service]bool)
	for cur := s; cur != nil; cur = cur.Parent {
		if seen[cur] {
			return fmt.Errorf("service %s has a cyclic extends chain", s.Name)
		}
		seen[cur] = true
	}
	return nil
}
