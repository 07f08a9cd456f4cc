package resolver

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// ResolveMembers registers each class/mixin/interface's own fields,
// properties, and methods into the registry, with parameter and return
// types resolved against namespace context. It must run after Resolve,
// since a method's default-argument and parameter types may themselves
// reference types declared later in the unit, and owner hashes must
// already exist on the stub entries built by Declare.
//
// This is still reference resolution, not completion: no inherited
// member is copied here, no vtable is touched. The Type Completion Pass
// (C3) reads what ResolveMembers wrote as each class's *own* member set.
func (r *Resolver) ResolveMembers(prog *ast.Program) *errors.List {
	list := &errors.List{}
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			r.resolveClassMembers(d, list)
		case *ast.MixinDecl:
			r.resolveMixinMembers(d, list)
		case *ast.InterfaceDecl:
			r.resolveInterfaceMembers(d, list)
		case *ast.FuncDecl:
			r.bind(d, r.registerFreeFunction(d, list))
		case *ast.GlobalVarDecl:
			r.registerGlobalVar(d, list)
		}
	}
	return list
}

// registerFreeFunction registers a top-level (non-member) function. It
// builds the signature the same way registerMethod does, but with
// HasOwner=false — RegisterFunction treats the zero TypeHash as the
// free-function owner.
func (r *Resolver) registerFreeFunction(d *ast.FuncDecl, list *errors.List) *registry.FunctionEntry {
	params := make([]registry.Parameter, len(d.Params))
	for i, p := range d.Params {
		params[i] = registry.Parameter{
			Name:      p.Name,
			Type:      r.ResolveDataType(p.Type, "", list),
			Direction: parseDirection(p.Direction),
			IsConst:   p.IsConst,
			Default:   p.Default,
		}
	}
	r.validateDefaults(d.Params, params, list)
	var ret types.DataType
	if d.ReturnType != nil {
		ret = r.ResolveDataType(d.ReturnType, "", list)
	}
	entry := &registry.FunctionEntry{
		Name:          d.Name,
		QualifiedName: d.Name,
		Params:        params,
		ReturnType:    ret,
		Visibility:    registry.Public,
		Traits:        registry.Traits{},
		Span:          d.Span,
	}
	if err := r.reg.RegisterFunction(entry, d.Span); err != nil {
		list.Add(err.(*errors.CompilerError))
		return nil
	}
	return entry
}

func (r *Resolver) registerGlobalVar(d *ast.GlobalVarDecl, list *errors.List) {
	entry := &registry.GlobalEntry{
		Name:    d.Name,
		Type:    r.ResolveDataType(d.Type, "", list),
		IsConst: d.IsConst,
	}
	if err := r.reg.RegisterGlobal(entry, d.Span); err != nil {
		list.Add(err.(*errors.CompilerError))
	}
}

func (r *Resolver) resolveClassMembers(d *ast.ClassDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	for _, f := range d.Fields {
		self.Properties = append(self.Properties, r.fieldProperty(f, d.Namespace, list))
	}
	methodsByName := make(map[string]ids.FunctionId)
	for _, m := range d.Methods {
		fn := r.registerMethod(self.Hash, self.QualifiedName, m, d.Namespace, list)
		if fn != nil {
			methodsByName[m.Name] = fn.Hash
			r.bind(m, fn)
		}
	}
	for _, p := range d.Properties {
		self.Properties = append(self.Properties, r.virtualProperty(p, methodsByName, d.Namespace, list))
	}
}

func (r *Resolver) resolveMixinMembers(d *ast.MixinDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	for _, f := range d.Fields {
		self.Properties = append(self.Properties, r.fieldProperty(f, d.Namespace, list))
	}
	methodsByName := make(map[string]ids.FunctionId)
	for _, m := range d.Methods {
		fn := r.registerMethod(self.Hash, self.QualifiedName, m, d.Namespace, list)
		if fn != nil {
			methodsByName[m.Name] = fn.Hash
			r.bind(m, fn)
		}
	}
	for _, p := range d.Properties {
		self.Properties = append(self.Properties, r.virtualProperty(p, methodsByName, d.Namespace, list))
	}
}

// resolveInterfaceMembers registers each interface method's signature.
// Interface methods have no body (d.Body is nil for every m here), so
// they are not added to the binding list a later compilation stage
// checks: there is nothing to emit bytecode for.
func (r *Resolver) resolveInterfaceMembers(d *ast.InterfaceDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	for _, m := range d.Methods {
		r.registerMethod(self.Hash, self.QualifiedName, m, d.Namespace, list)
	}
}

func (r *Resolver) fieldProperty(f *ast.FieldDecl, namespace string, list *errors.List) *registry.Property {
	return &registry.Property{
		Name:       f.Name,
		Type:       r.ResolveDataType(f.Type, namespace, list),
		Visibility: parseVisibility(f.Visibility),
	}
}

func (r *Resolver) virtualProperty(p *ast.PropertyDecl, methodsByName map[string]ids.FunctionId, namespace string, list *errors.List) *registry.Property {
	prop := &registry.Property{
		Name:       p.Name,
		Type:       r.ResolveDataType(p.Type, namespace, list),
		Visibility: parseVisibility(p.Visibility),
	}
	if p.Getter != "" {
		if id, ok := methodsByName[p.Getter]; ok {
			prop.Getter = &id
		} else {
			list.Addf(errors.UndefinedFunction, p.Span, "getter %q not found for property %q", p.Getter, p.Name)
		}
	}
	if p.Setter != "" {
		if id, ok := methodsByName[p.Setter]; ok {
			prop.Setter = &id
		} else {
			list.Addf(errors.UndefinedFunction, p.Span, "setter %q not found for property %q", p.Setter, p.Name)
		}
	}
	return prop
}

func (r *Resolver) registerMethod(owner ids.TypeHash, ownerQualifiedName string, m *ast.FuncDecl, namespace string, list *errors.List) *registry.FunctionEntry {
	params := make([]registry.Parameter, len(m.Params))
	for i, p := range m.Params {
		params[i] = registry.Parameter{
			Name:      p.Name,
			Type:      r.ResolveDataType(p.Type, namespace, list),
			Direction: parseDirection(p.Direction),
			IsConst:   p.IsConst,
			Default:   p.Default,
		}
	}
	r.validateDefaults(m.Params, params, list)
	var ret types.DataType
	if m.ReturnType != nil {
		ret = r.ResolveDataType(m.ReturnType, namespace, list)
	}
	entry := &registry.FunctionEntry{
		Name:          m.Name,
		Namespace:     namespace,
		QualifiedName: ownerQualifiedName + "." + m.Name,
		HasOwner:      true,
		Owner:         owner,
		Params:        params,
		ReturnType:    ret,
		Visibility:    parseVisibility(m.Visibility),
		Traits: registry.Traits{
			IsConst:  m.IsConst,
			Virtual:  m.IsVirtual,
			Override: m.IsOverride,
			Final:    m.IsFinal,
			Abstract: m.IsAbstract,
		},
		Span: m.Span,
	}
	if err := r.reg.RegisterFunction(entry, m.Span); err != nil {
		list.Add(err.(*errors.CompilerError))
		return nil
	}
	return entry
}

func parseVisibility(s string) registry.Visibility {
	switch s {
	case "protected":
		return registry.Protected
	case "private":
		return registry.Private
	default:
		return registry.Public
	}
}

func parseDirection(s string) types.Direction {
	switch s {
	case "out":
		return types.Out
	case "inout":
		return types.InOut
	default:
		return types.In
	}
}
