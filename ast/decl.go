package ast

import (
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

// DeclKind tags every declaration class.
type DeclKind uint8

const (
	TranslationUnitDK DeclKind = iota
	TypedefDK
	VarDK
	FunctionDK
	FieldDK
	RecordDK
	EnumDK
	EnumConstantDK
	ObjCInterfaceDK
	ObjCMethodDK
	ObjCCategoryDK
	ObjCProtocolDK
	ObjCPropertyDK
	NamespaceDK
	UsingDK
	TemplateDK
)

var declKindNames = [...]string{
	TranslationUnitDK: "TranslationUnit",
	TypedefDK:         "Typedef",
	VarDK:             "Var",
	FunctionDK:        "Function",
	FieldDK:           "Field",
	RecordDK:          "Record",
	EnumDK:            "Enum",
	EnumConstantDK:    "EnumConstant",
	ObjCInterfaceDK:   "ObjCInterface",
	ObjCMethodDK:      "ObjCMethod",
	ObjCCategoryDK:    "ObjCCategory",
	ObjCProtocolDK:    "ObjCProtocol",
	ObjCPropertyDK:    "ObjCProperty",
	NamespaceDK:       "Namespace",
	UsingDK:           "Using",
	TemplateDK:        "Template",
}

func (k DeclKind) String() string { return declKindNames[k] }

// A Decl is any declaration. Every declaration has a location, an
// optional name, an owning context, and a next-in-declarator-chain
// pointer linking `int a, b;` siblings.
type Decl interface {
	DeclKind() DeclKind
	DeclName() string
	Loc() source.Loc
	Context() DeclContext

	// NextDeclarator returns the next declaration introduced by the
	// same declarator list, or nil. The chain is acyclic and
	// null-terminated.
	NextDeclarator() Decl
}

// A DeclContext owns the declarations directly inside one scope.
// Lookup that misses here continues in the parent.
type DeclContext interface {
	AddDecl(d Decl)
	Decls() []Decl
	LookupHere(name string) Decl
	Parent() DeclContext
}

// Lookup searches dc and its enclosing contexts for name.
func Lookup(dc DeclContext, name string) Decl {
	for ; dc != nil; dc = dc.Parent() {
		if d := dc.LookupHere(name); d != nil {
			return d
		}
	}
	return nil
}

// DeclBase is the state shared by all declarations.
type DeclBase struct {
	Pos  source.Loc
	Name string
	Ctx  DeclContext
	Next Decl
}

func (d *DeclBase) Loc() source.Loc      { return d.Pos }
func (d *DeclBase) DeclName() string     { return d.Name }
func (d *DeclBase) Context() DeclContext { return d.Ctx }
func (d *DeclBase) NextDeclarator() Decl { return d.Next }

// ContextBase implements DeclContext for the decl kinds that own
// members. The name index keeps the first declaration of each name.
type ContextBase struct {
	Up      DeclContext
	members []Decl
	byName  map[string]Decl
}

func (c *ContextBase) AddDecl(d Decl) {
	c.members = append(c.members, d)
	if n := d.DeclName(); n != "" {
		if c.byName == nil {
			c.byName = make(map[string]Decl)
		}
		if _, ok := c.byName[n]; !ok {
			c.byName[n] = d
		}
	}
}

func (c *ContextBase) Decls() []Decl { return c.members }

func (c *ContextBase) LookupHere(name string) Decl { return c.byName[name] }

func (c *ContextBase) Parent() DeclContext { return c.Up }

// A TranslationUnitDecl is the root context of one unit.
type TranslationUnitDecl struct {
	DeclBase
	ContextBase
}

func (*TranslationUnitDecl) DeclKind() DeclKind { return TranslationUnitDK }

func NewTranslationUnitDecl() *TranslationUnitDecl {
	return &TranslationUnitDecl{}
}

// StorageClass is the storage-class specifier of a declaration.
type StorageClass uint8

const (
	SCNone StorageClass = iota
	SCExtern
	SCStatic
	SCAuto
	SCRegister
)

var storageNames = [...]string{
	SCNone:     "",
	SCExtern:   "extern",
	SCStatic:   "static",
	SCAuto:     "auto",
	SCRegister: "register",
}

func (s StorageClass) String() string { return storageNames[s] }

type TypedefDecl struct {
	DeclBase
	Ty types.QualType
}

func (*TypedefDecl) DeclKind() DeclKind { return TypedefDK }

// Underlying makes TypedefDecl usable as a types.TypedefRef.
func (d *TypedefDecl) Underlying() types.QualType { return d.Ty }

// A VarDecl is a variable or parameter.
type VarDecl struct {
	DeclBase
	Ty      types.QualType
	Init    Expr
	Storage StorageClass
	Thread  bool

	// BlockLocal marks a variable declared inside a function body.
	// The local checkers only reason about these.
	BlockLocal bool
	IsParam    bool

	// LoopElement marks the element variable of a collection loop,
	// which the loop itself assigns on every iteration.
	LoopElement bool
}

func (*VarDecl) DeclKind() DeclKind { return VarDK }

// HasLocalStorage reports a block-local non-static, non-extern var.
func (d *VarDecl) HasLocalStorage() bool {
	return d.BlockLocal && d.Storage != SCStatic && d.Storage != SCExtern
}

type FunctionDecl struct {
	DeclBase
	ContextBase
	Ty      types.QualType // always a *types.FunctionType under sugar
	Params  []*VarDecl
	Body    *CompoundStmt // nil for a pure declaration
	Storage StorageClass
	Inline  bool
}

func (*FunctionDecl) DeclKind() DeclKind { return FunctionDK }

// Result returns the declared result type.
func (d *FunctionDecl) Result() types.QualType {
	if ft, ok := d.Ty.Canonical().Ty.(*types.FunctionType); ok {
		return ft.Result
	}
	return types.QualType{}
}

type FieldDecl struct {
	DeclBase
	Ty types.QualType
}

func (*FieldDecl) DeclKind() DeclKind { return FieldDK }

// A RecordDecl is a struct or union. It is complete once its body
// has been attached.
type RecordDecl struct {
	DeclBase
	ContextBase
	Union    bool
	Complete bool
}

func (*RecordDecl) DeclKind() DeclKind { return RecordDK }

// Fields returns the field members in declaration order.
func (d *RecordDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, m := range d.Decls() {
		if f, ok := m.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

type EnumDecl struct {
	DeclBase
	ContextBase
	Complete bool
}

func (*EnumDecl) DeclKind() DeclKind { return EnumDK }

type EnumConstantDecl struct {
	DeclBase
	Ty    types.QualType
	Value int64
}

func (*EnumConstantDecl) DeclKind() DeclKind { return EnumConstantDK }

type ObjCInterfaceDecl struct {
	DeclBase
	ContextBase
	Super *ObjCInterfaceDecl
}

func (*ObjCInterfaceDecl) DeclKind() DeclKind { return ObjCInterfaceDK }

type ObjCMethodDecl struct {
	DeclBase
	ContextBase
	Selector    *token.Selector
	Result      types.QualType
	Params      []*VarDecl
	ClassMethod bool
	Body        *CompoundStmt
}

func (*ObjCMethodDecl) DeclKind() DeclKind { return ObjCMethodDK }

type ObjCCategoryDecl struct {
	DeclBase
	ContextBase
	Interface *ObjCInterfaceDecl
}

func (*ObjCCategoryDecl) DeclKind() DeclKind { return ObjCCategoryDK }

type ObjCProtocolDecl struct {
	DeclBase
	ContextBase
}

func (*ObjCProtocolDecl) DeclKind() DeclKind { return ObjCProtocolDK }

type ObjCPropertyDecl struct {
	DeclBase
	Ty types.QualType
}

func (*ObjCPropertyDecl) DeclKind() DeclKind { return ObjCPropertyDK }

type NamespaceDecl struct {
	DeclBase
	ContextBase
}

func (*NamespaceDecl) DeclKind() DeclKind { return NamespaceDK }

type UsingDecl struct {
	DeclBase
	Target Decl
}

func (*UsingDecl) DeclKind() DeclKind { return UsingDK }

type TemplateDecl struct {
	DeclBase
	Templated Decl
}

func (*TemplateDecl) DeclKind() DeclKind { return TemplateDK }
