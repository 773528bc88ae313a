package parse

import (
	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/source"
	"github.com/cee-lang/cee/token"
	"github.com/cee-lang/cee/types"
)

func (p *Parser) parseExternalDecl() {
	switch {
	case p.tok.Is(token.Semi):
		p.next()
	case p.tok.Is(token.At) && p.opts.ObjC1:
		p.parseObjCContainer()
	default:
		p.parseDeclaration(true)
	}
}

// parseDeclaration parses one declaration line: specifiers plus a
// comma-separated declarator list, or a function definition at file
// scope. The declarations are returned in source order, chained
// through their next-declarator pointers.
func (p *Parser) parseDeclaration(fileScope bool) []ast.Decl {
	defer p.tr("declaration")()
	start := p.tok.Loc
	var ds DeclSpec
	if !p.parseDeclSpecs(&ds) && !fileScope {
		p.diags.Report(start, diag.ErrExpected, "declaration")
		p.skipPast(token.Semi)
		return nil
	}
	base := p.specType(&ds)

	// A bare `struct S { ... };` declares only the tag.
	if p.got(token.Semi) {
		return nil
	}

	var decls []ast.Decl
	var prev ast.Decl
	for {
		d := p.parseDeclarator(false)
		ty := d.apply(base, p.ctx)

		var decl ast.Decl
		switch {
		case ds.Storage == SCSTypedef:
			td := &ast.TypedefDecl{
				DeclBase: ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
				Ty:       ty,
			}
			p.declare(td)
			decl = td
		case d.isFunction():
			fn := p.functionDecl(&ds, d, ty)
			if fileScope && len(decls) == 0 && p.tok.Is(token.LBrace) {
				p.parseFunctionBody(fn, d)
				return []ast.Decl{fn}
			}
			decl = fn
		default:
			v := &ast.VarDecl{
				DeclBase:   ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
				Ty:         ty,
				Storage:    storageOf(&ds),
				Thread:     ds.Thread,
				BlockLocal: !fileScope,
			}
			p.declare(v)
			if p.got(token.Equal) {
				v.Init = p.parseInitializer(ty)
			}
			decl = v
		}

		decls = append(decls, decl)
		if prev != nil {
			setNextDeclarator(prev, decl)
		}
		prev = decl
		if !p.got(token.Comma) {
			break
		}
	}
	if !p.expect(token.Semi) {
		p.skipPast(token.Semi)
	}
	return decls
}

func setNextDeclarator(prev, next ast.Decl) {
	switch d := prev.(type) {
	case *ast.VarDecl:
		d.Next = next
	case *ast.TypedefDecl:
		d.Next = next
	case *ast.FunctionDecl:
		d.Next = next
	case *ast.FieldDecl:
		d.Next = next
	}
}

func storageOf(ds *DeclSpec) ast.StorageClass {
	switch ds.Storage {
	case SCSExtern:
		return ast.SCExtern
	case SCSStatic:
		return ast.SCStatic
	case SCSAuto:
		return ast.SCAuto
	case SCSRegister:
		return ast.SCRegister
	}
	return ast.SCNone
}

// parseDeclSpecs accumulates declaration specifiers until a token
// that cannot be one. It reports whether any specifier was seen.
func (p *Parser) parseDeclSpecs(ds *DeclSpec) bool {
	any := false
	for {
		loc := p.tok.Loc
		ok := true
		switch p.tok.Kind {
		case token.KwStruct, token.KwUnion:
			union := p.tok.Is(token.KwUnion)
			p.next()
			qt := p.parseRecordSpec(union, loc)
			tst := TSTStruct
			if union {
				tst = TSTUnion
			}
			if _, ok := ds.SetType(tst, qt, loc); !ok {
				p.diags.Report(loc, diag.ErrDuplicateDeclSpec, tst.String())
			}
			any = true
			continue
		case token.KwEnum:
			p.next()
			qt := p.parseEnumSpec(loc)
			if _, ok := ds.SetType(TSTEnum, qt, loc); !ok {
				p.diags.Report(loc, diag.ErrDuplicateDeclSpec, "enum")
			}
			any = true
			continue

		case token.KwTypedef:
			_, ok = ds.SetStorageClass(SCSTypedef, loc)
		case token.KwExtern:
			_, ok = ds.SetStorageClass(SCSExtern, loc)
		case token.KwStatic:
			_, ok = ds.SetStorageClass(SCSStatic, loc)
		case token.KwAuto:
			_, ok = ds.SetStorageClass(SCSAuto, loc)
		case token.KwRegister:
			_, ok = ds.SetStorageClass(SCSRegister, loc)
		case token.KwThread:
			_, ok = ds.SetThread(loc)

		case token.KwShort:
			_, ok = ds.SetWidth(TSWShort, loc)
		case token.KwLong:
			_, ok = ds.SetWidth(TSWLong, loc)
		case token.KwSigned:
			_, ok = ds.SetSign(TSSSigned, loc)
		case token.KwUnsigned:
			_, ok = ds.SetSign(TSSUnsigned, loc)
		case token.KwComplex:
			_, ok = ds.SetComplex(TSCComplex, loc)
		case token.KwImaginary:
			_, ok = ds.SetComplex(TSCImaginary, loc)

		case token.KwVoid:
			_, ok = ds.SetType(TSTVoid, types.QualType{}, loc)
		case token.KwChar:
			_, ok = ds.SetType(TSTChar, types.QualType{}, loc)
		case token.KwInt:
			_, ok = ds.SetType(TSTInt, types.QualType{}, loc)
		case token.KwFloat:
			_, ok = ds.SetType(TSTFloat, types.QualType{}, loc)
		case token.KwDouble:
			_, ok = ds.SetType(TSTDouble, types.QualType{}, loc)
		case token.KwBool, token.KwCxxBool:
			_, ok = ds.SetType(TSTBool, types.QualType{}, loc)
		case token.KwDecimal32:
			_, ok = ds.SetType(TSTDecimal32, types.QualType{}, loc)
		case token.KwDecimal64:
			_, ok = ds.SetType(TSTDecimal64, types.QualType{}, loc)
		case token.KwDecimal128:
			_, ok = ds.SetType(TSTDecimal128, types.QualType{}, loc)

		case token.KwConst:
			ds.AddQual(types.Const, loc, p.diags)
		case token.KwVolatile:
			ds.AddQual(types.Volatile, loc, p.diags)
		case token.KwRestrict:
			ds.AddQual(types.Restrict, loc, p.diags)
		case token.KwInline:
			ds.Inline = true

		case token.Identifier:
			if ds.Type != TSTUnspecified {
				return any
			}
			td, isTypedef := ast.Lookup(p.scope, p.tok.Name()).(*ast.TypedefDecl)
			if !isTypedef {
				return any
			}
			_, ok = ds.SetType(TSTTypedef, types.QualType{Ty: p.ctx.Typedef(td)}, loc)

		default:
			return any
		}
		if !ok {
			p.diags.Report(loc, diag.ErrDuplicateDeclSpec, p.tok.Name())
		}
		p.next()
		any = true
	}
}

// specType finishes the accumulator and produces the declared base
// type with its qualifiers.
func (p *Parser) specType(ds *DeclSpec) types.QualType {
	ds.Finish(p.diags)
	var qt types.QualType
	switch ds.Type {
	case TSTTypedef, TSTStruct, TSTUnion, TSTEnum:
		qt = ds.TypeRep
	default:
		qt = p.ctx.BuiltinQual(ds.BuiltinKind())
	}
	return qt.WithQuals(ds.Quals)
}

// isDeclSpecStart reports whether the current token can begin a
// declaration: a specifier keyword or a typedef name in scope.
func (p *Parser) isDeclSpecStart() bool {
	switch p.tok.Kind {
	case token.KwTypedef, token.KwExtern, token.KwStatic, token.KwAuto,
		token.KwRegister, token.KwThread, token.KwInline,
		token.KwShort, token.KwLong, token.KwSigned, token.KwUnsigned,
		token.KwComplex, token.KwImaginary,
		token.KwVoid, token.KwChar, token.KwInt, token.KwFloat,
		token.KwDouble, token.KwBool, token.KwCxxBool,
		token.KwDecimal32, token.KwDecimal64, token.KwDecimal128,
		token.KwConst, token.KwVolatile, token.KwRestrict,
		token.KwStruct, token.KwUnion, token.KwEnum:
		return true
	case token.Identifier:
		_, ok := ast.Lookup(p.scope, p.tok.Name()).(*ast.TypedefDecl)
		return ok
	}
	return false
}

// isTypeNameStart is isDeclSpecStart restricted to type-name
// position (no storage classes).
func (p *Parser) isTypeNameStart() bool {
	switch p.tok.Kind {
	case token.KwTypedef, token.KwExtern, token.KwStatic, token.KwAuto,
		token.KwRegister, token.KwThread, token.KwInline:
		return false
	}
	return p.isDeclSpecStart()
}

// parseTypeName parses an abstract type, as in casts and sizeof.
func (p *Parser) parseTypeName() types.QualType {
	var ds DeclSpec
	p.parseDeclSpecs(&ds)
	base := p.specType(&ds)
	d := p.parseDeclarator(true)
	return d.apply(base, p.ctx)
}

// Declarator chunks, ordered innermost first: the chunk closest to
// the declared name is the outermost type constructor.
type chunkKind uint8

const (
	ptrChunk chunkKind = iota
	refChunk
	arrChunk
	funcChunk
)

type chunk struct {
	kind     chunkKind
	quals    types.Quals
	size     int64
	hasSize  bool
	params   []*ast.VarDecl
	variadic bool
}

type declarator struct {
	name    string
	nameLoc source.Loc
	chunks  []chunk
}

// isFunction reports a declarator whose declared type is a function,
// i.e. one a definition body may follow.
func (d *declarator) isFunction() bool {
	return len(d.chunks) > 0 && d.chunks[0].kind == funcChunk
}

// apply wraps base in the declarator's type constructors, outermost
// last so the chunk nearest the name ends up on top.
func (d *declarator) apply(base types.QualType, ctx *types.Context) types.QualType {
	qt := base
	for i := len(d.chunks) - 1; i >= 0; i-- {
		c := d.chunks[i]
		switch c.kind {
		case ptrChunk:
			qt = types.QualType{Ty: ctx.Pointer(qt), Quals: c.quals}
		case refChunk:
			qt = types.QualType{Ty: ctx.Reference(qt)}
		case arrChunk:
			if c.hasSize {
				qt = types.QualType{Ty: ctx.Array(qt, c.size)}
			} else {
				qt = types.QualType{Ty: ctx.IncompleteArray(qt)}
			}
		case funcChunk:
			params := make([]types.QualType, len(c.params))
			for i, prm := range c.params {
				params[i] = prm.Ty
			}
			qt = types.QualType{Ty: ctx.Function(qt, params, c.variadic)}
		}
	}
	return qt
}

func (p *Parser) parseDeclarator(abstract bool) *declarator {
	d := &declarator{}
	p.parseDeclaratorInner(d, abstract)
	return d
}

func (p *Parser) parseDeclaratorInner(d *declarator, abstract bool) {
	var ptrs []chunk
	for {
		if p.tok.Is(token.Star) {
			p.next()
			c := chunk{kind: ptrChunk}
			for {
				switch p.tok.Kind {
				case token.KwConst:
					c.quals |= types.Const
				case token.KwVolatile:
					c.quals |= types.Volatile
				case token.KwRestrict:
					c.quals |= types.Restrict
				default:
					ptrs = append(ptrs, c)
					goto direct
				}
				p.next()
			}
		}
		if p.opts.CPlusPlus && p.tok.Is(token.Amp) {
			p.next()
			ptrs = append(ptrs, chunk{kind: refChunk})
			continue
		}
		break
	}
direct:
	if p.tok.Is(token.Star) || (p.opts.CPlusPlus && p.tok.Is(token.Amp)) {
		// More pointer declarators after qualifiers.
		p.parseDeclaratorInner(d, abstract)
		d.chunks = appendReversed(d.chunks, ptrs)
		return
	}

	switch {
	case p.tok.Is(token.Identifier):
		d.name, d.nameLoc = p.tok.Name(), p.tok.Loc
		p.next()
	case p.tok.Is(token.LParen):
		p.next()
		if p.isDeclSpecStart() || p.tok.Is(token.RParen) {
			// Parameter list of an unnamed (abstract) declarator.
			c := chunk{kind: funcChunk}
			c.params, c.variadic = p.parseParamList()
			p.expect(token.RParen)
			d.chunks = append(d.chunks, c)
		} else {
			p.parseDeclaratorInner(d, abstract)
			p.expect(token.RParen)
		}
	default:
		if !abstract {
			p.diags.Report(p.tok.Loc, diag.ErrExpected, "identifier")
		}
	}

	for {
		switch {
		case p.tok.Is(token.LBracket):
			p.next()
			c := chunk{kind: arrChunk}
			if p.tok.IsNot(token.RBracket) {
				e := p.parseConditional()
				if v, ok := p.foldConst(e); ok {
					c.size, c.hasSize = v, true
				}
			}
			p.expect(token.RBracket)
			d.chunks = append(d.chunks, c)
		case p.tok.Is(token.LParen):
			p.next()
			c := chunk{kind: funcChunk}
			c.params, c.variadic = p.parseParamList()
			p.expect(token.RParen)
			d.chunks = append(d.chunks, c)
		default:
			d.chunks = appendReversed(d.chunks, ptrs)
			return
		}
	}
}

// appendReversed appends ptrs back to front: the rightmost pointer
// in source order binds tightest.
func appendReversed(chunks, ptrs []chunk) []chunk {
	for i := len(ptrs) - 1; i >= 0; i-- {
		chunks = append(chunks, ptrs[i])
	}
	return chunks
}

// parseParamList parses the parameters of a function declarator,
// stopping before the closing paren. Empty parens and a lone void
// both produce a nil list.
func (p *Parser) parseParamList() (params []*ast.VarDecl, variadic bool) {
	if p.tok.Is(token.RParen) {
		return nil, false
	}
	for {
		if p.got(token.Ellipsis) {
			variadic = true
			break
		}
		var ds DeclSpec
		p.parseDeclSpecs(&ds)
		base := p.specType(&ds)
		d := p.parseDeclarator(true)
		ty := p.adjustParamType(d.apply(base, p.ctx))
		params = append(params, &ast.VarDecl{
			DeclBase:   ast.DeclBase{Pos: d.nameLoc, Name: d.name},
			Ty:         ty,
			BlockLocal: true,
			IsParam:    true,
		})
		if !p.got(token.Comma) {
			break
		}
	}
	if len(params) == 1 && params[0].Name == "" && params[0].Ty.IsVoidType() {
		return nil, false
	}
	return params, variadic
}

// adjustParamType applies the parameter decay rules: arrays become
// pointers to their element, functions become function pointers.
func (p *Parser) adjustParamType(ty types.QualType) types.QualType {
	switch t := ty.Canonical().Ty.(type) {
	case *types.ArrayType:
		return types.QualType{Ty: p.ctx.Pointer(t.Elem)}
	case *types.FunctionType:
		return types.QualType{Ty: p.ctx.Pointer(ty)}
	}
	return ty
}

// functionDecl builds the declaration for a function declarator,
// reusing a previous bodiless declaration of the same name so a
// prototype and its definition share one decl.
func (p *Parser) functionDecl(ds *DeclSpec, d *declarator, ty types.QualType) *ast.FunctionDecl {
	if prev, ok := p.scope.LookupHere(d.name).(*ast.FunctionDecl); ok && prev.Body == nil {
		prev.Ty = ty
		prev.Params = d.chunks[0].params
		return prev
	}
	fn := &ast.FunctionDecl{
		DeclBase: ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: p.scope},
		Ty:       ty,
		Params:   d.chunks[0].params,
		Storage:  storageOf(ds),
		Inline:   ds.Inline,
	}
	fn.Up = p.scope
	p.declare(fn)
	return fn
}

func (p *Parser) parseFunctionBody(fn *ast.FunctionDecl, d *declarator) {
	defer p.tr("function body %s", fn.Name)()
	if fn.Body != nil {
		p.diags.Report(d.nameLoc, diag.ErrRedefinition, fn.Name)
		p.diags.Report(fn.Pos, diag.NotePreviousDef)
	}
	for _, prm := range fn.Params {
		prm.Ctx = fn
		if prm.Name != "" {
			fn.AddDecl(prm)
		}
	}

	outerFn, outerLabels, outerGotos := p.fn, p.labels, p.gotos
	outerScope := p.scope
	p.fn, p.labels, p.gotos = fn, make(map[string]*ast.LabelStmt), nil
	p.scope = fn
	p.tags = &tagScope{up: p.tags}

	fn.Body = p.parseCompoundStmt()

	for _, g := range p.gotos {
		g.Target = p.labels[g.Label]
	}
	p.tags = p.tags.up
	p.scope = outerScope
	p.fn, p.labels, p.gotos = outerFn, outerLabels, outerGotos
}

// parseRecordSpec parses a struct or union specifier after its
// keyword: an optional tag, then an optional member body.
func (p *Parser) parseRecordSpec(union bool, kwLoc source.Loc) types.QualType {
	var name string
	nameLoc := kwLoc
	if p.tok.Is(token.Identifier) {
		name, nameLoc = p.tok.Name(), p.tok.Loc
		p.next()
	}

	var rd *ast.RecordDecl
	if name != "" {
		if prev, ok := p.tags.lookup(name).(*ast.RecordDecl); ok && prev.Union == union {
			rd = prev
		}
	}
	if rd == nil {
		rd = &ast.RecordDecl{
			DeclBase: ast.DeclBase{Pos: nameLoc, Name: name, Ctx: p.scope},
			Union:    union,
		}
		rd.Up = p.scope
		if name != "" {
			p.tags.declare(name, rd)
		}
		p.scope.AddDecl(rd)
	}
	qt := types.QualType{Ty: p.ctx.Record(rd, union)}

	if !p.tok.Is(token.LBrace) {
		return qt
	}
	if rd.Complete {
		p.diags.Report(p.tok.Loc, diag.ErrRedefinition, name)
		p.diags.Report(rd.Pos, diag.NotePreviousDef)
	}
	p.next()
	for p.tok.IsNot(token.RBrace) && p.tok.IsNot(token.EOF) {
		p.parseFieldLine(rd)
	}
	p.expect(token.RBrace)
	rd.Complete = true
	return qt
}

// parseFieldLine parses one member declaration of a record body.
func (p *Parser) parseFieldLine(rd *ast.RecordDecl) {
	var ds DeclSpec
	if !p.parseDeclSpecs(&ds) {
		p.diags.Report(p.tok.Loc, diag.ErrExpected, "member declaration")
		p.skipPast(token.Semi)
		return
	}
	base := p.specType(&ds)
	if p.got(token.Semi) {
		return
	}
	var prev ast.Decl
	for {
		var fd *ast.FieldDecl
		if p.tok.Is(token.Colon) {
			// Unnamed bit-field.
			fd = &ast.FieldDecl{DeclBase: ast.DeclBase{Pos: p.tok.Loc, Ctx: rd}, Ty: base}
		} else {
			d := p.parseDeclarator(false)
			fd = &ast.FieldDecl{
				DeclBase: ast.DeclBase{Pos: d.nameLoc, Name: d.name, Ctx: rd},
				Ty:       d.apply(base, p.ctx),
			}
		}
		if p.got(token.Colon) {
			// Bit-field width; the analyses do not model layout.
			p.parseConditional()
		}
		rd.AddDecl(fd)
		if prev != nil {
			setNextDeclarator(prev, fd)
		}
		prev = fd
		if !p.got(token.Comma) {
			break
		}
	}
	if !p.expect(token.Semi) {
		p.skipPast(token.Semi)
	}
}

// parseEnumSpec parses an enum specifier after its keyword.
// Enumerators are declared into the enclosing scope, C-style.
func (p *Parser) parseEnumSpec(kwLoc source.Loc) types.QualType {
	var name string
	nameLoc := kwLoc
	if p.tok.Is(token.Identifier) {
		name, nameLoc = p.tok.Name(), p.tok.Loc
		p.next()
	}

	var ed *ast.EnumDecl
	if name != "" {
		if prev, ok := p.tags.lookup(name).(*ast.EnumDecl); ok {
			ed = prev
		}
	}
	if ed == nil {
		ed = &ast.EnumDecl{DeclBase: ast.DeclBase{Pos: nameLoc, Name: name, Ctx: p.scope}}
		ed.Up = p.scope
		if name != "" {
			p.tags.declare(name, ed)
		}
		p.scope.AddDecl(ed)
	}
	qt := types.QualType{Ty: p.ctx.Enum(ed)}

	if !p.tok.Is(token.LBrace) {
		return qt
	}
	p.next()
	next := int64(0)
	for p.tok.Is(token.Identifier) {
		cname, cloc := p.tok.Name(), p.tok.Loc
		p.next()
		if p.got(token.Equal) {
			e := p.parseConditional()
			if v, ok := p.foldConst(e); ok {
				next = v
			}
		}
		ec := &ast.EnumConstantDecl{
			DeclBase: ast.DeclBase{Pos: cloc, Name: cname, Ctx: p.scope},
			Ty:       qt,
			Value:    next,
		}
		next++
		ed.AddDecl(ec)
		p.declare(ec)
		if !p.got(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	ed.Complete = true
	return qt
}

// parseInitializer parses a variable initializer. A braced list is
// flattened into a comma chain under a compound literal node, which
// keeps every element visible to tree walkers in evaluation order.
func (p *Parser) parseInitializer(ty types.QualType) ast.Expr {
	if p.tok.IsNot(token.LBrace) {
		return p.rvalue(p.parseAssign())
	}
	lo := p.tok.Loc
	p.next()
	var list ast.Expr
	for p.tok.IsNot(token.RBrace) && p.tok.IsNot(token.EOF) {
		e := p.parseInitializer(types.QualType{})
		if list == nil {
			list = e
		} else {
			list = &ast.BinaryOperator{
				ExprBase: ast.ExprBase{Span: span(list.Start(), e.End()), Ty: e.Type()},
				Op:       ast.BOComma, LHS: list, RHS: e,
			}
		}
		if !p.got(token.Comma) {
			break
		}
	}
	hi := p.tok.End()
	p.expect(token.RBrace)
	return &ast.CompoundLiteralExpr{
		ExprBase: ast.ExprBase{Span: span(lo, hi), Ty: ty},
		Init:     list,
	}
}

// parseObjCContainer parses an @interface, @implementation,
// @protocol, or @class line at file scope. Interface bodies are
// registered for the class namespace; members are skipped.
func (p *Parser) parseObjCContainer() {
	atLoc := p.tok.Loc
	p.next()
	switch p.tok.Name() {
	case "interface", "implementation":
		p.next()
		if p.tok.IsNot(token.Identifier) {
			p.diags.Report(p.tok.Loc, diag.ErrExpected, "class name")
			p.skipToObjCEnd()
			return
		}
		name, loc := p.tok.Name(), p.tok.Loc
		p.next()
		cd := p.classes[name]
		if cd == nil {
			cd = &ast.ObjCInterfaceDecl{DeclBase: ast.DeclBase{Pos: loc, Name: name, Ctx: p.tu}}
			cd.Up = p.tu
			p.classes[name] = cd
			p.tu.AddDecl(cd)
		}
		if p.got(token.Colon) {
			if p.tok.Is(token.Identifier) {
				cd.Super = p.classes[p.tok.Name()]
				p.next()
			}
		}
		p.skipToObjCEnd()
	case "protocol":
		p.next()
		if p.tok.Is(token.Identifier) {
			pd := &ast.ObjCProtocolDecl{DeclBase: ast.DeclBase{Pos: p.tok.Loc, Name: p.tok.Name(), Ctx: p.tu}}
			pd.Up = p.tu
			p.tu.AddDecl(pd)
			p.next()
		}
		if !p.got(token.Semi) {
			p.skipToObjCEnd()
		}
	case "class":
		p.next()
		for p.tok.Is(token.Identifier) {
			name := p.tok.Name()
			if p.classes[name] == nil {
				cd := &ast.ObjCInterfaceDecl{DeclBase: ast.DeclBase{Pos: p.tok.Loc, Name: name, Ctx: p.tu}}
				cd.Up = p.tu
				p.classes[name] = cd
				p.tu.AddDecl(cd)
			}
			p.next()
			if !p.got(token.Comma) {
				break
			}
		}
		p.expect(token.Semi)
	default:
		p.diags.Report(atLoc, diag.ErrExpected, "Objective-C directive")
		p.next()
	}
}

func (p *Parser) skipToObjCEnd() {
	for p.tok.IsNot(token.EOF) {
		if p.tok.Is(token.At) {
			p.next()
			if p.tok.Name() == "end" {
				p.next()
				return
			}
			continue
		}
		p.next()
	}
}
