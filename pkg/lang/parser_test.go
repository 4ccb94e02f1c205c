package lang

import "testing"

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := LexAndParse(src)
	if err != nil {
		t.Fatalf("LexAndParse(%q) error: %v", src, err)
	}
	return prog
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	prog := mustParse(t, `
		add{int a int b} => int: return (a + b). !
		int result = Do add{1 2}.
	`)
	if len(prog.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("item 0 = %T; want *FunctionDecl", prog.Items[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 || fn.ReturnType != "int" {
		t.Errorf("unexpected FunctionDecl: %+v", fn)
	}
	if fn.Params[0].Type != "int" || fn.Params[0].Name != "a" {
		t.Errorf("unexpected param 0: %+v", fn.Params[0])
	}

	decl, ok := prog.Items[1].(*VarDecl)
	if !ok {
		t.Fatalf("item 1 = %T; want *VarDecl", prog.Items[1])
	}
	call, ok := decl.Initializer.(*CallExpr)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Errorf("unexpected initializer: %+v", decl.Initializer)
	}
}

func TestParseVarDeclWithoutInitializer(t *testing.T) {
	prog := mustParse(t, `int x.`)
	decl := prog.Items[0].(*VarDecl)
	if decl.Type != "int" || decl.Name != "x" || decl.Initializer != nil {
		t.Errorf("unexpected VarDecl: %+v", decl)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `(x < 5) ? int y = 1. !? int y = 2. !`)
	ifStmt, ok := prog.Items[0].(*IfStmt)
	if !ok {
		t.Fatalf("item 0 = %T; want *IfStmt", prog.Items[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("unexpected branch shapes: then=%d else=%d", len(ifStmt.Then), len(ifStmt.Else))
	}
	cond, ok := ifStmt.Cond.(*BinaryOp)
	if !ok || cond.Op != "<" {
		t.Errorf("unexpected condition: %+v", ifStmt.Cond)
	}
}

func TestParseIfWithoutKeyword(t *testing.T) {
	prog := mustParse(t, `(x == 1) ? int y = 1. !`)
	if _, ok := prog.Items[0].(*IfStmt); !ok {
		t.Fatalf("item 0 = %T; want *IfStmt", prog.Items[0])
	}
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, `While (x < 10) int x = x + 1. !`)
	ws, ok := prog.Items[0].(*WhileStmt)
	if !ok {
		t.Fatalf("item 0 = %T; want *WhileStmt", prog.Items[0])
	}
	if len(ws.Body) != 1 {
		t.Errorf("unexpected body length: %d", len(ws.Body))
	}
}

func TestParseForWithOptionalType(t *testing.T) {
	prog := mustParse(t, `For int item in [1 2 3]: int y = item. !`)
	fs, ok := prog.Items[0].(*ForStmt)
	if !ok {
		t.Fatalf("item 0 = %T; want *ForStmt", prog.Items[0])
	}
	if fs.OptionalType != "int" || fs.VarName != "item" {
		t.Errorf("unexpected ForStmt header: %+v", fs)
	}
	list, ok := fs.Iterable.(*ListLit)
	if !ok || len(list.Items) != 3 {
		t.Errorf("unexpected iterable: %+v", fs.Iterable)
	}
}

func TestParseForWithoutOptionalType(t *testing.T) {
	prog := mustParse(t, `For item in [1]: int y = item. !`)
	fs := prog.Items[0].(*ForStmt)
	if fs.OptionalType != "" {
		t.Errorf("OptionalType = %q; want empty", fs.OptionalType)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog := mustParse(t, `1 + 2 * 3.`)
	stmt := prog.Items[0].(*ExprStmt)
	add, ok := stmt.Expr.(*BinaryOp)
	if !ok || add.Op != "+" {
		t.Fatalf("top-level op = %+v; want +", stmt.Expr)
	}
	mul, ok := add.Right.(*BinaryOp)
	if !ok || mul.Op != "*" {
		t.Fatalf("rhs of + = %+v; want * node", add.Right)
	}
}

func TestParseUnaryAndBitwise(t *testing.T) {
	prog := mustParse(t, `(not x) & (~y).`)
	stmt := prog.Items[0].(*ExprStmt)
	and, ok := stmt.Expr.(*BinaryOp)
	if !ok || and.Op != "&" {
		t.Fatalf("top-level op = %+v; want &", stmt.Expr)
	}
	left := and.Left.(*ParenExpr).Expr.(*UnaryOp)
	if left.Op != "not" {
		t.Errorf("left unary op = %q; want not", left.Op)
	}
	right := and.Right.(*ParenExpr).Expr.(*UnaryOp)
	if right.Op != "~" {
		t.Errorf("right unary op = %q; want ~", right.Op)
	}
}

func TestParseWalrusDecl(t *testing.T) {
	prog := mustParse(t, `(int x = 5).`)
	stmt := prog.Items[0].(*ExprStmt)
	decl, ok := stmt.Expr.(*WalrusDecl)
	if !ok || decl.Type != "int" || decl.Name != "x" {
		t.Errorf("unexpected expr: %+v", stmt.Expr)
	}
}

func TestParseWalrusAssign(t *testing.T) {
	prog := mustParse(t, `(x = 5).`)
	stmt := prog.Items[0].(*ExprStmt)
	assign, ok := stmt.Expr.(*WalrusAssign)
	if !ok || assign.Name != "x" {
		t.Errorf("unexpected expr: %+v", stmt.Expr)
	}
}

func TestParseParenExprPixelColorDisambiguation(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`(1).`, &ParenExpr{}},
		{`(1 2).`, &PixelLit{}},
		{`(1 2 3).`, &ColorLit{}},
	}
	for _, tc := range tests {
		prog := mustParse(t, tc.src)
		stmt := prog.Items[0].(*ExprStmt)
		switch tc.want.(type) {
		case *ParenExpr:
			if _, ok := stmt.Expr.(*ParenExpr); !ok {
				t.Errorf("Parse(%q) = %T; want *ParenExpr", tc.src, stmt.Expr)
			}
		case *PixelLit:
			if _, ok := stmt.Expr.(*PixelLit); !ok {
				t.Errorf("Parse(%q) = %T; want *PixelLit", tc.src, stmt.Expr)
			}
		case *ColorLit:
			if _, ok := stmt.Expr.(*ColorLit); !ok {
				t.Errorf("Parse(%q) = %T; want *ColorLit", tc.src, stmt.Expr)
			}
		}
	}
}

func TestParseIndexExpr(t *testing.T) {
	prog := mustParse(t, `myList<0>.`)
	stmt := prog.Items[0].(*ExprStmt)
	idx, ok := stmt.Expr.(*IndexExpr)
	if !ok {
		t.Fatalf("got %T; want *IndexExpr", stmt.Expr)
	}
	if _, ok := idx.Base.(*Var); !ok {
		t.Errorf("index base = %T; want *Var", idx.Base)
	}
	lit, ok := idx.Index.(*Literal)
	if !ok || lit.Value != 0 {
		t.Errorf("index = %+v; want literal 0", idx.Index)
	}
}

func TestParseComparisonBacktracksFromFailedIndex(t *testing.T) {
	prog := mustParse(t, `a < b.`)
	stmt := prog.Items[0].(*ExprStmt)
	cmp, ok := stmt.Expr.(*BinaryOp)
	if !ok || cmp.Op != "<" {
		t.Fatalf("got %+v; want comparison BinaryOp(<)", stmt.Expr)
	}
	if _, ok := cmp.Left.(*Var); !ok {
		t.Errorf("left = %T; want *Var", cmp.Left)
	}
	if _, ok := cmp.Right.(*Var); !ok {
		t.Errorf("right = %T; want *Var", cmp.Right)
	}
}

func TestParsePixelAssignThroughArrow(t *testing.T) {
	prog := mustParse(t, `f -> (0 0) = (31 0 0).`)
	assign, ok := prog.Items[0].(*PixelAssign)
	if !ok {
		t.Fatalf("got %T; want *PixelAssign", prog.Items[0])
	}
	if _, ok := assign.Value.(*ColorLit); !ok {
		t.Errorf("value = %T; want *ColorLit", assign.Value)
	}
}

func TestParseZeroArgTypeConstructor(t *testing.T) {
	prog := mustParse(t, `Frame f = Frame().`)
	decl := prog.Items[0].(*VarDecl)
	call, ok := decl.Initializer.(*CallExpr)
	if !ok || call.Name != "Frame" || call.Args != nil {
		t.Errorf("unexpected initializer: %+v", decl.Initializer)
	}
}

func TestParsePublishAndSend(t *testing.T) {
	prog := mustParse(t, `
		Publish f.
		Send "out.qgc".
	`)
	if _, ok := prog.Items[0].(*PublishStmt); !ok {
		t.Errorf("item 0 = %T; want *PublishStmt", prog.Items[0])
	}
	if _, ok := prog.Items[1].(*SendStmt); !ok {
		t.Errorf("item 1 = %T; want *SendStmt", prog.Items[1])
	}
}

func TestParseMissingTerminatorIsError(t *testing.T) {
	if _, err := LexAndParse(`int x = 5`); err == nil {
		t.Errorf("expected parse error for missing '.', got nil")
	}
}
