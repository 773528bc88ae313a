package symexec

import (
	"fmt"

	"github.com/cee-lang/cee/ast"
	"github.com/cee-lang/cee/cfg"
)

// A PointKind classifies a program point in the exploded graph.
type PointKind uint8

const (
	BlockEntrance PointKind = iota
	BlockExit
	BlockEdge
	PostStmt
	PostLoad
	PostStore
	PostPurgeDeadSymbols
)

var pointKindNames = [...]string{
	BlockEntrance:        "BlockEntrance",
	BlockExit:            "BlockExit",
	BlockEdge:            "BlockEdge",
	PostStmt:             "PostStmt",
	PostLoad:             "PostLoad",
	PostStore:            "PostStore",
	PostPurgeDeadSymbols: "PostPurgeDeadSymbols",
}

func (k PointKind) String() string { return pointKindNames[k] }

// A Point is one program point. Block is always set; Dst is the
// destination of a BlockEdge; Stmt and Index locate the element of a
// PostStmt, PostLoad, or PostStore point within its block.
type Point struct {
	Kind  PointKind
	Block *cfg.Block
	Dst   *cfg.Block
	Stmt  ast.Stmt
	Index int
}

// IsPostStmt reports a point placed after one block element.
func (p Point) IsPostStmt() bool {
	return p.Kind == PostStmt || p.Kind == PostLoad || p.Kind == PostStore
}

func (p Point) profile() string {
	dst := -1
	if p.Dst != nil {
		dst = p.Dst.N
	}
	return fmt.Sprintf("%d:%d:%d:%d", p.Kind, p.Block.N, dst, p.Index)
}

func (p Point) String() string {
	switch p.Kind {
	case BlockEdge:
		return fmt.Sprintf("BlockEdge(B%d,B%d)", p.Block.N, p.Dst.N)
	case PostStmt, PostLoad, PostStore:
		return fmt.Sprintf("%s(B%d,%d)", p.Kind, p.Block.N, p.Index)
	}
	return fmt.Sprintf("%s(B%d)", p.Kind, p.Block.N)
}
