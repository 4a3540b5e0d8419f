package ast

// FromSpace is one comma-separated item of a from clause: a root and the
// joins that follow it.
type FromSpace struct {
	Kind  string    `json:"kind" unpack:""`
	Root  *RootDecl `json:"root"`
	Joins []Join    `json:"joins"`
	Loc   `json:"loc"`
}

type RootDecl struct {
	Kind   string `json:"kind" unpack:""`
	Entity *Name  `json:"entity"`
	Alias  *ID    `json:"alias"`
	Loc    `json:"loc"`
}

type Join interface {
	Node
	JoinAST()
}

type (
	CrossJoin struct {
		Kind   string `json:"kind" unpack:""`
		Entity *Name  `json:"entity"`
		Alias  *ID    `json:"alias"`
		Loc    `json:"loc"`
	}
	// QualifiedJoin is "[left|right|inner] join [fetch] target [alias] [on|with cond]".
	// Target is a *Path or a *Treat of a path.  A single-segment path that
	// names an entity is an entity join.
	QualifiedJoin struct {
		Kind     string `json:"kind" unpack:""`
		JoinKind string `json:"join_kind"`
		Fetch    bool   `json:"fetch"`
		Target   Expr   `json:"target"`
		Alias    *ID    `json:"alias"`
		On       Expr   `json:"on"`
		Loc      `json:"loc"`
	}
)

func (*CrossJoin) JoinAST()     {}
func (*QualifiedJoin) JoinAST() {}
