package ast

// App is a fully parsed document. The parser never hands out a partial App.
type App struct {
	Name       string
	Version    int64
	State      map[string]Expr
	StateOrder []string
	Computed   map[string]Expr
	Components map[string]*ViewNode
	View       *ViewNode
	Actions    map[string]*ActionBlock
	Routes     map[string]string
}

type ActionBlock struct {
	Name   string
	Params []string
	Body   []Statement
}

type Expr interface {
	isExpr()
}

type NullLit struct{}

func (NullLit) isExpr() {}

type BoolLit struct {
	Value bool
}

func (BoolLit) isExpr() {}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

type FloatLit struct {
	Value float64
}

func (FloatLit) isExpr() {}

type StringLit struct {
	Value string
}

func (StringLit) isExpr() {}

type VarRef struct {
	Name string
}

func (VarRef) isExpr() {}

type PropertyExpr struct {
	Object Expr
	Name   string
}

func (PropertyExpr) isExpr() {}

type IndexExpr struct {
	Object Expr
	Index  Expr
}

func (IndexExpr) isExpr() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (UnaryExpr) isExpr() {}

type TernaryExpr struct {
	Cond  Expr
	True  Expr
	False Expr
}

func (TernaryExpr) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

type MethodCallExpr struct {
	Object Expr
	Method string
	Args   []Expr
}

func (MethodCallExpr) isExpr() {}

type ListLit struct {
	Items []Expr
}

func (ListLit) isExpr() {}

type ObjectField struct {
	Key   string
	Value Expr
}

type ObjectLit struct {
	Fields []ObjectField
}

func (ObjectLit) isExpr() {}

// InterpPart is either literal text or an embedded expression.
type InterpPart struct {
	Text string
	Expr Expr
}

type InterpExpr struct {
	Parts []InterpPart
}

func (InterpExpr) isExpr() {}

type LambdaExpr struct {
	Params []string
	Body   Expr
}

func (LambdaExpr) isExpr() {}

type RangeExpr struct {
	Start     Expr
	End       Expr
	Inclusive bool
}

func (RangeExpr) isExpr() {}

type SpreadExpr struct {
	Expr Expr
}

func (SpreadExpr) isExpr() {}

type PipeExpr struct {
	Value     Expr
	Transform Expr
}

func (PipeExpr) isExpr() {}

type CoalesceExpr struct {
	Value   Expr
	Default Expr
}

func (CoalesceExpr) isExpr() {}

type Statement interface {
	isStatement()
}

// AssignStmt targets a variable, an indexed element (Index != nil) or an
// object property (Property != "").
type AssignStmt struct {
	Name     string
	Index    Expr
	Property string
	Expr     Expr
}

func (AssignStmt) isStatement() {}

type IfStmt struct {
	Cond Expr
	Then []Statement
	Else []Statement
}

func (IfStmt) isStatement() {}

type ForEachStmt struct {
	Item       string
	Index      string
	Collection Expr
	Body       []Statement
}

func (ForEachStmt) isStatement() {}

type WhileStmt struct {
	Cond Expr
	Body []Statement
}

func (WhileStmt) isStatement() {}

type ReturnStmt struct {
	Value Expr
}

func (ReturnStmt) isStatement() {}

type BreakStmt struct{}

func (BreakStmt) isStatement() {}

type ContinueStmt struct{}

func (ContinueStmt) isStatement() {}

type CallStmt struct {
	Name string
	Args []Expr
}

func (CallStmt) isStatement() {}

type LogStmt struct {
	Expr Expr
}

func (LogStmt) isStatement() {}

type EmitStmt struct {
	Event string
	Data  Expr
}

func (EmitStmt) isStatement() {}

type NavigateStmt struct {
	Target Expr
}

func (NavigateStmt) isStatement() {}

type FetchStmt struct {
	Method    string
	URL       Expr
	Body      Expr
	Headers   []ObjectField
	OnSuccess string
	OnError   string
}

func (FetchStmt) isStatement() {}

type DelayStmt struct {
	Ms   Expr
	Body []Statement
}

func (DelayStmt) isStatement() {}

type ListPushStmt struct {
	Target string
	Value  Expr
}

func (ListPushStmt) isStatement() {}

type ListPopStmt struct {
	Target string
}

func (ListPopStmt) isStatement() {}

type ListInsertStmt struct {
	Target string
	Index  Expr
	Value  Expr
}

func (ListInsertStmt) isStatement() {}

type ListRemoveStmt struct {
	Target string
	Index  Expr
}

func (ListRemoveStmt) isStatement() {}

type ListClearStmt struct {
	Target string
}

func (ListClearStmt) isStatement() {}
