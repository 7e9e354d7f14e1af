package expr

// Kind identifies the variant of an expression node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindHex
	KindString
	KindName
	KindNot
	KindAnd
	KindOr
	KindAdd
	KindSub
	KindMul
	KindDiv
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindHex:    "hex",
	KindString: "string",
	KindName:   "name",
	KindNot:    "not",
	KindAnd:    "and",
	KindOr:     "or",
	KindAdd:    "add",
	KindSub:    "sub",
	KindMul:    "mul",
	KindDiv:    "div",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// UnaryOp identifies a unary operation.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

// BinaryOp identifies a binary operation.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAnd: "&",
	OpOr:  "|",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return "?"
}

// Kind returns the node kind produced by op.
func (op BinaryOp) Kind() Kind {
	switch op {
	case OpAnd:
		return KindAnd
	case OpOr:
		return KindOr
	case OpAdd:
		return KindAdd
	case OpSub:
		return KindSub
	case OpMul:
		return KindMul
	default:
		return KindDiv
	}
}

// IsLogic reports whether op is AND or OR.
func (op BinaryOp) IsLogic() bool {
	return op == OpAnd || op == OpOr
}

// dual swaps AND and OR.
func (op BinaryOp) dual() BinaryOp {
	if op == OpAnd {
		return OpOr
	}
	return OpAnd
}
