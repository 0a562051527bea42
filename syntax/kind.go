package syntax

// NodeKind discriminates the nodes of a Tree. The quoting engine switches
// exhaustively over these, so adding a kind means teaching the quoter about
// it too.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// Leaves. Text carries the raw source slice.
	KindIdentifier
	KindRelativeIdentifier
	KindAlias
	KindAtom
	KindInteger
	KindFloat
	KindChar
	KindOperator
	KindFragment
	KindEscapeSequence
	KindSigilName
	KindSigilModifiers
	KindHeredocPrefix
	KindKeywordKey

	// Operations. Children are [operator, operands...]; the same textual
	// operator lowers to the Matched kind in pattern position and the
	// Unmatched kind everywhere else.
	KindMatchedOperation
	KindUnmatchedOperation
	KindUnaryOperation
	KindAtOperation

	// String-family literals with interior structure.
	KindStringLine
	KindStringHeredoc
	KindCharListLine
	KindCharListHeredoc
	KindHeredocLine
	KindSigil
	KindInterpolation

	// Collections.
	KindList
	KindTuple
	KindBitString
	KindMapOperation
	KindMapArguments
	KindStructOperation
	KindAssociation
	KindKeywordPair
	KindKeywordList

	// Calls.
	KindCallNoParentheses
	KindCallParenthesized
	KindQualifiedCall
	KindQualifiedNoArgumentsCall
	KindDotCall
	KindAccessCall
	KindArguments

	// Blocks and clauses.
	KindDoBlock
	KindBlockEntry
	KindBlock
	KindStabClause
	KindStabHead
	KindAnonymousFunction

	KindSource

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:                  "Invalid",
	KindIdentifier:               "Identifier",
	KindRelativeIdentifier:       "RelativeIdentifier",
	KindAlias:                    "Alias",
	KindAtom:                     "Atom",
	KindInteger:                  "Integer",
	KindFloat:                    "Float",
	KindChar:                     "Char",
	KindOperator:                 "Operator",
	KindFragment:                 "Fragment",
	KindEscapeSequence:           "EscapeSequence",
	KindSigilName:                "SigilName",
	KindSigilModifiers:           "SigilModifiers",
	KindHeredocPrefix:            "HeredocPrefix",
	KindKeywordKey:               "KeywordKey",
	KindMatchedOperation:         "MatchedOperation",
	KindUnmatchedOperation:       "UnmatchedOperation",
	KindUnaryOperation:           "UnaryOperation",
	KindAtOperation:              "AtOperation",
	KindStringLine:               "StringLine",
	KindStringHeredoc:            "StringHeredoc",
	KindCharListLine:             "CharListLine",
	KindCharListHeredoc:          "CharListHeredoc",
	KindHeredocLine:              "HeredocLine",
	KindSigil:                    "Sigil",
	KindInterpolation:            "Interpolation",
	KindList:                     "List",
	KindTuple:                    "Tuple",
	KindBitString:                "BitString",
	KindMapOperation:             "MapOperation",
	KindMapArguments:             "MapArguments",
	KindStructOperation:          "StructOperation",
	KindAssociation:              "Association",
	KindKeywordPair:              "KeywordPair",
	KindKeywordList:              "KeywordList",
	KindCallNoParentheses:        "CallNoParentheses",
	KindCallParenthesized:        "CallParenthesized",
	KindQualifiedCall:            "QualifiedCall",
	KindQualifiedNoArgumentsCall: "QualifiedNoArgumentsCall",
	KindDotCall:                  "DotCall",
	KindAccessCall:               "AccessCall",
	KindArguments:                "Arguments",
	KindDoBlock:                  "DoBlock",
	KindBlockEntry:               "BlockEntry",
	KindBlock:                    "Block",
	KindStabClause:               "StabClause",
	KindStabHead:                 "StabHead",
	KindAnonymousFunction:        "AnonymousFunction",
	KindSource:                   "Source",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsOperation reports whether nodes of this kind carry an operator leaf as
// their first child.
func (k NodeKind) IsOperation() bool {
	switch k {
	case KindMatchedOperation, KindUnmatchedOperation, KindUnaryOperation, KindAtOperation:
		return true
	}
	return false
}

// IsCall reports whether nodes of this kind denote a call site.
func (k NodeKind) IsCall() bool {
	switch k {
	case KindCallNoParentheses, KindCallParenthesized, KindQualifiedCall,
		KindQualifiedNoArgumentsCall, KindDotCall, KindAccessCall:
		return true
	}
	return false
}

// IsStringLike reports whether nodes of this kind hold fragment, escape and
// interpolation children.
func (k NodeKind) IsStringLike() bool {
	switch k {
	case KindStringLine, KindStringHeredoc, KindCharListLine, KindCharListHeredoc, KindSigil:
		return true
	}
	return false
}
