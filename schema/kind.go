package schema

// Kind tags every schema variant.
type Kind int

const (
	KindGeneric Kind = iota
	KindObject
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindNull
	KindArray
	KindTuple
	KindAllOf
	KindAnyOf
	KindOneOf
	KindReference
	KindEnum
	KindConstant
	KindProperty
	KindDefinition
	KindTupleItem
	KindUnknown
)

var kindNames = map[Kind]string{
	KindGeneric:    "generic",
	KindObject:     "object",
	KindString:     "string",
	KindInteger:    "integer",
	KindNumber:     "number",
	KindBoolean:    "boolean",
	KindNull:       "null",
	KindArray:      "array",
	KindTuple:      "tuple",
	KindAllOf:      "allOf",
	KindAnyOf:      "anyOf",
	KindOneOf:      "oneOf",
	KindReference:  "reference",
	KindEnum:       "enum",
	KindConstant:   "constant",
	KindProperty:   "property",
	KindDefinition: "definition",
	KindTupleItem:  "tuple item",
	KindUnknown:    "unknown property",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// valueKinds maps the value types of the "type" keyword to their kind.
var valueKinds = map[string]Kind{
	"boolean": KindBoolean,
	"integer": KindInteger,
	"null":    KindNull,
	"number":  KindNumber,
	"string":  KindString,
}

// combinators lists the combinator keywords in classification order, each with its Swagger spelling.
var combinators = []struct {
	kind     Kind
	keywords []string
}{
	{kind: KindAllOf, keywords: []string{"allOf", "allof"}},
	{kind: KindAnyOf, keywords: []string{"anyOf", "anyof"}},
	{kind: KindOneOf, keywords: []string{"oneOf", "oneof"}},
}

// literalKeywords keep their raw values, they describe instances rather than schemas.
var literalKeywords = map[string]bool{
	"const":    true,
	"default":  true,
	"examples": true,
	"enum":     true,
	"required": true,
}
