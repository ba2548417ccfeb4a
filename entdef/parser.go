package entdef

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- Participle grammar structs ---
// These define the entity definition grammar using struct tags.

// schemaFileP is the top-level grammar: a sequence of entity definitions.
type schemaFileP struct {
	Entities []*entityDefP `parser:"@@*"`
}

// entityDefP parses: [modifier...] entity name [: parent [, parent]*] { field* }
type entityDefP struct {
	Modifiers []string     `parser:"@('open' | 'abstract' | 'sealed' | 'internal' | 'private')*"`
	Name      string       `parser:"'entity' @Ident"`
	Parents   []string     `parser:"( ':' @Ident ( ',' @Ident )* )?"`
	Fields    []*fieldDefP `parser:"'{' @@* '}'"`
}

// fieldDefP parses: [modifier...] name : type[?]
type fieldDefP struct {
	Modifiers []string `parser:"@('open' | 'abstract' | 'lateinit' | 'internal' | 'private')*"`
	Name      string   `parser:"@Ident ':'"`
	Type      string   `parser:"@Ident"`
	Nullable  bool     `parser:"@'?'?"`
}

var defLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},
	{Name: "Punct", Pattern: `[{}:,?]`},
})

// ParseSchema parses an entity definition string into a Schema.
func ParseSchema(input string) (*Schema, error) {
	parser, err := participle.Build[schemaFileP](
		participle.Lexer(defLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	ast, err := parser.ParseString("schema.entdef", input)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	return convertAST(ast), nil
}

// ParseSchemaFile reads an entity definition file from the given path and
// parses it.
func ParseSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(string(data))
}

func convertAST(ast *schemaFileP) *Schema {
	schema := &Schema{}
	for _, e := range ast.Entities {
		spec := EntitySpec{
			Name:      e.Name,
			Modifiers: e.Modifiers,
			Parents:   e.Parents,
		}
		for _, f := range e.Fields {
			spec.Fields = append(spec.Fields, FieldSpec{
				Name:      f.Name,
				Type:      f.Type,
				Nullable:  f.Nullable,
				Modifiers: f.Modifiers,
			})
		}
		schema.Entities = append(schema.Entities, spec)
	}
	return schema
}
