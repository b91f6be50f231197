package iobject

import (
	"github.com/rs/zerolog"
)

// Document is the result of parsing one Internet Object text.
type Document struct {
	Tree   *ParseTree
	Schema *Schema // nil when neither the text nor the options provide one
	Data   any
}

type options struct {
	schema     *Schema
	schemaText string
	registry   *Registry
	logger     zerolog.Logger
}

// Option configures Parse.
type Option func(*options)

// WithSchema validates the data against schema unless the text carries its
// own header.
func WithSchema(schema *Schema) Option {
	return func(o *options) { o.schema = schema }
}

// WithSchemaText compiles text as the schema. It is ignored when WithSchema
// is also given.
func WithSchemaText(text string) Option {
	return func(o *options) { o.schemaText = text }
}

// WithRegistry resolves type names against r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger logs pipeline stages at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Parse runs the full pipeline on text: tokenize, build the tree, compile
// the schema and validate the data. A header in text wins over a schema given
// through options. Without any schema the data is converted with DataValue.
func Parse(text string, opts ...Option) (*Document, error) {
	o := options{
		registry: DefaultRegistry,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With().Str("component", "iobject").Logger()

	tokens, err := Tokenize(text)
	if err != nil {
		log.Debug().Err(err).Msg("tokenize failed")
		return nil, err
	}
	log.Debug().Int("tokens", len(tokens)).Msg("tokenized")

	tree, err := BuildTree(tokens)
	if err != nil {
		log.Debug().Err(err).Msg("tree build failed")
		return nil, err
	}
	log.Debug().
		Bool("header", tree.Header != nil).
		Str("data", nodeKindName(tree.Data)).
		Msg("tree built")

	schema, err := resolveSchema(tree, &o)
	if err != nil {
		log.Debug().Err(err).Msg("schema compile failed")
		return nil, err
	}

	doc := &Document{Tree: tree, Schema: schema}
	if schema == nil {
		doc.Data = DataValue(tree.Data)
		log.Debug().Msg("converted without schema")
		return doc, nil
	}
	log.Debug().Int("members", schema.Len()).Msg("schema ready")

	data, err := schema.Apply(tree.Data)
	if err != nil {
		log.Debug().Err(err).Msg("validation failed")
		return nil, err
	}
	doc.Data = data
	log.Debug().Msg("validated")
	return doc, nil
}

// ParseWithSchema parses data text against a separate schema text.
func ParseWithSchema(schemaText, text string, opts ...Option) (*Document, error) {
	return Parse(text, append(opts, WithSchemaText(schemaText))...)
}

func resolveSchema(tree *ParseTree, o *options) (*Schema, error) {
	switch {
	case tree.Header != nil:
		return o.registry.CompileHeader(tree.Header)
	case o.schema != nil:
		return o.schema, nil
	case o.schemaText != "":
		return o.registry.CompileSchema(o.schemaText)
	}
	return nil, nil
}

func nodeKindName(n Node) string {
	if n == nil {
		return "empty"
	}
	return n.Kind().String()
}
