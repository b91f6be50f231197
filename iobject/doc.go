// Package iobject implements Internet Object, a compact schema-aware text
// serialization format.
//
// An Internet Object document is a data section optionally preceded by a
// schema header. The two are separated by a line holding the data separator:
//
//	name, age: {number, min: 0}, tags?: [string]
//	---
//	Alice, 30, [admin, ops]
//
// Data records may supply values positionally (in schema declaration order)
// or by key:
//
//	age: 30, name: Alice
//
// # Pipeline
//
// Text goes through four stages, each of which aborts on its first error:
//
//   - Tokenizer: text to Tokens (strings, numbers, booleans, null, separators)
//   - Tree builder: Tokens to a ParseTree with Header and Data regions
//   - Schema compiler: Header to an ordered Schema of MemberDefs
//   - Type engine: Schema + Data to validated Go values
//
// # Syntax
//
//	Object:       {a, b, key: value}
//	Array:        [v1, v2, v3]
//	Collection:   ~ record ~ record
//	String:       bare words, "quoted\tstring" or @"raw ""string"""
//	Boolean:      true / T, false / F
//	Null:         null / N
//	Comment:      # until end of line
//
// # Schema Language
//
//	name                      any value
//	name?                     optional
//	age: number               typed
//	age: {number, true, 18}   type, nullable, default
//	age: {int, min: 0, max: 150, choices: [1, 2, 3]}
//	address: {street, city}   nested object
//	tags: [string]            array of strings
//
// Types are looked up in a Registry; Register adds user-defined types.
package iobject
