// iobject - Internet Object command line tool
//
// Usage:
//
//	iobject tokens [--dump] [file]                       Print the tokens of a document
//	iobject tree [file]                                  Dump the parse tree
//	iobject schema [file]                                Compile a schema and print its members
//	iobject parse [--schema file] [--output fmt] [file]  Parse and validate, print data as JSON or YAML
//	iobject validate [--schema file] [--watch] [file]    Validate a document
//	iobject version                                      Print version info
//
// If no file (or "-") is given, reads from stdin.
package main

func main() {
	Execute()
}
