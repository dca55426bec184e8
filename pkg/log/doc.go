// Package log provides structured logging built on zerolog: a package
// global Logger initialized once via Init(Config), and WithComponent /
// WithClusterID / WithSnapshot / WithNodeID helpers that return a child
// logger carrying that field on every subsequent entry. Nothing in this
// module writes operational output with fmt.Println; every package that
// logs pulls a component logger from here.
package log
