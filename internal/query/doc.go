// Package query evaluates boolean keyword expressions against log messages.
//
// Terms are case-insensitive substrings combined with "&&", "||", "!" and
// parentheses. Adjacent terms without an operator are joined with an
// implicit "&&", so "disk full" means "disk && full". "!" binds tightest,
// then "&&", then "||".
//
// Evaluation is a three-stage pipeline: Tokenize, ToPostfix (shunting-yard)
// and EvalPostfix. Compile runs the first two stages once so a filter can
// match one query against many records.
//
// Malformed expressions such as "a &&" never match. Blank queries and
// queries made only of operators match everything.
package query
