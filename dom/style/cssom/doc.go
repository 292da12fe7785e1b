/*
Package cssom connects CSS style sheets to selector automata.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. This package
only cares about the selector side of it: the selectors of all rules of a
style sheet are parsed, interned in a selector catalog and compiled into one
automaton, whose accept states then tell for every node of a document which
rules apply.

CSS handling is de-coupled by introducing interfaces StyleSheet and Rule.
Concrete implementations may be found in sub-packages, e.g. douceuradapter.

Selectors the automaton cannot express (child and sibling combinators,
functional pseudo-classes, pseudo-elements) are skipped with a trace
message; Compiled.Skipped lists them.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'restyle.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.cssom")
}
