// Package ponyx is the parsing frontend of the PonyX templating language.
//
// A PonyX file starts with a module written in an embedded host language,
// followed by a "---" fence and markup:
//
//	import { Card } from "./card";
//	let items = [];
//	---
//	<Card title="Inbox">
//	  {#for item in items}
//	    <p>{item.title}</p>
//	  {:else}
//	    <p>Nothing here&hellip;</p>
//	  {/for}
//	</Card>
//
// # Basic Usage
//
// Create an engine and parse a source. Parsing never fails on malformed
// input; it returns a complete tree in which missing pieces are holes, plus
// the diagnostics describing what went wrong:
//
//	engine := ponyx.MustNew()
//	result, err := engine.Parse(ctx, "inbox.pony", text)
//	if err != nil {
//	    return err // cancelled context only
//	}
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d.Code(), result.Source.Position(d.Span().Start), d.Message())
//	}
//
// # Embeddings
//
// Host-language code in mustaches ({expr}), block headers, {@let} and
// {@const} statements and the module is parsed by an Ext. The default is
// PonyScript (ScriptExt), a small JavaScript-like language. NopExt accepts
// nothing and is useful in tests. Custom embeddings implement Ext and report
// how many bytes they consumed; the frontend resumes after them.
//
// # PonyX expressions
//
// Tag attribute values use PonyX's own expression grammar: literals, names,
// arrays, maps (.a=1, .b), tuples, unary and binary operators,
// juxtaposition application (f x) and accessor chains (a.b[c]). Only solo
// expressions are allowed as attribute values; wrap anything larger in
// parentheses.
//
// # Diagnostics
//
// Every diagnostic has a stable code (S000, X101...), a severity and a
// span. Engines can ignore codes or override severities with
// WithIgnoredCodes and WithSeverityOverrides, or through ponyx.yaml.
package ponyx
