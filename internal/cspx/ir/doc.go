// Package ir defines the intermediate representation the engine consumes
// from the (out-of-scope) CSPM front-end: a module of channel declarations,
// process declarations over the supported algebra subset (prefix, external/
// internal choice, interleaving, interface-parallel synchronisation, hiding,
// and named process references), and an ordered list of property/refinement
// assertions.
//
// # Wire format
//
// Since this repository does not ship a CSPM parser, the CLI (cmd/cspx)
// loads a Module from a JSON document with the following shape:
//
//	{
//	  "channels": [{"name": "a", "payload_range": 2, "span": {...}}],
//	  "processes": [{"name": "P", "body": {"kind": "prefix", ...}, "span": {...}}],
//	  "assertions": [
//	    {"kind": "property", "target": "P", "property": "deadlock_free", "span": {...}},
//	    {"kind": "refinement", "spec": "P", "impl": "Q", "model": "T", "span": {...}}
//	  ],
//	  "entry": "P"
//	}
//
// A process body is a tagged node: "kind" is one of "stop", "prefix",
// "external_choice", "internal_choice", "interleave", "parallel", "hide",
// "ref", mirroring ProcKind. This follows the design preference to
// favour tagged-variant dispatch over open-ended polymorphism: ProcExpr is a
// single struct carrying only the fields relevant to its Kind, and callers
// switch on Kind rather than type-asserting an interface.
package ir
