package heuristics

import "strings"

// The tables below are a fixed knowledge base. They never update from
// outcomes; this is a lookup, not a learning loop.

// remediations maps error-message keywords to canned remediation strings.
var remediations = map[string][]string{
	"null": {
		"Use the null-aware access operator: object?.property",
		"Provide a fallback with the null-coalescing operator: value ?? defaultValue",
		"Guard the access with an explicit null check before dereferencing",
	},
	"undefined": {
		"Check the identifier for typos; compare against declared names in the same library",
		"Add the missing import for the library that declares the identifier",
	},
	"import": {
		"Verify the package is declared under dependencies in pubspec.yaml",
		"Run 'dart pub get' to fetch declared dependencies",
	},
	"async": {
		"Mark the enclosing function 'async' and 'await' the Future before using its value",
	},
	"await": {
		"'await' is only valid inside an 'async' function body",
	},
	"type": {
		"Check the declared type against the assigned value; add an explicit cast only when the runtime type is guaranteed",
	},
	"override": {
		"Match the signature of the member being overridden, including parameter types and nullability",
	},
	"const": {
		"A const constructor requires all fields to be final and all arguments to be constants",
	},
	"abstract": {
		"Abstract classes cannot be instantiated; extend the class or use a concrete subclass",
	},
	"final": {
		"A final variable can only be assigned once; use 'var' if reassignment is intended",
	},
}

// importHints maps keywords to likely missing imports.
var importHints = map[string][]string{
	"future":    {"dart:async"},
	"stream":    {"dart:async"},
	"timer":     {"dart:async"},
	"file":      {"dart:io"},
	"directory": {"dart:io"},
	"socket":    {"dart:io"},
	"json":      {"dart:convert"},
	"utf8":      {"dart:convert"},
	"base64":    {"dart:convert"},
	"math":      {"dart:math"},
	"random":    {"dart:math"},
	"widget":    {"package:flutter/widgets.dart"},
	"material":  {"package:flutter/material.dart"},
	"cupertino": {"package:flutter/cupertino.dart"},
	"test":      {"package:test/test.dart"},
	"http":      {"package:http/http.dart"},
}

// apiHints maps keywords to APIs worth checking.
var apiHints = map[string][]string{
	"list":   {"List.generate", "List.filled", "Iterable.map", "Iterable.where"},
	"map":    {"Map.fromEntries", "Map.putIfAbsent", "Map.update"},
	"string": {"String.split", "String.replaceAll", "StringBuffer"},
	"future": {"Future.wait", "Future.delayed", "Completer"},
	"stream": {"Stream.listen", "StreamController", "Stream.transform"},
	"null":   {"??", "?.", "??=", "!"},
	"json":   {"jsonDecode", "jsonEncode"},
	"widget": {"StatelessWidget.build", "StatefulWidget.createState", "setState"},
}

// LookupRemediations returns canned remediation strings matching any of
// the keywords, in keyword order.
func LookupRemediations(keywords []string) []string {
	return lookup(remediations, keywords)
}

// LookupImports returns import suggestions matching any of the keywords.
func LookupImports(keywords []string) []string {
	return lookup(importHints, keywords)
}

// LookupAPIs returns candidate APIs matching any of the keywords.
func LookupAPIs(keywords []string) []string {
	return lookup(apiHints, keywords)
}

func lookup(table map[string][]string, keywords []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, kw := range keywords {
		for _, v := range table[strings.ToLower(kw)] {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
