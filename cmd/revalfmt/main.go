// revalfmt parses a rule source file (text or JSON) and prints its
// canonical, parenthesised Expr form (expr.Format), a quick parse/print
// round-trip check for rule authors.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mendelt/reval/expr"
	"github.com/mendelt/reval/jsonparser"
	"github.com/mendelt/reval/rule"
)

func main() {
	jsonMode := flag.Bool("json", false, "parse the JSON rule grammar instead of the text grammar")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: revalfmt [-json] <rule-file>")
		os.Exit(1)
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	name, e, meta, err := parseRule(path, src, *jsonMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("rule %s\n", name)
	for _, k := range meta {
		fmt.Printf("  %s\n", k)
	}
	fmt.Println(expr.Format(e))
}

func parseRule(path string, src []byte, jsonMode bool) (string, expr.Expr, []string, error) {
	if jsonMode || strings.EqualFold(filepath.Ext(path), ".json") {
		r, err := jsonparser.ParseRule(src)
		if err != nil {
			return "", expr.Expr{}, nil, err
		}
		return r.Name, r.Expr, describeMetadata(r), nil
	}
	r, err := rule.ParseText(string(src))
	if err != nil {
		return "", expr.Expr{}, nil, err
	}
	return r.Name, r.Expr, describeMetadata(r), nil
}

func describeMetadata(r rule.Rule) []string {
	out := make([]string, 0, r.Metadata.Len())
	for _, k := range r.Metadata.Keys() {
		v, _ := r.Metadata.Get(k)
		out = append(out, fmt.Sprintf("%s: %s", k, v.String()))
	}
	return out
}
