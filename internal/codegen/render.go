// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package codegen

import (
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/fragment"
)

func render(set *fragment.Set) string {
	var sections []string

	for _, b := range []fragment.Bucket{fragment.Includes, fragment.Globals, fragment.Objects} {
		if items := set.Items(b); len(items) > 0 {
			sections = append(sections, strings.Join(items, "\n")+"\n")
		}
	}

	sections = append(sections,
		function("void setup()", set.Items(fragment.Setup)),
		function("void loop()", set.Items(fragment.Loop)))

	for _, fn := range set.Items(fragment.Functions) {
		sections = append(sections, fn+"\n")
	}

	return strings.Join(sections, "\n")
}

func function(signature string, body []string) string {
	var sb strings.Builder
	sb.WriteString(signature)
	sb.WriteString(" {\n")
	for _, item := range body {
		sb.WriteString(indentLines(item, indent))
		if !strings.HasSuffix(item, "\n") {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// indentLines prefixes every non-empty line of code.
func indentLines(code, prefix string) string {
	if code == "" {
		return ""
	}
	lines := strings.SplitAfter(code, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
