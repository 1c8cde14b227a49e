// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package decodeerr

import (
	"fmt"
	"strings"
)

type node struct {
	label    string
	children []node
}

func toNode(err Error) node {
	switch x := err.(type) {
	case Leaf:
		return node{label: fmt.Sprintf("cannot decode %q, %s", x.Key, x.Reason)}
	case Field:
		return node{
			label:    fmt.Sprintf("%s property %q", x.Context, x.Name),
			children: []node{toNode(x.Cause)},
		}
	case Many:
		if len(x.Errors) == 0 {
			return node{label: "no errors"}
		}
		children := make([]node, len(x.Errors))
		for i, e := range x.Errors {
			children[i] = toNode(e)
		}
		return node{label: "many errors", children: children}
	default:
		return node{label: err.Error()}
	}
}

// Draw renders err as an indented, multi-line tree.
//
//	many errors
//	└─ required property "port"
//	   └─ cannot decode "PORT", Missing environment variable
func Draw(err Error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	n := toNode(err)
	sb.WriteString(n.label)
	drawChildren(&sb, n.children, "")
	return sb.String()
}

func drawChildren(sb *strings.Builder, children []node, indent string) {
	for i, child := range children {
		last := i == len(children)-1

		sb.WriteString("\n")
		sb.WriteString(indent)
		if last {
			sb.WriteString("└─ ")
		} else {
			sb.WriteString("├─ ")
		}
		sb.WriteString(child.label)

		next := indent + "│  "
		if last {
			next = indent + "   "
		}
		drawChildren(sb, child.children, next)
	}
}
