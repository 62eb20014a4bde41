/*
Copyright (C) 2024  The schemecore Authors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package scm

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Display renders v the human-friendly way: strings unquoted, chars
// unescaped. Used by the `display` builtin and the REPL.
func Display(v Expr) string {
	var b bytes.Buffer
	writeExpr(&b, v, false)
	return b.String()
}

// Write renders v the readable way: strings quoted and escaped, chars
// in #\ form, such that (eval (read (write v))) reproduces v for
// acyclic, finite structures.
func Write(v Expr) string {
	var b bytes.Buffer
	writeExpr(&b, v, true)
	return b.String()
}

func writeExpr(b *bytes.Buffer, v Expr, readable bool) {
	switch v.tag {
	case TagVoid:
		// the unspecified value prints as nothing in most Schemes' REPLs;
		// we render it explicitly so embedders can see it was produced.
		b.WriteString("#<void>")
	case TagBool:
		if v.b {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case TagInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case TagFloat:
		b.WriteString(formatFloat(v.f))
	case TagChar:
		if readable {
			b.WriteString("#\\")
			b.WriteString(charName(v.c))
		} else {
			b.WriteRune(v.c)
		}
	case TagString:
		if readable {
			b.WriteByte('"')
			b.WriteString(escapeString(string(v.str.runes)))
			b.WriteByte('"')
		} else {
			b.WriteString(string(v.str.runes))
		}
	case TagSymbol:
		b.WriteString(string(v.sym))
	case TagList:
		writeList(b, v, readable)
	case TagProc:
		writeProc(b, v.proc)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}

func charName(c rune) string {
	switch c {
	case ' ':
		return "space"
	case '\n':
		return "newline"
	case '\t':
		return "tab"
	case '\r':
		return "return"
	case 0:
		return "null"
	}
	return string(c)
}

var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\t", "\\t",
	"\r", "\\r",
)

func escapeString(s string) string {
	return stringEscaper.Replace(s)
}

func writeList(b *bytes.Buffer, v Expr, readable bool) {
	items := v.list.items
	b.WriteByte('(')
	for i, x := range items {
		if i != 0 {
			b.WriteByte(' ')
		}
		writeExpr(b, x, readable)
	}
	if v.list.dotted {
		b.WriteString(" . ")
		writeExpr(b, v.list.tail, readable)
	}
	b.WriteByte(')')
}

func writeProc(b *bytes.Buffer, p *Procedure) {
	if p.Kind == ProcNative {
		kind := "procedure"
		if p.NativeKind == NativeSpecialForm {
			kind = "special form"
		}
		fmt.Fprintf(b, "#<native %s %s>", kind, p.Name)
		return
	}
	name := p.Name
	if name == "" {
		name = "lambda"
	}
	fmt.Fprintf(b, "#<procedure %s>", name)
}
