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

// Command gosch is the interactive REPL and script runner.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"schemecore/engine"
	"schemecore/scm"
)

const (
	newPrompt    = "\033[32m>\033[0m "
	contPrompt   = "\033[32m.\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

func main() {
	eng, err := engine.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gosch:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		runFiles(eng, os.Args[1:])
		return
	}
	repl(eng)
}

func runFiles(eng *engine.Engine, paths []string) {
	for _, path := range paths {
		if _, err := eng.EvalFile(path); err != nil {
			fmt.Fprintln(os.Stderr, "gosch:", err)
			os.Exit(1)
		}
	}
}

func repl(eng *engine.Engine) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       ".gosch-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	oldLine := ""
	for {
		line, err := l.Readline()
		line = oldLine + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		if line == "" {
			continue
		}

		result, evalErr := eng.Eval(line)
		if evalErr != nil {
			if incompleteInput(evalErr) {
				oldLine = line + "\n"
				l.SetPrompt(contPrompt)
				continue
			}
			fmt.Fprintln(os.Stderr, evalErr)
			oldLine = ""
			l.SetPrompt(newPrompt)
			continue
		}
		fmt.Print(resultPrompt)
		fmt.Println(scm.Write(result))
		oldLine = ""
		l.SetPrompt(newPrompt)
	}
}

// incompleteInput reports whether err is a parse failure caused by an
// unclosed form, in which case the REPL should keep reading lines
// instead of reporting a hard error.
func incompleteInput(err error) bool {
	ee, ok := scm.ErrorOf(err)
	if !ok {
		return false
	}
	return strings.Contains(ee.Message, "expecting matching )") ||
		strings.Contains(ee.Message, "unexpected end of input") ||
		strings.Contains(ee.Message, "unterminated string literal")
}
