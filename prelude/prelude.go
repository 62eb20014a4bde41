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

// Package prelude bundles the Scheme-source standard library that rides
// on top of the native builtins: list utilities, derived special forms
// and the lazy stream primitives. The bundle is stored as a single
// txtar archive so the library stays organized into named sections
// without needing a directory of loose .scm files shipped alongside the
// compiled binary.
package prelude

import (
	_ "embed"
	"fmt"

	"golang.org/x/tools/txtar"

	"schemecore/scm"
)

//go:embed prelude.txtar
var bundle []byte

// Load parses the bundled archive and evaluates every section, in
// order, into env. A failure anywhere in the standard library is a
// packaging bug, not a user error, so Load wraps it with the section
// name that failed.
func Load(env *scm.Environment) error {
	archive := txtar.Parse(bundle)
	for _, f := range archive.Files {
		forms, err := scm.ReadAll(f.Name, string(f.Data))
		if err != nil {
			return fmt.Errorf("prelude %s: %w", f.Name, err)
		}
		for _, form := range forms {
			if _, err := scm.Eval(form, env); err != nil {
				return fmt.Errorf("prelude %s: %w", f.Name, err)
			}
		}
	}
	return nil
}
