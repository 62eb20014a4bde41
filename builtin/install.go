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

package builtin

import (
	"io"

	"schemecore/scm"
)

// InstallAll registers every native procedure into env. out receives the
// output of display/write/newline; callers that only need evaluation
// (no I/O-visible output) may pass io.Discard.
func InstallAll(env *scm.Environment, out io.Writer) {
	installArith(env)
	installLists(env)
	installStrings(env)
	installEquality(env)
	installIO(env, out)
	installControl(env)
	installParser(env)
}
