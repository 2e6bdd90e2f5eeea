// SPDX-License-Identifier: MPL-2.0

// envireament runs EnviREAment Lua tests and demos from the command line.
package main

import cmd "github.com/songbase/envireament/cmd/envireament"

func main() {
	cmd.Execute()
}
