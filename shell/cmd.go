// Copyright (c) WithSecure Corporation
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"text/tabwriter"
)

// CmdFn represents a command handler.
type CmdFn func(iface *Interface, arg []string) (res string, err error)

// Cmd represents a shell command.
type Cmd struct {
	// Name is the command name, or the comma separated list of its
	// aliases when Pattern is set.
	Name string
	// Args is the number of Pattern submatches passed to Fn.
	Args int
	// Pattern is the regular expression matching the command line, when
	// nil the line must equal Name.
	Pattern *regexp.Regexp
	// Syntax is the arguments help.
	Syntax string
	// Help is the command description.
	Help string
	// Fn is the command handler.
	Fn CmdFn
}

var cmds []*Cmd

// Add registers a command, replacing any existing one with the same name.
func Add(cmd Cmd) {
	for i, c := range cmds {
		if c.Name == cmd.Name {
			cmds[i] = &cmd
			return
		}
	}

	cmds = append(cmds, &cmd)

	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})
}

// Help returns the registered commands help.
func Help() string {
	var buf bytes.Buffer

	t := tabwriter.NewWriter(&buf, 16, 8, 0, '\t', tabwriter.TabIndent)

	for _, cmd := range cmds {
		fmt.Fprintf(t, "%s\t%s\t # %s\n", cmd.Name, cmd.Syntax, cmd.Help)
	}

	t.Flush()

	return buf.String()
}

func find(line string) (match *Cmd, arg []string) {
	for _, cmd := range cmds {
		if cmd.Pattern == nil {
			if cmd.Name == line {
				return cmd, nil
			}
		} else if m := cmd.Pattern.FindStringSubmatch(line); len(m) > 0 && (len(m)-1 == cmd.Args) {
			return cmd, m[1:]
		}
	}

	return
}
