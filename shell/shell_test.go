// Copyright (c) The go-boot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func echoCmd(_ *Interface, arg []string) (string, error) {
	return strings.Join(arg, ","), nil
}

func init() {
	Add(Cmd{
		Name: "version",
		Help: "show version",
		Fn: func(_ *Interface, _ []string) (string, error) {
			return "seven", nil
		},
	})

	Add(Cmd{
		Name:    "mode",
		Args:    2,
		Pattern: regexp.MustCompile(`^mode (\d+)x(\d+)$`),
		Syntax:  "<width>x<height>",
		Help:    "set mode",
		Fn:      echoCmd,
	})

	Add(Cmd{
		Name:    "exit, quit",
		Args:    1,
		Pattern: regexp.MustCompile(`^(exit|quit)$`),
		Help:    "close session",
		Fn: func(_ *Interface, _ []string) (string, error) {
			return "", io.EOF
		},
	})
}

func TestExec(t *testing.T) {
	iface := &Interface{}

	for _, tt := range []struct {
		line string
		want string
		err  error
	}{
		{"version", "seven\n", nil},
		{"mode 800x600", "800,600\n", nil},
		{"mode 800x", "", ErrUnknownCommand},
		{"version 2", "", ErrUnknownCommand},
		{"quit", "", io.EOF},
	} {
		buf := new(bytes.Buffer)

		if err := iface.Exec(tt.line, buf); !errors.Is(err, tt.err) {
			t.Errorf("%q: unexpected error %v", tt.line, err)
		}

		if got := buf.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestAdd(t *testing.T) {
	n := len(cmds)

	Add(Cmd{
		Name: "version",
		Help: "show build version",
		Fn:   echoCmd,
	})

	if len(cmds) != n {
		t.Fatal("command not replaced")
	}

	var names []string

	for _, cmd := range cmds {
		names = append(names, cmd.Name)
	}

	want := []string{"exit, quit", "mode", "version"}

	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	help := Help()

	for _, s := range []string{"show build version", "<width>x<height>", "close session"} {
		if !strings.Contains(help, s) {
			t.Errorf("help is missing %q", s)
		}
	}

	// restore the original handler for other tests
	Add(Cmd{
		Name: "version",
		Help: "show version",
		Fn: func(_ *Interface, _ []string) (string, error) {
			return "seven", nil
		},
	})
}
