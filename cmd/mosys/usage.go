package main

import (
	"fmt"
	"io"
)

const programName = "mosys"

var usageOptions = [][2]string{
	{"-k", "print data in key=value format"},
	{"-l", "print data in long format"},
	{"-s [key]", "print data for specified key only"},
	{"-v", "verbose (can be used multiple times)"},
	{"-f", "ignore mosys lock"},
	{"-t", "display command tree for detected platform"},
	{"-S", "print supported platform IDs"},
	{"-p [id]", "specify platform id (bypass auto-detection)"},
	{"-c [path]", "configuration file"},
	{"-h", "print this help"},
	{"--version", "print version"},
	{"--history[=n]", "print the most recent journal entries"},
	{"--init-config[=path]", "write a sample configuration file"},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [options] [commands]\n\n", programName)
	fmt.Fprintln(w, "  Options:")
	for _, opt := range usageOptions {
		fmt.Fprintf(w, "    %-22s%s\n", opt[0], opt[1])
	}
	fmt.Fprintln(w)
}
