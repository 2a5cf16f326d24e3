// Package sysinfo reads machine identity and firmware details from sysfs,
// procfs and the kernel. Every path is resolved under Reader.Root so tests
// can point the reader at a fake tree.
package sysinfo
