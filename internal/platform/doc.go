// Package platform defines the capability tree a detected machine exposes and
// the provider contract that resolves a platform id to such a tree.
//
// A Command is either a Leaf, which delegates to an Invocable, or a Group,
// which holds an ordered list of child commands. Body is sealed so no other
// node kinds can be constructed outside this package.
package platform
