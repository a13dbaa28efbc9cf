// Package patch rewrites page source files in place with ordered,
// regex-driven text rules.
//
// A RuleSet carries the rules and the marker substring whose presence means
// a file has already been patched. The marker is checked against the file
// content on every run; nothing about patch state is stored elsewhere.
//
// Rules operate on raw text. They do not parse the page language, so a file
// whose layout drifts from the expected anchors is left unchanged by the
// rules that do not match.
package patch
