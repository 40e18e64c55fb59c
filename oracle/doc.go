// Package oracle defines the external analysis contracts the core
// consumes but never computes itself (spec §6.2-§6.6): alias and
// mod/ref queries, dominator/post-dominator trees, the loop forest,
// scalar evolution, and the call graph. Each is a small interface a
// concrete IR adapter (see goir) implements; pdg, lcd, and pointsto
// depend only on these interfaces.
package oracle
