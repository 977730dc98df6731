// Package scaffold writes starter routetable projects: a routetable.json,
// a route manifest and the view chunks it references.
//
// Scaffold files are Go templates with [[ ]] delimiters, so the chunks they
// produce can keep the {{ }} actions that views are rendered with.
package scaffold
