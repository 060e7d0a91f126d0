// Package analyzer parses consultation tag fields, counts tags, sorts them
// into the report categories and counts distinct entities per branch.
//
// Everything here is pure: functions take a model.Table or a frequency
// mapping and return freshly allocated maps. Nothing in the package performs
// I/O, keeps state between calls or modifies its inputs.
package analyzer
