// Package common keeps enums shared by configuration and command line
// handling, so both can refer to them without depending on each other.
package common

// Specification of requested navigation output type.
// ENUM(ts, json, yaml)
type OutputFmt int

// Ext returns file extension used for navigation files of this type.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtTs:
		return ".ts"
	case OutputFmtJson:
		return ".json"
	case OutputFmtYaml:
		return ".yaml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
