// Package projects resolves static project tokens to their configuration.
//
// The project map is a file keyed by token:
//
//	{
//	  "TEST123": {"name": "Mugs", "canvas": {"w": 2000, "h": 800}},
//	  "ACME": {}
//	}
//
// or the YAML equivalent when the file ends in .yaml or .yml. Only the
// existence of a key matters for authorization; values are passed through
// untouched.
package projects
