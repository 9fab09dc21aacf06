package main

// Default limits for CLI commands.
const (
	DefaultGroupLimit   = 50
	DefaultSampleWidth  = 40
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}

// Valid export subjects.
var validExportSubjects = []string{"refdata", "queue"}
