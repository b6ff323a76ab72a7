package logging

// Field names for structured logging.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldFormat = "format"
	FieldOutput = "output"

	// Documents
	FieldBlocks   = "blocks"
	FieldEntities = "entities"
	FieldBlockKey = "block"

	// Actions
	FieldAction    = "action"
	FieldActions   = "actions"
	FieldUnhandled = "unhandled"

	// Configuration
	FieldConfig = "config"
	FieldFlavor = "flavor"
	FieldJobs   = "jobs"

	// Batch statistics
	FieldFilesDiscovered = "files_discovered"
	FieldFilesInvalid    = "files_invalid"
	FieldFilesErrored    = "files_errored"

	// HTTP service
	FieldAddr      = "addr"
	FieldMethod    = "method"
	FieldRoute     = "route"
	FieldStatus    = "status"
	FieldDuration  = "duration"
	FieldRequestID = "request_id"

	// Version
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
