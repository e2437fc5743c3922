package logging

// Structured field names shared by the CLI and the splitter observer, so the
// same key never appears under two spellings.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFlavor    = "flavor"
	FieldChunkSize = "chunk_size"
	FieldFormat    = "format"

	// Stream fields.
	FieldBlockID   = "block_id"
	FieldBlockType = "block_type"
	FieldCursor    = "cursor"
	FieldChunk     = "chunk"
	FieldBlocks    = "blocks"
	FieldLanguage  = "language"
	FieldURL       = "url"
	FieldComponent = "component"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
