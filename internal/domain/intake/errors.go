package intake

import "errors"

var (
	// ErrEmptyUpload indicates the upload has no data rows.
	ErrEmptyUpload = errors.New("upload contains no rows")
	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
	// ErrDuplicateEAN indicates two rows of the same batch share an EAN.
	// Duplicates would misdirect later single-cell saves, so the upload is
	// rejected before anything is written.
	ErrDuplicateEAN = errors.New("duplicate ean in batch")
)
