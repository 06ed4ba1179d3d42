package importer

import (
	"io"

	"github.com/avelines/remit/internal/beneficiary"
)

// Source identifies the roster file format being imported.
type Source string

const (
	SourcePortal Source = "portal"
)

type Importer interface {
	Parse(r io.Reader) ([]beneficiary.CreateParams, error)
}
