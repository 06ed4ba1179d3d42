package importer

import (
	"fmt"
	"io"

	"github.com/avelines/remit/internal/beneficiary"
	"github.com/avelines/remit/internal/importer/portalcsv"
)

type Service struct {
	portalImporter Importer
}

func NewService() *Service {
	return &Service{
		portalImporter: portalcsv.New(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]beneficiary.CreateParams, error) {
	var imp Importer

	switch source {
	case SourcePortal:
		imp = s.portalImporter
	default:
		return nil, fmt.Errorf("unknown import source: %s", source)
	}

	return imp.Parse(r)
}
