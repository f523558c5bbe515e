package health

// CatalogSizer reports how many records are being served.
type CatalogSizer interface {
	Len() int
}

// Status is the GET /health payload.
type Status struct {
	OK          bool `json:"ok"`
	CatalogSize int  `json:"catalogSize"`
}

// Service encapsulates health-related checks.
type Service struct {
	catalog CatalogSizer
}

// NewService constructs a new health service.
func NewService(catalog CatalogSizer) *Service {
	return &Service{catalog: catalog}
}

// Status returns the health payload. The catalog is loaded before serving, so a running process is ok.
func (s *Service) Status() Status {
	size := 0
	if s != nil && s.catalog != nil {
		size = s.catalog.Len()
	}
	return Status{OK: true, CatalogSize: size}
}
