package exporter

// Exporter delivers a finished calendar document somewhere.
type Exporter interface {
	Export(ics string) error
	GetType() string
}
