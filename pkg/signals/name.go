package signals

//go:generate go run github.com/dmarkham/enumer -type Name -trimprefix Name -transform kebab -output name.gen.go

type Name int

const (
	NameConfigurationLoaded Name = iota
	NameApplicationConfigured
)

// Doc describes when the signal is emitted.
func (n Name) Doc() string {
	switch n {
	case NameConfigurationLoaded:
		return "Emitted once the configuration has been loaded."
	case NameApplicationConfigured:
		return "Emitted once the application has been configured."
	default:
		return ""
	}
}
