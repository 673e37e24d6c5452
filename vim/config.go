package vim

// Config holds vim configuration
type Config struct {
	UseGoImplementation bool
}

// DefaultConfig is the default configuration. It prefers libvim when
// the binary was built with it.
var DefaultConfig = Config{
	UseGoImplementation: !libvimAvailable,
}

// CurrentConfig is the current configuration
var CurrentConfig = DefaultConfig

// Configure sets up vim with the given configuration
func Configure(config Config) error {
	CurrentConfig = config
	return InitializeVim(config.UseGoImplementation)
}

// IsCGOAvailable returns whether the libvim implementation is compiled in.
func IsCGOAvailable() bool {
	return libvimAvailable
}
