package ingest

const formOverhead = 1 << 20

// Config holds upload limits and naming settings.
type Config struct {
	MaxImageBytes    int64 `env:"MAX_IMAGE_BYTES" envDefault:"25000000"`
	MaxJSONBytes     int64 `env:"MAX_JSON_BYTES" envDefault:"2000000"`
	MultipartMemory  int64 `env:"MULTIPART_MEMORY" envDefault:"8388608"`
	NameSuffixLength int   `env:"NAME_SUFFIX_LENGTH" envDefault:"5"`
	NameAttempts     int   `env:"NAME_ATTEMPTS" envDefault:"20"`
}

func DefaultConfig() Config {
	return Config{
		MaxImageBytes:    25_000_000,
		MaxJSONBytes:     2_000_000,
		MultipartMemory:  8 << 20,
		NameSuffixLength: 5,
		NameAttempts:     20,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = d.MaxImageBytes
	}
	if c.MaxJSONBytes <= 0 {
		c.MaxJSONBytes = d.MaxJSONBytes
	}
	if c.MultipartMemory <= 0 {
		c.MultipartMemory = d.MultipartMemory
	}
	if c.NameSuffixLength <= 0 {
		c.NameSuffixLength = d.NameSuffixLength
	}
	if c.NameAttempts <= 0 {
		c.NameAttempts = d.NameAttempts
	}
	return c
}

// bodyLimit caps the whole request: one image, one sidecar and form fields.
func (c Config) bodyLimit() int64 {
	return c.MaxImageBytes + c.MaxJSONBytes + formOverhead
}
