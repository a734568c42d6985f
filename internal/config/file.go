package config

// SchemaFile describes the off-chain schema section of the configuration file.
type SchemaFile struct {
	Name        string `yaml:"name,omitempty"`
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
	Dialect     string `yaml:"dialect,omitempty"`
}

// File represents the structure of the .refiner configuration file.
// Every field is optional; see Config.Apply for how it is merged.
type File struct {
	InputDir   string `yaml:"inputDir,omitempty"`
	OutputDir  string `yaml:"outputDir,omitempty"`
	StoreDir   string `yaml:"storeDir,omitempty"`
	GatewayURL string `yaml:"gatewayURL,omitempty"`

	// EncryptionKey is accepted for unattended setups. Prefer the
	// REFINER_ENCRYPTION_KEY environment variable.
	EncryptionKey string `yaml:"encryptionKey,omitempty"`

	UploadConcurrency int `yaml:"uploadConcurrency,omitempty"`

	Schema SchemaFile `yaml:"schema,omitempty"`
}
