package configs

// Configuration of the notebookd server, read from a single YAML file.
type ManagerConfig struct {
	// port the API server listens on.
	ServerPort string `yaml:"port"`

	// k8s namespace where notebook bundles are created.
	Namespace string `yaml:"namespace"`

	// connection string for the record database.
	DBURI string `yaml:"dburi"`

	// directory holding the base resource manifests
	// (deployment.yaml, service.yaml, secret.yaml, ingress.yaml).
	TemplatesDir string `yaml:"templates"`

	// Keycloak userinfo endpoint used to validate bearer tokens.
	UserinfoURL string `yaml:"userinfoURL"`

	// how many days an instance is shown as retained. default = 10.
	RetentionDays int `yaml:"retentionDays"`

	// expose each instance through an Ingress. default = true.
	Ingress *bool `yaml:"ingress"`

	// generate a one-time access token per instance. default = true.
	AuthToken *bool `yaml:"authToken"`

	Cache   CacheConfig   `yaml:"cache"`
	Deleter DeleterConfig `yaml:"deleter"`
}

// Configuration of the redis-backed listing cache.
type CacheConfig struct {
	// when false, listings are always recomputed.
	Enabled bool `yaml:"enabled"`

	// host:port of the redis server.
	Addr string `yaml:"addr"`

	// redis logical database number.
	DB int `yaml:"db"`

	// seconds a cached listing stays fresh. default = 3600.
	TTLSeconds int `yaml:"ttlSeconds"`
}

// Configuration of the in-cluster deleter callback the secret points at.
type DeleterConfig struct {
	ServiceName string `yaml:"serviceName"`
	ServicePort int32  `yaml:"servicePort"`
}

func (c *ManagerConfig) IngressEnabled() bool {
	return c.Ingress == nil || *c.Ingress
}

func (c *ManagerConfig) AuthTokenEnabled() bool {
	return c.AuthToken == nil || *c.AuthToken
}
