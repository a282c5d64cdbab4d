package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"checkout.db"`

	Wompi Wompi `envPrefix:"WOMPI_"`
}

type Wompi struct {
	BaseApiURL   string `env:"API_URL" envDefault:"https://api-sandbox.co.uat.wompi.dev/v1"`
	PublicKey    string `env:"PUBLIC_KEY,required"`
	PrivateKey   string `env:"PRIVATE_KEY,required"`
	IntegrityKey string `env:"INTEGRITY_KEY,required"`
	EventsKey    string `env:"EVENTS_KEY,required"`

	// Used as customer_data.phone_number when the customer record has no
	// phone. Wompi rejects transactions without one.
	FallbackPhone string `env:"FALLBACK_PHONE,required"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
