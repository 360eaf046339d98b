package config

const (
	// EnginePostgres selects the gorm postgres driver.
	EnginePostgres = "postgres"
	// EngineMySQL selects the gorm mysql driver.
	EngineMySQL = "mysql"
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine   string // postgres, mysql or sqlite
	Extras       string // driver specific dsn options, appended as is
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	Path         string // sqlite database file
	SeedOnStart  bool   // seed default permissions when the daemon starts
	MaxOpenConns int
	MaxIdleConns int
}
