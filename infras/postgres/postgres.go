package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"time"

	"airpark/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 20
	connMaxLifetime    = 30 * time.Minute
)

// Connection splits reads from writes. Both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	role     string
	username string
	password string
	host     string
	port     string
	name     string
	sslMode  string
}

func (e endpoint) dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		e.username,
		e.password,
		net.JoinHostPort(e.host, e.port),
		e.name,
		e.sslMode,
	)
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	read := endpoint{
		role:     "read",
		username: pg.Read.Username,
		password: pg.Read.Password,
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		name:     pg.Prefix + pg.Read.Name,
		sslMode:  pg.Read.SSLMode,
	}
	write := endpoint{
		role:     "write",
		username: pg.Write.Username,
		password: pg.Write.Password,
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		name:     pg.Prefix + pg.Write.Name,
		sslMode:  pg.Write.SSLMode,
	}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

func connect(e endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	if maxRetry < 1 {
		maxRetry = 1
	}

	for attempt := range maxRetry {
		db, err := sqlx.Connect("postgres", e.dsn())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().
				Str("role", e.role).
				Str("host", e.host).
				Str("port", e.port).
				Str("dbName", e.name).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("role", e.role).
			Str("host", e.host).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Fatal().Str("role", e.role).Str("host", e.host).Msg("Giving up connecting to database")

	return nil
}
