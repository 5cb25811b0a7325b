// Package pg bootstraps the PostgreSQL layer backing the user-record store:
// a pgx/v5 connection pool with retrying startup, goose schema migrations,
// a health check closure, and small error-classification helpers.
//
// Configuration is environment-driven via the Config struct; migrations live
// under pkg/pg/migrations and include the users table consumed by
// twofactor.PostgresStore.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    log.Fatal(err)
//	}
package pg
