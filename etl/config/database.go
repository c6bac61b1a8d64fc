package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DBConnections holds the database handles used by a run.
type DBConnections struct {
	// Warehouse is the analytical store. It is pinged at startup: if it is
	// unreachable nothing can be written and the run cannot start.
	Warehouse *sql.DB
	// OLTP1 and OLTP2 are the transaction sources. They are opened lazily and
	// deliberately not pinged here: an unreachable source surfaces as that
	// source's extract failure while the rest of the run proceeds.
	OLTP1 *sql.DB
	OLTP2 *sql.DB
}

// ConnectDatabases opens the warehouse and source connections.
func ConnectDatabases(cfg *Config) (*DBConnections, error) {
	warehouse, err := open(cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := warehouse.PingContext(ctx); err != nil {
		warehouse.Close()
		return nil, fmt.Errorf("warehouse unreachable: %w", err)
	}

	oltp1, err := open(cfg.OLTP1)
	if err != nil {
		warehouse.Close()
		return nil, fmt.Errorf("opening OLTP1 connection: %w", err)
	}

	oltp2, err := open(cfg.OLTP2)
	if err != nil {
		warehouse.Close()
		oltp1.Close()
		return nil, fmt.Errorf("opening OLTP2 connection: %w", err)
	}

	return &DBConnections{
		Warehouse: warehouse,
		OLTP1:     oltp1,
		OLTP2:     oltp2,
	}, nil
}

func open(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// CloseDatabases closes all connections, logging nothing: callers own the
// logger and close happens on the way out.
func CloseDatabases(conns *DBConnections) {
	if conns == nil {
		return
	}
	for _, db := range []*sql.DB{conns.Warehouse, conns.OLTP1, conns.OLTP2} {
		if db != nil {
			db.Close()
		}
	}
}
