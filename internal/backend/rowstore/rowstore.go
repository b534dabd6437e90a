// Package rowstore is the row-oriented remote backend: per-record upserts
// of operational data into a hosted Postgres table via the pgx stdlib
// driver. Only operational rows are ever written or cleared remotely; no
// master-data table exists on this backend, by design.
package rowstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/credentials"
	"github.com/dmitrijs2005/branchsync/internal/dbx"
	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// openDB is a test seam; tests stub it to avoid a live server.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// Result is the per-operation outcome surfaced to the user report. Both
// "table missing" and "auth failed" are Success=false; the message tells
// them apart.
type Result struct {
	Success bool
	Count   int
	Message string
}

// Source is the slice of the local store the backend reads.
type Source interface {
	AllOperational(ctx context.Context) (*models.OperationalData, error)
}

type Client struct {
	creds  *credentials.Store
	source Source
	log    logging.Logger
}

func NewClient(creds *credentials.Store, source Source, log logging.Logger) *Client {
	return &Client{creds: creds, source: source, log: log}
}

// Configured reports whether every required credential field is present.
func (c *Client) Configured(ctx context.Context) bool {
	ok, err := c.creds.IsConfigured(ctx, credentials.BackendRow)
	return err == nil && ok
}

// buildDSN injects the access key as the password of the endpoint URL.
func buildDSN(endpoint, accessKey string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url: %w", err)
	}
	user := "branchsync"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, accessKey)
	return u.String(), nil
}

// open builds a fresh connection from the credential store. Credentials
// are re-read on every call; incomplete credentials mean "not configured".
func (c *Client) open(ctx context.Context) (*sql.DB, error) {
	ok, err := c.creds.IsConfigured(ctx, credentials.BackendRow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotConfigured
	}

	endpoint, _, err := c.creds.Get(ctx, credentials.BackendRow, credentials.FieldEndpoint)
	if err != nil {
		return nil, err
	}
	accessKey, _, err := c.creds.Get(ctx, credentials.BackendRow, credentials.FieldAccessKey)
	if err != nil {
		return nil, err
	}

	dsn, err := buildDSN(endpoint, accessKey)
	if err != nil {
		return nil, err
	}

	return openDB(dsn)
}

// TestConnection issues a minimal read to verify the sales table exists
// and the credentials work. It distinguishes "table missing" (setup
// incomplete) from auth/network failures in the message.
func (c *Client) TestConnection(ctx context.Context) Result {
	db, err := c.open(ctx)
	if err != nil {
		return Result{Success: false, Message: connectMessage(err)}
	}
	defer db.Close()

	return testConnection(ctx, db)
}

func testConnection(ctx context.Context, db dbx.DBTX) Result {
	_, err := db.ExecContext(ctx, `SELECT id FROM sales LIMIT 1`)
	if err != nil {
		return Result{Success: false, Message: connectMessage(err)}
	}
	return Result{Success: true, Message: "connection ok, sales table found"}
}

func connectMessage(err error) string {
	if errors.Is(err, common.ErrNotConfigured) {
		return "relational backend is not configured"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01":
			return "sales table does not exist — run the setup script on the backend"
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "28":
			return "authentication failed — check the access key in settings"
		}
	}
	return fmt.Sprintf("connection failed: %v", err)
}

// PushSalesUp maps every local transaction to the remote row shape and
// upserts it keyed by id. Safe to call on every sync tick: a repeat push
// with no local changes leaves the remote rows untouched.
func (c *Client) PushSalesUp(ctx context.Context) Result {
	db, err := c.open(ctx)
	if err != nil {
		return Result{Success: false, Message: connectMessage(err)}
	}
	defer db.Close()

	data, err := c.source.AllOperational(ctx)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("reading local data failed: %v", err)}
	}

	return pushSales(ctx, db, data.Transactions)
}

func pushSales(ctx context.Context, db dbx.DBTX, items []models.Transaction) Result {
	count := 0
	for i := range items {
		if err := upsertSale(ctx, db, &items[i]); err != nil {
			return Result{
				Success: false,
				Count:   count,
				Message: fmt.Sprintf("push stopped after %d rows: %v", count, err),
			}
		}
		count++
	}
	return Result{Success: true, Count: count, Message: fmt.Sprintf("pushed %d sales", count)}
}

func upsertSale(ctx context.Context, db dbx.DBTX, t *models.Transaction) error {
	itemsJSON, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	query := `
		INSERT INTO sales (id, created_at, total, payment_status, items, user_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			created_at = EXCLUDED.created_at,
			total = EXCLUDED.total,
			payment_status = EXCLUDED.payment_status,
			items = EXCLUDED.items,
			user_name = EXCLUDED.user_name,
			synced_at = now();
	`
	_, err = db.ExecContext(ctx, query,
		t.ID, t.CreatedAt, t.Total.String(), t.PaymentStatus, string(itemsJSON), t.UserName)
	if err != nil {
		return fmt.Errorf("failed to upsert sale %s: %w", t.ID, err)
	}
	return nil
}

// ClearSales deletes the remote operational rows. Master/catalog data is
// never deletable through this client — the asymmetry is a deliberate
// safety boundary.
func (c *Client) ClearSales(ctx context.Context) Result {
	db, err := c.open(ctx)
	if err != nil {
		return Result{Success: false, Message: connectMessage(err)}
	}
	defer db.Close()

	return clearSales(ctx, db)
}

func clearSales(ctx context.Context, db dbx.DBTX) Result {
	res, err := db.ExecContext(ctx, `DELETE FROM sales`)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("clear failed: %v", err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{Success: true, Message: "cleared remote sales"}
	}
	return Result{Success: true, Count: int(n), Message: fmt.Sprintf("cleared %d remote sales", n)}
}
