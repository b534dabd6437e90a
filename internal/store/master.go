package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/dbx"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// MasterData returns the complete master-data set.
func (s *Store) MasterData(ctx context.Context) (*models.MasterData, error) {
	m := &models.MasterData{}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category_id, barcode, price, cost, stock FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Barcode, &p.Price, &p.Cost, &p.Stock); err != nil {
			return nil, err
		}
		m.Products = append(m.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		m.Categories = append(m.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, percent, active FROM discounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to select discounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d models.Discount
		if err := rows.Scan(&d.ID, &d.Name, &d.Percent, &d.Active); err != nil {
			return nil, err
		}
		m.Discounts = append(m.Discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, phone, points, membership_id FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("failed to select customers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Points, &c.MembershipID); err != nil {
			return nil, err
		}
		m.Customers = append(m.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, phone, address FROM suppliers`)
	if err != nil {
		return nil, fmt.Errorf("failed to select suppliers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sp models.Supplier
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Address); err != nil {
			return nil, err
		}
		m.Suppliers = append(m.Suppliers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, min_points, discount_percent FROM membership_rules`)
	if err != nil {
		return nil, fmt.Errorf("failed to select membership rules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r models.MembershipRule
		if err := rows.Scan(&r.ID, &r.Name, &r.MinPoints, &r.DiscountPercent); err != nil {
			return nil, err
		}
		m.MembershipRules = append(m.MembershipRules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, name, address FROM branches`)
	if err != nil {
		return nil, fmt.Errorf("failed to select branches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address); err != nil {
			return nil, err
		}
		m.Branches = append(m.Branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// ReplaceMasterData overwrites every master collection with the given set
// in a single transaction. This is the merge granularity the snapshot
// model defines: whole-collection replacement, last writer wins.
func (s *Store) ReplaceMasterData(ctx context.Context, m *models.MasterData) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return replaceMasterData(ctx, tx, m)
	})
}

func replaceMasterData(ctx context.Context, tx dbx.DBTX, m *models.MasterData) error {
	for _, table := range []string{
		"products", "categories", "discounts", "customers",
		"suppliers", "membership_rules", "branches",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i := range m.Products {
		p := &m.Products[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, category_id, barcode, price, cost, stock) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.CategoryID, p.Barcode, p.Price.String(), p.Cost.String(), p.Stock)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	for i := range m.Categories {
		c := &m.Categories[i]
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
	}
	for i := range m.Discounts {
		d := &m.Discounts[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO discounts (id, name, percent, active) VALUES (?, ?, ?, ?)`,
			d.ID, d.Name, d.Percent.String(), d.Active)
		if err != nil {
			return fmt.Errorf("failed to insert discount: %w", err)
		}
	}
	for i := range m.Customers {
		c := &m.Customers[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, phone, points, membership_id) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Phone, c.Points, c.MembershipID)
		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}
	}
	for i := range m.Suppliers {
		sp := &m.Suppliers[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO suppliers (id, name, phone, address) VALUES (?, ?, ?, ?)`,
			sp.ID, sp.Name, sp.Phone, sp.Address)
		if err != nil {
			return fmt.Errorf("failed to insert supplier: %w", err)
		}
	}
	for i := range m.MembershipRules {
		r := &m.MembershipRules[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO membership_rules (id, name, min_points, discount_percent) VALUES (?, ?, ?, ?)`,
			r.ID, r.Name, r.MinPoints, r.DiscountPercent.String())
		if err != nil {
			return fmt.Errorf("failed to insert membership rule: %w", err)
		}
	}
	for i := range m.Branches {
		b := &m.Branches[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO branches (id, name, address) VALUES (?, ?, ?)`,
			b.ID, b.Name, b.Address)
		if err != nil {
			return fmt.Errorf("failed to insert branch: %w", err)
		}
	}

	return nil
}

// SaveProduct upserts a single product.
func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (id, name, category_id, barcode, price, cost, stock)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			category_id = excluded.category_id,
			barcode = excluded.barcode,
			price = excluded.price,
			cost = excluded.cost,
			stock = excluded.stock
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.CategoryID, p.Barcode, p.Price.String(), p.Cost.String(), p.Stock)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// StockLevels returns the current product stock snapshot.
func (s *Store) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, stock FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to select stock levels: %w", err)
	}
	defer rows.Close()

	var result []models.StockLevel
	for rows.Next() {
		var l models.StockLevel
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Quantity); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustStock adds delta to the stock of the given product. Returns
// common.ErrNotFound if no such product exists locally.
func (s *Store) AdjustStock(ctx context.Context, itemID string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ?`, delta, itemID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", itemID, common.ErrNotFound)
	}
	return nil
}
