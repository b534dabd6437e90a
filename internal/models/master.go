package models

import "github.com/shopspring/decimal"

// Master records are mutable catalog/configuration data shared across
// branches. Ownership is last-writer-wins per push; there is no per-field
// ownership tracking.

type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	Barcode    string          `json:"barcode"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      int             `json:"stock"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Discount struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Active  bool            `json:"active"`
}

type Customer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Points       int    `json:"points"`
	MembershipID string `json:"membership_id"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type MembershipRule struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	MinPoints       int             `json:"min_points"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// MasterData aggregates every master collection.
type MasterData struct {
	Products        []Product        `json:"products"`
	Categories      []Category       `json:"categories"`
	Discounts       []Discount       `json:"discounts"`
	Customers       []Customer       `json:"customers"`
	Suppliers       []Supplier       `json:"suppliers"`
	MembershipRules []MembershipRule `json:"membership_rules"`
	Branches        []Branch         `json:"branches"`
}
