package models

import "time"

type User struct {
	ID         int64  `json:"id" db:"id"`
	ExternalID string `json:"external_id" db:"external_id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
}

type Product struct {
	ID              int64     `json:"id" db:"id"`
	ExternalID      string    `json:"external_id" db:"external_id"`
	Name            string    `json:"name" db:"name"`
	Link            string    `json:"link" db:"link"`
	Image           string    `json:"image" db:"image"`
	Store           string    `json:"store" db:"store"`
	Currency        string    `json:"currency" db:"currency"`
	InitialPrice    float64   `json:"initial_price" db:"initial_price"`
	CurrentPrice    float64   `json:"current_price" db:"current_price"`
	PriceDifference float64   `json:"price_difference" db:"price_difference"`
	LastRefreshed   time.Time `json:"last_refreshed" db:"last_refreshed"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Alert struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	DesiredPrice float64   `json:"desired_price" db:"desired_price"`
	Created      time.Time `json:"created" db:"created"`
}

// AlertView is the display projection of an alert joined with its product.
type AlertView struct {
	AlertID         int64   `json:"alert_id"`
	DesiredPrice    float64 `json:"desired_price"`
	ProductName     string  `json:"product_name"`
	ProductLink     string  `json:"product_link"`
	ProductImage    string  `json:"product_image"`
	ProductPrice    float64 `json:"product_price"`
	ProductCurrency string  `json:"product_currency"`
	ProductStore    string  `json:"product_store"`
	PriceDifference float64 `json:"price_difference"`
}

// ProductMetadata is what the frontend captured from a marketplace search
// result; it seeds a product that nobody tracked before.
type ProductMetadata struct {
	Name     string  `json:"product_name" validate:"required"`
	Link     string  `json:"product_link" validate:"required,url"`
	Image    string  `json:"product_image"`
	Store    string  `json:"product_store" validate:"required"`
	Currency string  `json:"product_currency" validate:"required"`
	Price    float64 `json:"product_price" validate:"required,gt=0"`
}

type Deal struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Link     string  `json:"link" db:"link"`
	Image    string  `json:"image" db:"image"`
	Price    float64 `json:"price" db:"price"`
	Currency string  `json:"currency" db:"currency"`
	Store    string  `json:"store" db:"store"`
}

type Filter struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type SearchResult struct {
	ExternalID string  `json:"product_id"`
	Name       string  `json:"product_name"`
	Link       string  `json:"product_link"`
	Image      string  `json:"product_image"`
	Price      float64 `json:"product_price"`
	Currency   string  `json:"product_currency"`
	Store      string  `json:"product_store"`
}

// FetchTask is published to the parsing queue for products created without
// a usable metadata price.
type FetchTask struct {
	ProductID  int64  `json:"product_id"`
	ExternalID string `json:"external_id"`
}

// PriceUpdate is what the parsing queue delivers back.
type PriceUpdate struct {
	ProductID int64   `json:"product_id"`
	Price     float64 `json:"price"`
	Found     bool    `json:"found"`
}

type Category struct {
	ID   int64  `json:"id" db:"id"`
	Type string `json:"type" db:"type"`
}

type Question struct {
	ID         int64  `json:"id" db:"id"`
	Question   string `json:"question" db:"question"`
	Answer     string `json:"answer" db:"answer"`
	CategoryID int64  `json:"category" db:"category_id"`
	Difficulty int    `json:"difficulty" db:"difficulty"`
	Rating     int    `json:"rating" db:"rating"`
}

type Player struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Game struct {
	ID         int64     `json:"id" db:"id"`
	PlayerID   int64     `json:"player_id" db:"player_id"`
	CategoryID int64     `json:"category_id" db:"category_id"`
	Score      int       `json:"score" db:"score"`
	PlayedAt   time.Time `json:"played_at" db:"played_at"`
}
