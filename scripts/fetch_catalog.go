package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Quick check that the remote catalogue endpoint is reachable and parseable.
func main() {
	baseURL := "https://dummyjson.com"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/products", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build request: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch catalog: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Catalog returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	var envelope struct {
		Products []struct {
			Title    string  `json:"title"`
			Category string  `json:"category"`
			Price    float64 `json:"price"`
		} `json:"products"`
		Total int `json:"total"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode catalog: %v\n", err)
		os.Exit(1)
	}

	categories := make(map[string]int)
	maxPrice := 0.0
	for _, p := range envelope.Products {
		categories[p.Category]++
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	fmt.Printf("Fetched %d products (%d total upstream)\n", len(envelope.Products), envelope.Total)
	fmt.Printf("Max price: %.2f\n", maxPrice)
	fmt.Printf("Categories:\n")
	for category, count := range categories {
		fmt.Printf("  %-20s %d\n", category, count)
	}
}
