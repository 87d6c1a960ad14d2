package catalog

import "fmt"

// DemoProducts returns the five starter records the dashboard ships with so
// a fresh instance has something to show. Each carries a full set of
// extension values to exercise the extra columns.
func DemoProducts() []Product {
	type sample struct {
		id, name, brand string
		price           float64
		availability    Availability
		imageURL        string
	}
	samples := []sample{
		{"PROD001", "Wireless Headphones", "TechBrand", 99.99, InStock,
			"https://images.unsplash.com/photo-1649972904349-6e44c42644a7?w=400&h=400&fit=crop"},
		{"PROD002", "Smartphone", "PhoneCorp", 699.99, LowStock,
			"https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?w=400&h=400&fit=crop"},
		{"PROD003", "Laptop", "CompuTech", 1299.99, InStock,
			"https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=400&h=400&fit=crop"},
		{"PROD004", "Tablet", "TabletCo", 399.99, OutOfStock,
			"https://images.unsplash.com/photo-1581090464777-f3220bbe1b8b?w=400&h=400&fit=crop"},
		{"PROD005", "Smart Watch", "WearTech", 249.99, InStock,
			"https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=400&h=400&fit=crop"},
	}

	products := make([]Product, 0, len(samples))
	for _, s := range samples {
		extras := make(map[string]Cell, ExtraColumnCount)
		for i := 1; i <= ExtraColumnCount; i++ {
			extras[fmt.Sprintf("extra%d", i)] = TextCell(fmt.Sprintf("Value Extra %d", i))
		}
		products = append(products, Product{
			ID:           s.id,
			Name:         s.name,
			Brand:        s.brand,
			Price:        s.price,
			Availability: s.availability,
			ImageURL:     s.imageURL,
			Extras:       extras,
		})
	}
	return products
}
