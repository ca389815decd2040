package menu

// Categories used for filtering and for ordering the menu response.
var Categories = []string{
	"Entradas",
	"Platos Fuertes",
	"Salsas",
	"Postres",
	"Bebidas",
}

var catalog = []Item{
	{
		ID:          "dish-lasagna",
		Name:        "🍝 Lasagna (Pasticho)",
		Description: "Capas de pasta con salsa bolognesa, queso y bechamel",
		Price:       6.00,
		Category:    "Platos Fuertes",
		Available:   true,
	},
	{
		ID:          "dish-hallaca",
		Name:        "🫔 Hallaca Venezolana",
		Description: "Masa de maíz rellena con guiso, envuelta en hoja de plátano",
		Price:       3.00,
		Category:    "Platos Fuertes",
		Available:   true,
		HasOptions:  true,
		Options: []Option{
			{
				ID:          "hallaca-individual",
				Name:        "Hallaca Individual",
				Price:       3.00,
				Description: "Hallaca tradicional con relleno de cerdo y pollo",
			},
			{
				ID:          "hallaca-decena",
				Name:        "Hallaca x Decena",
				Price:       2.50,
				Description: "Hallaca tradicional con relleno de cerdo y pollo",
			},
		},
	},
	{
		ID:          "dish-milanesa-pollo",
		Name:        "🍗 Milanesa de Pollo",
		Description: "Milanesa de pollo acompañada de arroz, lentejas y tajada",
		Price:       5.00,
		Category:    "Platos Fuertes",
		Available:   true,
	},
	{
		ID:          "sauce-bolognesa",
		Name:        "🍝 Salsa Bolognesa",
		Description: "Salsa clásica con carne molida y tomate (24 oz)",
		Price:       5.00,
		Category:    "Salsas",
		Available:   true,
	},
	{
		ID:          "sauce-napoli",
		Name:        "🍅 Salsa Napoli",
		Description: "Salsa tradicional italiana de tomate (24 oz)",
		Price:       4.00,
		Category:    "Salsas",
		Available:   true,
	},
	{
		ID:          "sauce-costilla",
		Name:        "🥩 Salsa Napoli con Costilla de Cerdo",
		Description: "Salsa rica en sabor con costilla de cerdo (24 oz)",
		Price:       6.00,
		Category:    "Salsas",
		Available:   true,
	},
	{
		ID:          "dessert-maracuya",
		Name:        "🥭 Dulce de Maracuyá (Parchita)",
		Description: "Dulce artesanal típico de la región andina, hecho con maracuyá (Parchita).",
		Price:       2.00,
		Category:    "Postres",
		Available:   true,
	},
	{
		ID:          "dessert-marquesa",
		Name:        "🍫 Marquesa de Chocolate",
		Description: "Dulce artesanal típico de la región andina, hecho con chocolate.",
		Price:       2.00,
		Category:    "Postres",
		Available:   true,
	},
	{
		ID:          "dessert-arroz-con-leche",
		Name:        "🍚 Arroz con leche",
		Description: "Postre tradicional cremoso hecho con arroz, leche y canela.",
		Price:       2.00,
		Category:    "Postres",
		Available:   true,
	},
}

// Items returns a copy of the catalog so callers cannot reorder or mutate it.
func Items() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id string) (Item, bool) {
	for _, it := range catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
