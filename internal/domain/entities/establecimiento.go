package entities

// Establecimiento is one row of the read-only catalog. The id is assigned by
// the store; every other field is free-form text and may be empty except the
// name.
type Establecimiento struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Localidad string `json:"localidad"`
	Provincia string `json:"provincia"`
}

// Pagination carries the page metadata returned alongside every result page.
// Total counts the whole match set independently of skip/limit.
type Pagination struct {
	Total    int  `json:"total"`
	Skip     int  `json:"skip"`
	Limit    int  `json:"limit"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
	NextSkip int  `json:"next_skip"`
}

// SearchFilters echoes the filters that produced a page
type SearchFilters struct {
	Search    string `json:"search"`
	Provincia string `json:"provincia"`
}

// ResultPage is one bounded slice of matching establishments plus metadata
type ResultPage struct {
	Establecimientos []Establecimiento `json:"establecimientos"`
	Pagination       Pagination        `json:"pagination"`
	Filters          SearchFilters     `json:"filters"`
}
