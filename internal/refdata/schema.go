package refdata

// Schema DDL for the reference tables.
const (
	createCountries = `CREATE TABLE countries (
    code TEXT NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    name_cy TEXT,
    eu INTEGER
);`

	createCommodityCodes = `CREATE TABLE commodity_codes (
    code TEXT NOT NULL PRIMARY KEY,
    description TEXT NOT NULL
);`
)

// Index DDL for lookups used on every request.
const (
	idxCountriesEU   = `CREATE INDEX idx_countries_eu ON countries(eu);`
	idxCountriesName = `CREATE INDEX idx_countries_name ON countries(name);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createCountries,
	createCommodityCodes,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCountriesEU,
	idxCountriesName,
}
