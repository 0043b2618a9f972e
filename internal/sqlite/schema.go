package sqlite

// Schema DDL for the five collections. Foreign keys are declared as a
// backstop; the integrity engine checks them explicitly so violations carry
// a precise field and value. Server-assigned keys use AUTOINCREMENT so ids
// are monotonic and never reused after a delete.
const (
	createStates = `CREATE TABLE IF NOT EXISTS states (
    state_code TEXT PRIMARY KEY,
    state_name TEXT NOT NULL,
    row_version INTEGER NOT NULL DEFAULT 1
);`

	createCustomers = `CREATE TABLE IF NOT EXISTS customers (
    customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    city TEXT NOT NULL,
    state_code TEXT NOT NULL REFERENCES states(state_code),
    zip_code TEXT NOT NULL,
    row_version INTEGER NOT NULL DEFAULT 1
);`

	createProducts = `CREATE TABLE IF NOT EXISTS products (
    product_code TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    unit_price TEXT NOT NULL,
    on_hand_quantity INTEGER NOT NULL,
    row_version INTEGER NOT NULL DEFAULT 1
);`

	createInvoices = `CREATE TABLE IF NOT EXISTS invoices (
    invoice_id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
    invoice_date TEXT NOT NULL,
    product_total TEXT NOT NULL,
    sales_tax TEXT NOT NULL,
    shipping TEXT NOT NULL,
    invoice_total TEXT NOT NULL,
    row_version INTEGER NOT NULL DEFAULT 1
);`

	createLineItems = `CREATE TABLE IF NOT EXISTS invoice_line_items (
    invoice_id INTEGER NOT NULL REFERENCES invoices(invoice_id),
    product_code TEXT NOT NULL REFERENCES products(product_code),
    unit_price TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    item_total TEXT NOT NULL,
    row_version INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (invoice_id, product_code)
);`
)

// schemaSQL is the full DDL applied on Attach.
const schemaSQL = createStates + "\n" + createCustomers + "\n" + createProducts +
	"\n" + createInvoices + "\n" + createLineItems
