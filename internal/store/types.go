package store

// TableName is the MySQL table backing the borrowed books collection.
const TableName = "borrowed_books"

const createTableSQL = "CREATE TABLE IF NOT EXISTS " + TableName + ` (
	id         VARCHAR(36) NOT NULL PRIMARY KEY,
	body       JSON        NOT NULL,
	created_at DATETIME    NOT NULL,
	updated_at DATETIME    NOT NULL
)`

// Document is one stored row. Body is the raw JSON document.
type Document struct {
	ID        string `json:"id"`
	Body      []byte `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
