package db

import (
	"database/sql"

	"github.com/YannKr/studyportal/internal/model"
)

func CreateAccount(database *sql.DB, a *model.Account) error {
	_, err := database.Exec(
		`INSERT INTO accounts (name, credential) VALUES (?, ?)`,
		a.Name, a.Credential,
	)
	return err
}

func GetAccount(database *sql.DB, name string) (*model.Account, error) {
	a := &model.Account{}
	var createdAt SQLiteTime
	err := database.QueryRow(
		`SELECT name, credential, created_at FROM accounts WHERE name = ?`, name,
	).Scan(&a.Name, &a.Credential, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	a.CreatedAt = createdAt.Time
	return a, err
}

func AccountExists(database *sql.DB, name string) (bool, error) {
	var count int
	err := database.QueryRow(`SELECT COUNT(*) FROM accounts WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

// RenameAccount updates the registry key and credential in one statement.
// Session rows follow via ON UPDATE CASCADE.
func RenameAccount(database *sql.DB, oldName, newName, newCredential string) error {
	_, err := database.Exec(
		`UPDATE accounts SET name = ?, credential = ? WHERE name = ?`,
		newName, newCredential, oldName,
	)
	return err
}

func DeleteAccount(database *sql.DB, name string) error {
	_, err := database.Exec(`DELETE FROM accounts WHERE name = ?`, name)
	return err
}
