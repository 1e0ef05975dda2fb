package database

import (
	"database/sql"
	"fmt"

	"rewear/internal/models"
)

func GetCategories(db *sql.DB) ([]models.Category, error) {
	rows, err := db.Query(`SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func GetSizes(db *sql.DB) ([]models.Size, error) {
	rows, err := db.Query(`SELECT id, label FROM sizes ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sizes: %w", err)
	}
	defer rows.Close()

	var sizes []models.Size
	for rows.Next() {
		var s models.Size
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, fmt.Errorf("failed to scan size: %w", err)
		}
		sizes = append(sizes, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sizes: %w", err)
	}

	return sizes, nil
}

func GetConditions(db *sql.DB) ([]models.Condition, error) {
	rows, err := db.Query(`SELECT id, label FROM conditions ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conditions: %w", err)
	}
	defer rows.Close()

	var conditions []models.Condition
	for rows.Next() {
		var c models.Condition
		if err := rows.Scan(&c.ID, &c.Label); err != nil {
			return nil, fmt.Errorf("failed to scan condition: %w", err)
		}
		conditions = append(conditions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conditions: %w", err)
	}

	return conditions, nil
}

func GetTags(db *sql.DB) ([]models.Tag, error) {
	rows, err := db.Query(`SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// ValidCategory reports whether name is a seeded category.
func ValidCategory(db *sql.DB, name string) (bool, error) {
	return taxonomyExists(db, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`, name)
}

// ValidSize reports whether label is a seeded size.
func ValidSize(db *sql.DB, label string) (bool, error) {
	return taxonomyExists(db, `SELECT EXISTS(SELECT 1 FROM sizes WHERE label = ?)`, label)
}

// ValidCondition reports whether label is a seeded condition.
func ValidCondition(db *sql.DB, label string) (bool, error) {
	return taxonomyExists(db, `SELECT EXISTS(SELECT 1 FROM conditions WHERE label = ?)`, label)
}

func taxonomyExists(db *sql.DB, query, value string) (bool, error) {
	var exists bool
	if err := db.QueryRow(query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check taxonomy value: %w", err)
	}
	return exists, nil
}
