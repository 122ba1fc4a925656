package config

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/meat-stats/internal/models"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. It returns the file that was loaded, or ""
// when none was found.
func LoadEnv() (string, error) {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return "", nil
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return "", fmt.Errorf("error loading %s: %w", envFile, err)
	}
	return envFile, nil
}

// CategorySpecFor returns the workbook layout configured for a category.
func (c *Config) CategorySpecFor(category models.Category) (CategorySpec, error) {
	switch category {
	case models.CategoryProduction:
		return c.Categories.Production, nil
	case models.CategorySlaughterCount:
		return c.Categories.SlaughterCount, nil
	case models.CategorySlaughterWeight:
		return c.Categories.SlaughterWeight, nil
	case models.CategoryAverageWeight:
		return c.Categories.AverageWeight, nil
	default:
		return CategorySpec{}, fmt.Errorf("unknown category: %s", category)
	}
}
