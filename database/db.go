package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dairy-dashboard/dataset"
	"dairy-dashboard/models"
)

const seedBatchSize = 500

// Store answers the dashboard queries from a SQLite copy of the dataset.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to the SQLite database at dsn. Use "file::memory:?cache=shared"
// for a throwaway in-process copy.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Info("Database connected", zap.String("dsn", dsn))
	return &Store{db: db, log: log}, nil
}

// Seed recreates the prices table and inserts records. It runs once at
// startup; nothing writes to the table afterwards.
func (s *Store) Seed(records []models.PriceRecord) error {
	if err := s.db.Migrator().DropTable(&models.PriceRecord{}); err != nil {
		return fmt.Errorf("drop prices: %w", err)
	}
	if err := s.db.AutoMigrate(&models.PriceRecord{}); err != nil {
		return fmt.Errorf("migrate prices: %w", err)
	}
	if len(records) > 0 {
		if err := s.db.CreateInBatches(records, seedBatchSize).Error; err != nil {
			return fmt.Errorf("insert prices: %w", err)
		}
	}

	s.log.Info("Database seeded", zap.Int("records", len(records)))
	return nil
}

// MapRecords mirrors dataset.Dataset.MapRecords.
func (s *Store) MapRecords(cluster int) ([]models.PriceRecord, error) {
	records := make([]models.PriceRecord, 0)
	err := s.db.Model(&models.PriceRecord{}).
		Where("timestamp = ? AND product_desc = ? AND cluster_cows = ?", dataset.MapYear, dataset.MapProduct, cluster).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query map cluster %d: %w", cluster, err)
	}
	return records, nil
}

// SeriesRecords mirrors dataset.Dataset.SeriesRecords.
func (s *Store) SeriesRecords(country, product string) ([]models.PriceRecord, error) {
	records := make([]models.PriceRecord, 0)
	err := s.db.Model(&models.PriceRecord{}).
		Where("country_3 = ? AND product_desc = ?", country, product).
		Order("timestamp").Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query series %s/%s: %w", country, product, err)
	}
	return records, nil
}

// Countries mirrors dataset.Dataset.Countries.
func (s *Store) Countries() ([]string, error) {
	countries := make([]string, 0)
	err := s.db.Model(&models.PriceRecord{}).
		Distinct("country_3").
		Order("country_3").
		Pluck("country_3", &countries).Error
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	return countries, nil
}

// Summaries mirrors dataset.Dataset.Summaries with a GROUP BY.
func (s *Store) Summaries(year int, product string) ([]models.ClusterSummary, error) {
	var rows []models.ClusterSummary
	err := s.db.Model(&models.PriceRecord{}).
		Select("cluster_cows AS cluster, COUNT(*) AS count, MIN(price) AS min_price, MAX(price) AS max_price, AVG(price) AS avg_price").
		Where("timestamp = ? AND product_desc = ? AND price_missing = ?", year, product, false).
		Group("cluster_cows").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query summaries %d/%s: %w", year, product, err)
	}

	byCluster := make(map[int]models.ClusterSummary, len(rows))
	for _, r := range rows {
		byCluster[r.Cluster] = r
	}
	out := make([]models.ClusterSummary, 0, len(models.Clusters))
	for _, c := range models.Clusters {
		sum, ok := byCluster[c.Value]
		if !ok {
			sum = models.ClusterSummary{Cluster: c.Value}
		}
		out = append(out, sum)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
