package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"centris-scraper-service/internal/core/domain"
	"centris-scraper-service/internal/core/port"
)

const mlsNumberField = "mlsNumber"

// PropertyStorageAdapter реализует PropertyStoragePort поверх коллекции MongoDB
type PropertyStorageAdapter struct {
	collection *mongo.Collection
}

func NewPropertyStorageAdapter(client *mongo.Client, database, collection string) *PropertyStorageAdapter {
	return &PropertyStorageAdapter{
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes создает уникальный разреженный индекс по натуральному ключу.
// Разреженный, потому что записи без mlsNumber допустимы.
func (a *PropertyStorageAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := a.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: mlsNumberField, Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetSparse(true).
			SetName("mls_number_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create mlsNumber index: %w", err)
	}
	return nil
}

// Upsert записывает пакет по натуральному ключу: существующий документ
// замещается целиком, отсутствующий вставляется. Записи без mlsNumber
// вставляются как новые документы.
func (a *PropertyStorageAdapter) Upsert(ctx context.Context, records []domain.PropertyRecord) (port.UpsertStats, error) {
	stats := port.UpsertStats{}

	for _, record := range records {
		if record.MLSNumber == "" {
			if _, err := a.collection.InsertOne(ctx, record); err != nil {
				return stats, fmt.Errorf("failed to insert record without mlsNumber: %w", err)
			}
			stats.Inserted++
			continue
		}

		result, err := a.collection.ReplaceOne(
			ctx,
			bson.M{mlsNumberField: record.MLSNumber},
			record,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return stats, fmt.Errorf("failed to upsert record %s: %w", record.MLSNumber, err)
		}
		if result.UpsertedCount > 0 {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

// InsertNew вставляет только записи, чьих mlsNumber еще нет в коллекции
func (a *PropertyStorageAdapter) InsertNew(ctx context.Context, records []domain.PropertyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(records))
	for _, record := range records {
		if record.MLSNumber != "" {
			keys = append(keys, record.MLSNumber)
		}
	}

	existing := map[string]bool{}
	if len(keys) > 0 {
		values, err := a.collection.Distinct(ctx, mlsNumberField, bson.M{mlsNumberField: bson.M{"$in": keys}})
		if err != nil {
			return 0, fmt.Errorf("failed to query existing mlsNumbers: %w", err)
		}
		for _, v := range values {
			if key, ok := v.(string); ok {
				existing[key] = true
			}
		}
	}

	var fresh []interface{}
	for _, record := range records {
		if record.MLSNumber != "" && existing[record.MLSNumber] {
			continue
		}
		fresh = append(fresh, record)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	result, err := a.collection.InsertMany(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to insert new records: %w", err)
	}
	return len(result.InsertedIDs), nil
}

// Count возвращает количество документов в коллекции
func (a *PropertyStorageAdapter) Count(ctx context.Context) (int64, error) {
	count, err := a.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// FindAll возвращает все документы коллекции. Используется проверочным
// харнесом, на больших коллекциях применять не стоит.
func (a *PropertyStorageAdapter) FindAll(ctx context.Context) ([]domain.PropertyRecord, error) {
	cursor, err := a.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.PropertyRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return records, nil
}
