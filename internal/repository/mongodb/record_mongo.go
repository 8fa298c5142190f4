package mongodb

import (
	"context"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const keyField = "Clave_Cliente"

var byKeyAsc = bson.D{{Key: keyField, Value: 1}}

type recordRepository struct{ coll *mongo.Collection }

// NewRecordRepository stores records as documents in coll.
func NewRecordRepository(coll *mongo.Collection) repository.RecordRepository {
	return &recordRepository{coll: coll}
}

// EnsureIndexes creates the unique key index that both uniqueness and the
// sorted listings rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    byKeyAsc,
		Options: options.Index().SetUnique(true).SetName("clave_cliente_unique"),
	})
	return err
}

func (r *recordRepository) Create(ctx context.Context, rec model.Record) (model.Record, error) {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return model.Record{}, repository.MapMongoError(err)
	}
	return rec, nil
}

func (r *recordRepository) GetByKey(ctx context.Context, key int64) (model.Record, error) {
	var out model.Record
	if err := r.coll.FindOne(ctx, bson.M{keyField: key}).Decode(&out); err != nil {
		return model.Record{}, repository.MapMongoError(err)
	}
	return out, nil
}

func (r *recordRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Record], error) {
	items, err := r.ListWindow(ctx, p)
	if err != nil {
		return repository.PageResult[model.Record]{}, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return repository.PageResult[model.Record]{}, err
	}
	return repository.PageResult[model.Record]{Items: items, Total: total}, nil
}

// ListWindow is a single sorted find with skip and limit.
func (r *recordRepository) ListWindow(ctx context.Context, p repository.Page) ([]model.Record, error) {
	p = p.Sanitized()
	opts := options.Find().
		SetSort(byKeyAsc).
		SetSkip(int64(p.Offset)).
		SetLimit(int64(p.Limit))
	return r.find(ctx, bson.D{}, opts)
}

func (r *recordRepository) ListAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error) {
	limit = repository.Page{Limit: limit}.Sanitized().Limit
	opts := options.Find().SetSort(byKeyAsc).SetLimit(int64(limit))
	return r.find(ctx, bson.M{keyField: bson.M{"$gt": afterKey}}, opts)
}

func (r *recordRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, repository.MapMongoError(err)
	}
	return n, nil
}

func (r *recordRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]model.Record, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, repository.MapMongoError(err)
	}
	defer cursor.Close(ctx)

	items := make([]model.Record, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, repository.MapMongoError(err)
	}
	if items == nil {
		items = []model.Record{}
	}
	return items, nil
}

type pinger struct{ client *mongo.Client }

// NewPinger adapts a mongo client to the repository.Pinger interface.
func NewPinger(client *mongo.Client) repository.Pinger { return &pinger{client: client} }

func (p *pinger) Ping(ctx context.Context) error { return p.client.Ping(ctx, readpref.Primary()) }

var _ repository.RecordRepository = (*recordRepository)(nil)
