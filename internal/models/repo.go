package models

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
	opTimeout     time.Duration
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string, opTimeout time.Duration) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
		opTimeout:     opTimeout,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// withTimeout bounds a single database operation. A zero timeout leaves the
// caller's deadline untouched.
func (mdb *MongodbRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if mdb.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, mdb.opTimeout)
}
